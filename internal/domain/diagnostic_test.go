package domain_test

import (
	"testing"

	"github.com/doeshing/hangwatch/internal/domain"
)

// TestDiagnosticResult_Resolve tests the one-shot status transition
func TestDiagnosticResult_Resolve(t *testing.T) {
	result := domain.NewDiagnosticResult("PathConfiguration", "environment")
	if result.Status != domain.DiagnosticPending {
		t.Fatalf("new result should be pending, got %q", result.Status)
	}

	result.Resolve(domain.DiagnosticWarning, "too many entries")
	result.Resolve(domain.DiagnosticFail, "later resolve must not win")

	if result.Status != domain.DiagnosticWarning {
		t.Errorf("got status %q, want %q", result.Status, domain.DiagnosticWarning)
	}
	if result.Message != "too many entries" {
		t.Errorf("got message %q", result.Message)
	}
}

// TestDiagnosticResult_Details tests ordered detail storage
func TestDiagnosticResult_Details(t *testing.T) {
	result := domain.NewDiagnosticResult("ShellEnvironment", "shell")
	result.AddDetail("active_shell", "bash")
	result.AddDetail("env_var_count", "42")

	if len(result.Details) != 2 || result.Details[0].Key != "active_shell" {
		t.Fatalf("details not in insertion order: %+v", result.Details)
	}
	if v, ok := result.Detail("env_var_count"); !ok || v != "42" {
		t.Errorf("Detail lookup = %q, %v", v, ok)
	}
	if _, ok := result.Detail("missing"); ok {
		t.Error("lookup of absent key should report false")
	}
}
