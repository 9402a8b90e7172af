package domain

import "time"

// DiagnosticStatus indicates a probe outcome.
type DiagnosticStatus string

const (
	DiagnosticPending DiagnosticStatus = "pending"
	DiagnosticPass    DiagnosticStatus = "pass"
	DiagnosticWarning DiagnosticStatus = "warning"
	DiagnosticFail    DiagnosticStatus = "fail"
)

// Detail is one ordered key/value pair in a diagnostic result.
type Detail struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DiagnosticResult captures a single probe's findings. Each probe produces
// exactly one result; the status moves from pending to its final value once
// and the result is read-only afterward.
type DiagnosticResult struct {
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	Status          DiagnosticStatus `json:"status"`
	Message         string           `json:"message"`
	Details         []Detail         `json:"details,omitempty"`
	Recommendations []string         `json:"recommendations,omitempty"`
	Elapsed         time.Duration    `json:"elapsed_ns"`
}

// NewDiagnosticResult creates a pending result for a probe.
func NewDiagnosticResult(name, category string) *DiagnosticResult {
	return &DiagnosticResult{Name: name, Category: category, Status: DiagnosticPending}
}

// Resolve sets the final status and message. Only the first call takes effect.
func (d *DiagnosticResult) Resolve(status DiagnosticStatus, message string) {
	if d.Status != DiagnosticPending {
		return
	}
	d.Status = status
	d.Message = message
}

// AddDetail appends one ordered key/value pair.
func (d *DiagnosticResult) AddDetail(key, value string) {
	d.Details = append(d.Details, Detail{Key: key, Value: value})
}

// Detail returns the value for a key, if present.
func (d *DiagnosticResult) Detail(key string) (string, bool) {
	for _, kv := range d.Details {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Recommend appends a recommendation string.
func (d *DiagnosticResult) Recommend(rec string) {
	d.Recommendations = append(d.Recommendations, rec)
}

// DiagnosticReport is the persisted artifact of one full diagnostic run.
type DiagnosticReport struct {
	ID          string             `json:"id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Platform    string             `json:"platform"`
	Hostname    string             `json:"hostname"`
	Results     []DiagnosticResult `json:"results"`
	PassCount   int                `json:"pass_count"`
	WarnCount   int                `json:"warn_count"`
	FailCount   int                `json:"fail_count"`
}
