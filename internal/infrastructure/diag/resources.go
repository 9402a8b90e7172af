package diag

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/ports"
)

// ResourcesProbe queries memory, disk, and load best-effort. Retrieval
// failure is a warning, never a fail: resource pressure is a hint for hang
// analysis, not a precondition.
type ResourcesProbe struct {
	diskPath string
}

// NewResourcesProbe builds the probe against the root filesystem.
func NewResourcesProbe() *ResourcesProbe {
	return &ResourcesProbe{diskPath: rootDiskPath()}
}

func (p *ResourcesProbe) Name() string { return "SystemResources" }

func (p *ResourcesProbe) Run(ctx context.Context) domain.DiagnosticResult {
	result := domain.NewDiagnosticResult(p.Name(), "system")
	failures := 0

	memCtx, cancel := context.WithTimeout(ctx, domain.ProbeResourceCeiling)
	vm, err := mem.VirtualMemoryWithContext(memCtx)
	cancel()
	if err != nil {
		failures++
		result.AddDetail("memory", "unavailable: "+err.Error())
	} else {
		result.AddDetail("mem_total", humanize.IBytes(vm.Total))
		result.AddDetail("mem_used", fmt.Sprintf("%s (%.1f%%)", humanize.IBytes(vm.Used), vm.UsedPercent))
		if vm.UsedPercent > 90 {
			result.Recommend("memory pressure is high; a swapping host makes every command look hung")
		}
	}

	diskCtx, cancel := context.WithTimeout(ctx, domain.ProbeResourceCeiling)
	usage, err := disk.UsageWithContext(diskCtx, p.diskPath)
	cancel()
	if err != nil {
		failures++
		result.AddDetail("disk", "unavailable: "+err.Error())
	} else {
		result.AddDetail("disk_total", humanize.IBytes(usage.Total))
		result.AddDetail("disk_used", fmt.Sprintf("%s (%.1f%%)", humanize.IBytes(usage.Used), usage.UsedPercent))
		if usage.UsedPercent > 95 {
			result.Recommend("root filesystem is nearly full; builds and VCS operations stall on full disks")
		}
	}

	loadCtx, cancel := context.WithTimeout(ctx, domain.ProbeResourceCeiling)
	avg, err := load.AvgWithContext(loadCtx)
	cancel()
	if err != nil {
		// Load average is absent on some platforms; not worth a warning
		// by itself.
		result.AddDetail("load_avg", "unavailable")
	} else {
		result.AddDetail("load_avg", fmt.Sprintf("%.2f %.2f %.2f", avg.Load1, avg.Load5, avg.Load15))
	}

	if failures > 0 {
		result.Resolve(domain.DiagnosticWarning, fmt.Sprintf("%d resource query(ies) unavailable", failures))
	} else {
		result.Resolve(domain.DiagnosticPass, "system resources retrieved")
	}
	return *result
}

var _ ports.DiagnosticProbe = (*ResourcesProbe)(nil)
