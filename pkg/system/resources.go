package system

import (
	"fmt"
	"os"
	"path/filepath"
)

// DiskUsage holds disk space figures for one filesystem
type DiskUsage struct {
	Total     uint64
	Used      uint64
	Free      uint64
	Available uint64
}

// Logger is the subset of logging the checkers need
type Logger interface {
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
}

// ResourceChecker verifies the host can stage and inspect archives
type ResourceChecker struct {
	logger Logger
}

// NewResourceChecker creates a resource checker
func NewResourceChecker(logger Logger) *ResourceChecker {
	return &ResourceChecker{logger: logger}
}

// CheckDiskSpace returns disk usage for the filesystem holding path
func (rc *ResourceChecker) CheckDiskSpace(path string) (*DiskUsage, error) {
	usage, err := getDiskUsage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check disk space for %s: %w", path, err)
	}
	return usage, nil
}

// CheckScratchDir verifies a scratch directory can be created and
// written under the system temp location.
func (rc *ResourceChecker) CheckScratchDir() error {
	dir, err := os.MkdirTemp("", "apkscope-doctor-")
	if err != nil {
		return fmt.Errorf("cannot create scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	probe := filepath.Join(dir, "probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return fmt.Errorf("cannot write in scratch directory: %w", err)
	}
	return nil
}

// CheckReadable verifies path exists and is readable
func (rc *ResourceChecker) CheckReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	return f.Close()
}

// FormatDiskUsage renders usage as a short human-readable line
func FormatDiskUsage(usage *DiskUsage) string {
	return fmt.Sprintf("%s free of %s",
		formatBytes(usage.Available), formatBytes(usage.Total))
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
