//go:build !windows
// +build !windows

package system

import (
	"fmt"
	"path/filepath"
	"syscall"
)

// getDiskUsage returns disk usage information for Unix-like systems
func getDiskUsage(path string) (*DiskUsage, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(absPath, &stat); err != nil {
		return nil, fmt.Errorf("failed to get disk statistics: %w", err)
	}

	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bfree * uint64(stat.Bsize)

	return &DiskUsage{
		Total:     total,
		Used:      total - free,
		Free:      free,
		Available: stat.Bavail * uint64(stat.Bsize),
	}, nil
}
