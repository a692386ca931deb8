package utils

import (
	"fmt"
	"strings"
	"time"
)

// ProgressBar represents a progress bar
type ProgressBar struct {
	total       int64
	current     int64
	description string
	startTime   time.Time
	width       int
}

// NewProgressBar creates a new progress bar
func NewProgressBar(total int64, description string) *ProgressBar {
	return &ProgressBar{
		total:       total,
		description: description,
		startTime:   time.Now(),
		width:       50,
	}
}

// Increment increments the progress by 1
func (pb *ProgressBar) Increment() {
	pb.current++
	pb.render()
}

// SetDescription updates the description
func (pb *ProgressBar) SetDescription(desc string) {
	pb.description = desc
	pb.render()
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() {
	pb.current = pb.total
	pb.render()
	fmt.Println()
}

func (pb *ProgressBar) render() {
	if pb.total <= 0 {
		return
	}

	percentage := float64(pb.current) / float64(pb.total) * 100
	filled := int(float64(pb.width) * float64(pb.current) / float64(pb.total))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", pb.width-filled)

	elapsed := time.Since(pb.startTime)
	var eta string
	if pb.current > 0 && pb.current < pb.total {
		totalTime := time.Duration(float64(elapsed) * float64(pb.total) / float64(pb.current))
		if remaining := totalTime - elapsed; remaining > 0 {
			eta = fmt.Sprintf(" ETA: %v", remaining.Round(time.Second))
		}
	}

	fmt.Printf("\r%s [%s] %.1f%% (%d/%d)%s",
		pb.description, bar, percentage, pb.current, pb.total, eta)
}

// InspectProgress tracks batch inspection statistics
type InspectProgress struct {
	TotalFiles     int
	ProcessedFiles int
	Inspected      int
	FromCache      int
	Failed         int
	StartTime      time.Time
	CurrentFile    string
}

// NewInspectProgress creates a new inspection progress tracker
func NewInspectProgress() *InspectProgress {
	return &InspectProgress{
		StartTime: time.Now(),
	}
}

// SetCurrentFile sets the currently processing file
func (ip *InspectProgress) SetCurrentFile(filename string) {
	ip.CurrentFile = filename
	ip.ProcessedFiles++
}

// AddInspected increments the fully-inspected counter
func (ip *InspectProgress) AddInspected() {
	ip.Inspected++
}

// AddFromCache increments the cache-hit counter
func (ip *InspectProgress) AddFromCache() {
	ip.FromCache++
}

// AddFailed increments the failure counter
func (ip *InspectProgress) AddFailed() {
	ip.Failed++
}

// ShowProgress displays current progress
func (ip *InspectProgress) ShowProgress() {
	if ip.TotalFiles <= 0 {
		return
	}

	percentage := float64(ip.ProcessedFiles) / float64(ip.TotalFiles) * 100

	current := ip.CurrentFile
	if len(current) > 40 {
		current = "..." + current[len(current)-37:]
	}

	fmt.Printf("\rProgress: %.1f%% (%d/%d) | %s",
		percentage, ip.ProcessedFiles, ip.TotalFiles, current)
}

// ShowFinalStats displays final inspection statistics
func (ip *InspectProgress) ShowFinalStats() {
	elapsed := time.Since(ip.StartTime)

	fmt.Print("\n\n")
	fmt.Println("=== Inspection Results ===")
	fmt.Printf("Files processed: %d\n", ip.ProcessedFiles)
	fmt.Printf("Inspected: %d\n", ip.Inspected)
	fmt.Printf("From cache: %d\n", ip.FromCache)
	if ip.Failed > 0 {
		fmt.Printf("Failed: %d\n", ip.Failed)
	}
	fmt.Printf("Total time: %v\n", elapsed.Round(time.Millisecond))

	if ip.ProcessedFiles > 0 {
		avg := elapsed / time.Duration(ip.ProcessedFiles)
		fmt.Printf("Average time per file: %v\n", avg.Round(time.Millisecond))
	}
}
