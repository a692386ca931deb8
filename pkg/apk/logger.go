package apk

import "fmt"

// Logger interface for inspection pipeline logging
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// SimpleLogger is a basic logger implementation
type SimpleLogger struct {
	Verbose bool
}

func (l *SimpleLogger) Debug(format string, args ...interface{}) {
	if l.Verbose {
		fmt.Printf("Debug: "+format+"\n", args...)
	}
}

func (l *SimpleLogger) Info(format string, args ...interface{}) {
	if l.Verbose {
		fmt.Printf(format+"\n", args...)
	}
}

func (l *SimpleLogger) Warn(format string, args ...interface{}) {
	fmt.Printf("Warning: "+format+"\n", args...)
}

func (l *SimpleLogger) Error(format string, args ...interface{}) {
	fmt.Printf("Error: "+format+"\n", args...)
}
