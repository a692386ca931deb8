// Package system checks the host for the external tools and resources
// the inspection pipeline relies on.
package system

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// DependencyStatus describes one external tool on this host
type DependencyStatus struct {
	Name      string
	Available bool
	Path      string
	Version   string
	Required  bool
}

// DependencyManager checks external tool availability
type DependencyManager interface {
	CheckDependency(name string) DependencyStatus
	CheckAll() []DependencyStatus
	GetInstallInstructions(name string) []string
}

// DefaultDependencyManager resolves tools on PATH and in common SDK
// install locations
type DefaultDependencyManager struct {
	definitions []DependencyDefinition
}

// DependencyDefinition declares how one tool is located and identified
type DependencyDefinition struct {
	Name        string
	Commands    []string
	VersionArgs []string
	Required    bool
	ExtraPaths  []string
}

// NewDependencyManager creates a manager for the tools the pipeline
// shells out to. The asset-packaging tool and keytool are required; the
// rest improve diagnostics only.
func NewDependencyManager() DependencyManager {
	return &DefaultDependencyManager{
		definitions: []DependencyDefinition{
			{
				Name:        "aapt",
				Commands:    []string{"aapt", "aapt2"},
				VersionArgs: []string{"version"},
				Required:    true,
				ExtraPaths:  commonBuildToolsPaths(),
			},
			{
				Name:        "keytool",
				Commands:    []string{"keytool"},
				VersionArgs: []string{"-help"},
				Required:    true,
			},
			{
				Name:        "java",
				Commands:    []string{"java"},
				VersionArgs: []string{"-version"},
				Required:    false,
			},
		},
	}
}

// CheckDependency checks a single tool by name
func (dm *DefaultDependencyManager) CheckDependency(name string) DependencyStatus {
	for _, def := range dm.definitions {
		if def.Name == name {
			return dm.check(def)
		}
	}
	return DependencyStatus{Name: name}
}

// CheckAll checks every declared tool
func (dm *DefaultDependencyManager) CheckAll() []DependencyStatus {
	statuses := make([]DependencyStatus, 0, len(dm.definitions))
	for _, def := range dm.definitions {
		statuses = append(statuses, dm.check(def))
	}
	return statuses
}

func (dm *DefaultDependencyManager) check(def DependencyDefinition) DependencyStatus {
	status := DependencyStatus{Name: def.Name, Required: def.Required}

	for _, command := range def.Commands {
		if path, err := exec.LookPath(command); err == nil {
			status.Available = true
			status.Path = path
			status.Version = toolVersion(path, def.VersionArgs)
			return status
		}
	}

	for _, pattern := range def.ExtraPaths {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, match := range matches {
			if err := exec.Command(match, def.VersionArgs...).Run(); err == nil {
				status.Available = true
				status.Path = match
				status.Version = toolVersion(match, def.VersionArgs)
				return status
			}
		}
	}

	return status
}

// toolVersion runs the tool's version command and keeps the first line.
func toolVersion(path string, args []string) string {
	out, err := exec.Command(path, args...).CombinedOutput()
	if err != nil {
		return ""
	}
	line := strings.SplitN(strings.TrimSpace(string(out)), "\n", 2)[0]
	if len(line) > 80 {
		line = line[:80]
	}
	return line
}

// GetInstallInstructions returns platform hints for installing a tool
func (dm *DefaultDependencyManager) GetInstallInstructions(name string) []string {
	switch name {
	case "aapt":
		return aaptInstallInstructions()
	case "keytool", "java":
		return []string{
			"Install a JDK; keytool ships with it:",
			"  Ubuntu/Debian: sudo apt-get install default-jdk",
			"  macOS: brew install openjdk",
			"  Windows: https://adoptium.net/",
		}
	default:
		return nil
	}
}

func aaptInstallInstructions() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"Install Android SDK build-tools:",
			"  brew install android-commandlinetools",
			"  sdkmanager 'build-tools;34.0.0'",
		}
	case "windows":
		return []string{
			"Install Android SDK build-tools via Android Studio,",
			"then add %LOCALAPPDATA%\\Android\\Sdk\\build-tools\\<version> to PATH",
		}
	default:
		return []string{
			"Install Android SDK build-tools:",
			"  Ubuntu/Debian: sudo apt-get install aapt",
			"  Or via sdkmanager: sdkmanager 'build-tools;34.0.0'",
		}
	}
}

// commonBuildToolsPaths lists glob patterns where SDK installs place
// the asset-packaging tool when it is not on PATH.
func commonBuildToolsPaths() []string {
	var bases []string
	switch runtime.GOOS {
	case "darwin":
		bases = []string{
			"~/Library/Android/sdk/build-tools/*",
			"/usr/local/share/android-sdk/build-tools/*",
		}
	case "windows":
		bases = []string{
			"~/AppData/Local/Android/Sdk/build-tools/*",
		}
	default:
		bases = []string{
			"~/Android/Sdk/build-tools/*",
			"/opt/android-sdk/build-tools/*",
		}
	}

	var patterns []string
	for _, base := range bases {
		patterns = append(patterns, filepath.Join(expandHome(base), "aapt"))
		patterns = append(patterns, filepath.Join(expandHome(base), "aapt2"))
	}
	return patterns
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
