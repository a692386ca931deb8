package apk

import (
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/apkscope/apkscope-cli/pkg/models"
)

// AAPT abstracts the asset-packaging tool so inspections can run against
// canned dumps in tests.
type AAPT interface {
	DumpBadging(apkPath string) (string, error)
	DumpPermissions(apkPath string) (string, error)
	DumpXMLTree(apkPath, entry string) (string, error)
}

// ExecAAPT invokes the aapt binary found on PATH (or a configured path).
type ExecAAPT struct {
	Path string
}

// NewExecAAPT creates an adapter for the given binary path. An empty path
// falls back to "aapt" on PATH.
func NewExecAAPT(path string) *ExecAAPT {
	if path == "" {
		path = "aapt"
	}
	return &ExecAAPT{Path: path}
}

// Available reports whether the binary can be invoked.
func (a *ExecAAPT) Available() bool {
	cmd := exec.Command(a.Path, "version")
	return cmd.Run() == nil
}

func (a *ExecAAPT) DumpBadging(apkPath string) (string, error) {
	return a.run("dump", "badging", apkPath)
}

func (a *ExecAAPT) DumpPermissions(apkPath string) (string, error) {
	return a.run("dump", "permissions", apkPath)
}

func (a *ExecAAPT) DumpXMLTree(apkPath, entry string) (string, error) {
	return a.run("dump", "xmltree", apkPath, entry)
}

// run discards stderr and surfaces a failed invocation as empty output.
// Callers detect failure through the absence of the fields they expect.
func (a *ExecAAPT) run(args ...string) (string, error) {
	cmd := exec.Command(a.Path, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", nil
	}
	return string(out), nil
}

var (
	badgingLabelRe     = regexp.MustCompile(`(?m)^application:.*label='([^']*)'`)
	badgingLaunchRe    = regexp.MustCompile(`(?m)^launchable-activity:.*label='([^']*)'`)
	badgingPackageRe   = regexp.MustCompile(`(?m)^package:.*name='([^']+)'`)
	badgingCodeRe      = regexp.MustCompile(`versionCode='([^']*)'`)
	badgingNameRe      = regexp.MustCompile(`versionName='([^']*)'`)
	badgingSdkRe       = regexp.MustCompile(`(?m)^sdkVersion:'(\d+)'`)
	badgingTargetRe    = regexp.MustCompile(`(?m)^targetSdkVersion:'(\d+)'`)
	badgingMaxSdkRe    = regexp.MustCompile(`(?m)^maxSdkVersion:'(\d+)'`)
	badgingPermRe      = regexp.MustCompile(`(?m)^uses-permission:.*name='([^']+)'`)
	xmltreeElementRe   = regexp.MustCompile(`E:\s+(\S+)`)
	xmltreeNameAttrRe  = regexp.MustCompile(`A:\s+android:name\(0x[0-9a-fA-F]+\)="([^"]*)"`)
)

// AppName extracts the display label from a badging dump, preferring the
// application line and falling back to the launchable activity.
func AppName(badging string) string {
	if m := badgingLabelRe.FindStringSubmatch(badging); len(m) > 1 && m[1] != "" {
		return m[1]
	}
	if m := badgingLaunchRe.FindStringSubmatch(badging); len(m) > 1 {
		return m[1]
	}
	return ""
}

// ParseBadging fills a manifest-shaped record from a badging dump. Missing
// fields stay at their zero values.
func ParseBadging(badging string) models.Manifest {
	var man models.Manifest

	if m := badgingPackageRe.FindStringSubmatch(badging); len(m) > 1 {
		man.Package = m[1]
	}
	if m := badgingCodeRe.FindStringSubmatch(badging); len(m) > 1 {
		if code, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			man.Version.Code = &code
		}
	}
	if m := badgingNameRe.FindStringSubmatch(badging); len(m) > 1 {
		man.Version.Name = m[1]
	}

	sdk := &models.SDK{Min: "1"}
	if m := badgingSdkRe.FindStringSubmatch(badging); len(m) > 1 {
		sdk.Min = m[1]
	}
	sdk.Target = sdk.Min
	if m := badgingTargetRe.FindStringSubmatch(badging); len(m) > 1 {
		sdk.Target = m[1]
	}
	if m := badgingMaxSdkRe.FindStringSubmatch(badging); len(m) > 1 {
		sdk.Max = m[1]
	}
	man.SDK = sdk

	for _, m := range badgingPermRe.FindAllStringSubmatch(badging, -1) {
		man.Permissions = append(man.Permissions, m[1])
	}
	sort.Strings(man.Permissions)

	return man
}

// ParsePermissions extracts permission names from a "dump permissions"
// dump, sorted ascending.
func ParsePermissions(dump string) []string {
	var perms []string
	for _, m := range badgingPermRe.FindAllStringSubmatch(dump, -1) {
		perms = append(perms, m[1])
	}
	sort.Strings(perms)
	return perms
}

// ParseXMLTreeComponents scans an xmltree dump of AndroidManifest.xml for
// activity, service and receiver elements, keeping only the android:name
// attribute of each. The dump is line oriented; the name attribute follows
// the element line at a deeper indent.
func ParseXMLTreeComponents(dump string) (activities []models.Activity, services []models.Service, receivers []models.Receiver) {
	lines := strings.Split(dump, "\n")
	for i, line := range lines {
		m := xmltreeElementRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		element := m[1]
		if element != "activity" && element != "service" && element != "receiver" {
			continue
		}
		name := xmltreeComponentName(lines, i)
		switch element {
		case "activity":
			activities = append(activities, models.Activity{Name: name})
		case "service":
			services = append(services, models.Service{Name: name})
		case "receiver":
			receivers = append(receivers, models.Receiver{Name: name})
		}
	}
	return activities, services, receivers
}

// xmltreeComponentName finds the android:name attribute belonging to the
// element opened at line idx, stopping at the next element line.
func xmltreeComponentName(lines []string, idx int) string {
	for i := idx + 1; i < len(lines); i++ {
		if xmltreeElementRe.MatchString(lines[i]) {
			break
		}
		if m := xmltreeNameAttrRe.FindStringSubmatch(lines[i]); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}
