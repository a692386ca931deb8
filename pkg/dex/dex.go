// Package dex summarises compiled bytecode containers by their printable
// strings.
package dex

import (
	"sort"
	"strings"

	"github.com/apkscope/apkscope-cli/pkg/matcher"
	"github.com/apkscope/apkscope-cli/pkg/models"
)

// Printable ASCII runs shorter than this are noise.
const minStringLength = 4

// URL classification skips very short strings.
const minURLLength = 7

// Summarize extracts printable strings from the DEX bytes and partitions
// them into URLs, shell commands and the full sorted extraction. The
// extraction is done natively so results are identical across platforms.
func Summarize(data []byte, file models.File, matchers *matcher.Set) models.Dex {
	d := models.Dex{
		File:          file,
		Strings:       ExtractStrings(data),
		URLs:          []string{},
		ShellCommands: []string{},
	}

	seenURL := make(map[string]bool)
	seenShell := make(map[string]bool)
	for _, s := range d.Strings {
		if len(s) >= minURLLength {
			if hit := matchers.URL.FindIn(s); hit != "" && !seenURL[hit] {
				seenURL[hit] = true
				d.URLs = append(d.URLs, hit)
			}
		}
		if hit := matchers.Shell.FindIn(s); hit != "" && !seenShell[hit] {
			seenShell[hit] = true
			d.ShellCommands = append(d.ShellCommands, hit)
		}
	}

	sort.Strings(d.URLs)
	sort.Strings(d.ShellCommands)
	return d
}

// ExtractStrings returns every printable ASCII run of at least four
// characters, trimmed, sorted ascending, with empty entries dropped.
// Duplicates survive if the raw extraction produced them.
func ExtractStrings(data []byte) []string {
	var runs []string
	start := -1
	for i, b := range data {
		if b >= 0x20 && b <= 0x7E {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= minStringLength {
			runs = append(runs, string(data[start:i]))
		}
		start = -1
	}
	if start >= 0 && len(data)-start >= minStringLength {
		runs = append(runs, string(data[start:]))
	}

	out := make([]string, 0, len(runs))
	for _, r := range runs {
		if trimmed := strings.TrimSpace(r); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	sort.Strings(out)
	return out
}
