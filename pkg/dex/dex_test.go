package dex

import (
	"bytes"
	"reflect"
	"sort"
	"testing"

	"github.com/apkscope/apkscope-cli/pkg/matcher"
	"github.com/apkscope/apkscope-cli/pkg/models"
)

func testMatchers(t *testing.T) *matcher.Set {
	t.Helper()
	cfg, err := matcher.DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig: %v", err)
	}
	set, err := matcher.NewSet(cfg)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return set
}

// blob joins fragments with zero bytes, mimicking string data embedded in
// a bytecode container.
func blob(fragments ...string) []byte {
	return append(bytes.Join(stringsToBytes(fragments), []byte{0x00, 0x01}), 0x00)
}

func stringsToBytes(in []string) [][]byte {
	out := make([][]byte, len(in))
	for i, s := range in {
		out[i] = []byte(s)
	}
	return out
}

func TestSummarizeClassification(t *testing.T) {
	data := blob(
		"dex\n035",
		"http://example.com/path",
		"chmod 777",
		"hello world",
	)
	d := Summarize(data, models.File{Name: "classes.dex"}, testMatchers(t))

	if !reflect.DeepEqual(d.URLs, []string{"http://example.com/path"}) {
		t.Errorf("urls = %v", d.URLs)
	}
	if !reflect.DeepEqual(d.ShellCommands, []string{"chmod 777"}) {
		t.Errorf("shell_commands = %v", d.ShellCommands)
	}

	if !sort.StringsAreSorted(d.Strings) {
		t.Errorf("strings not sorted: %v", d.Strings)
	}
	for _, want := range []string{"http://example.com/path", "chmod 777", "hello world"} {
		found := false
		for _, s := range d.Strings {
			if s == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("strings missing %q: %v", want, d.Strings)
		}
	}
}

func TestSummarizeDeduplicates(t *testing.T) {
	data := blob("http://dup.example.com/x", "http://dup.example.com/x", "chmod 755", "chmod 755")
	d := Summarize(data, models.File{}, testMatchers(t))

	if len(d.URLs) != 1 {
		t.Errorf("urls = %v, want one entry", d.URLs)
	}
	if len(d.ShellCommands) != 1 {
		t.Errorf("shell_commands = %v, want one entry", d.ShellCommands)
	}
	// The raw extraction keeps duplicates.
	count := 0
	for _, s := range d.Strings {
		if s == "http://dup.example.com/x" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("raw extraction kept %d copies, want 2", count)
	}
}

func TestExtractStrings(t *testing.T) {
	data := []byte("ab\x00hello\x01  padded  \x02xyz\x03longtail")
	got := ExtractStrings(data)
	want := []string{"hello", "longtail", "padded"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractStrings = %v, want %v", got, want)
	}
}

func TestExtractStringsEmpty(t *testing.T) {
	if got := ExtractStrings([]byte{0x00, 0x01, 0x02, 'a', 'b'}); len(got) != 0 {
		t.Errorf("ExtractStrings = %v, want empty", got)
	}
}
