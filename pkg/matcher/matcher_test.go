package matcher

import "testing"

func mustSet(t *testing.T) *Set {
	t.Helper()
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig: %v", err)
	}
	set, err := NewSet(cfg)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return set
}

func TestURLMatcher(t *testing.T) {
	set := mustSet(t)

	valid := []string{
		"http://example.com/path",
		"https://www.example.org",
		"ftp://files.example.net:2121/pub",
		"example.com",
		"10.0.0.1:8080",
		"192.168.1.1",
	}
	for _, s := range valid {
		if !set.URL.IsValid(s) {
			t.Errorf("IsValid(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"hello world",
		"just-a-token",
		"://missing.host",
	}
	for _, s := range invalid {
		if set.URL.IsValid(s) {
			t.Errorf("IsValid(%q) = true, want false", s)
		}
	}

	if got := set.URL.FindIn("visit http://example.com/path today"); got != "http://example.com/path" {
		t.Errorf("FindIn = %q", got)
	}
	if got := set.URL.FindIn("no address here"); got != "" {
		t.Errorf("FindIn on plain text = %q", got)
	}
}

func TestShellMatcher(t *testing.T) {
	set := mustSet(t)

	if !set.Shell.IsValid("chmod 777") {
		t.Error("IsValid(chmod 777) = false")
	}
	if !set.Shell.IsValid("su") {
		t.Error("IsValid(su) = false")
	}
	if got := set.Shell.FindIn("exec: chmod 777 /tmp/x"); got == "" {
		t.Error("FindIn missed embedded command")
	}
	if got := set.Shell.FindIn("writes to /data/local/tmp/payload"); got != "/data/local/tmp/payload" {
		t.Errorf("FindIn path hit = %q", got)
	}
	if got := set.Shell.FindIn("plainly harmless text"); got != "" {
		t.Errorf("FindIn on harmless text = %q", got)
	}
}

func TestGenericMatcher(t *testing.T) {
	m, err := NewGeneric([]string{"foo", "foobar"})
	if err != nil {
		t.Fatalf("NewGeneric: %v", err)
	}
	if !m.IsValid("prefix foobar suffix") {
		t.Error("IsValid with signature present = false")
	}
	// Later fragments are more specific and must win the alternation.
	if got := m.FindIn("xx foobar yy"); got == "" {
		t.Error("FindIn missed signature")
	}

	empty, err := NewGeneric(nil)
	if err != nil {
		t.Fatalf("NewGeneric(nil): %v", err)
	}
	if empty.IsValid("anything") {
		t.Error("empty generic matcher must match nothing")
	}
	if got := empty.FindIn("anything"); got != "" {
		t.Errorf("empty generic FindIn = %q", got)
	}
}

// IsValid(FindIn(s)) must hold whenever FindIn returns a hit, and FindIn is
// idempotent on its own non-empty output.
func TestMatcherInvariants(t *testing.T) {
	set := mustSet(t)
	samples := []string{
		"download from http://example.com/path now",
		"run chmod 777 first",
		"ftp://mirror.example.org/file",
		"touch /data/data/com.example/files/x",
		"plain text with no hits at all",
	}
	for _, m := range []*Matcher{set.URL, set.Shell} {
		for _, s := range samples {
			hit := m.FindIn(s)
			if hit == "" {
				continue
			}
			if !m.IsValid(hit) {
				t.Errorf("IsValid(FindIn(%q)) = false, hit %q", s, hit)
			}
			if again := m.FindIn(hit); again != hit {
				t.Errorf("FindIn not idempotent: %q -> %q", hit, again)
			}
		}
	}
}
