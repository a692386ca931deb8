// Package matcher provides the configurable regex engine used to classify
// strings found in application packages.
package matcher

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed signatures.toml
var defaultSignatures []byte

// Config is the named-fragment-list record the matchers are built from.
type Config struct {
	Generic GenericConfig `toml:"generic"`
	URL     URLConfig     `toml:"url"`
	Shell   ShellConfig   `toml:"shell"`
}

// GenericConfig feeds the generic signature matcher.
type GenericConfig struct {
	Signatures []string `toml:"signatures"`
}

// URLConfig feeds the URL matcher. TLDs extend the two-to-six letter
// fallback alternation.
type URLConfig struct {
	TLDs []string `toml:"tlds"`
}

// ShellConfig feeds the shell-command matcher.
type ShellConfig struct {
	Commands    []string `toml:"commands"`
	Directories []string `toml:"directories"`
}

// DefaultConfig returns the embedded signature definitions.
func DefaultConfig() (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(defaultSignatures, &cfg); err != nil {
		return nil, fmt.Errorf("embedded signature definitions are invalid: %w", err)
	}
	return &cfg, nil
}

// LoadConfig reads signature definitions from path, or returns the embedded
// defaults when path is empty.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig()
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load signature definitions from %s: %w", path, err)
	}
	return &cfg, nil
}

// Matcher holds one anchored "is-valid" pattern and one unanchored
// "contains" pattern. Matchers are stateless after construction and safe
// for concurrent use.
type Matcher struct {
	valid    *regexp.Regexp
	contains *regexp.Regexp
}

// IsValid reports whether s matches the anchored form in its entirety.
func (m *Matcher) IsValid(s string) bool {
	return m.valid.MatchString(s)
}

// FindIn returns the first contains-form match in s, trimmed of
// whitespace, or the empty string.
func (m *Matcher) FindIn(s string) string {
	return strings.TrimSpace(m.contains.FindString(s))
}

// Set bundles the three matcher instantiations the inspection pipeline uses.
type Set struct {
	Generic *Matcher
	URL     *Matcher
	Shell   *Matcher
}

// NewSet compiles all three matchers from cfg.
func NewSet(cfg *Config) (*Set, error) {
	generic, err := NewGeneric(cfg.Generic.Signatures)
	if err != nil {
		return nil, err
	}
	url, err := NewURL(cfg.URL.TLDs)
	if err != nil {
		return nil, err
	}
	shell, err := NewShell(cfg.Shell.Commands, cfg.Shell.Directories)
	if err != nil {
		return nil, err
	}
	return &Set{Generic: generic, URL: url, Shell: shell}, nil
}

// NewGeneric builds the generic signature matcher from a list of regex
// fragments.
func NewGeneric(fragments []string) (*Matcher, error) {
	joined := joinReversed(fragments)
	if joined == "" {
		// An empty alternation would match everything; a generic matcher
		// without signatures matches nothing.
		joined = `\x00^`
	}
	return compile(
		`(?i)^(?:^|[\S\s_#]*)(`+joined+`)((?:[\s_]?\S+)*)$`,
		`(?i)(`+joined+`)((?:[\s_]?\S+)*)`,
	)
}

// NewURL builds the URL matcher. It accepts optional scheme and www
// prefixes, dotted hostnames ending in a configured TLD or any two-to-six
// letter run, bare IPv4 addresses, an optional port and path segments.
func NewURL(tlds []string) (*Matcher, error) {
	tldAlt := joinReversed(tlds)
	if tldAlt != "" {
		tldAlt += "|"
	}
	expr := `(?:(?:https?|s?ftp)://)?(?:www\.)?` +
		`(?:(?:[a-z0-9](?:[a-z0-9\-]*[a-z0-9])?\.)+(?:` + tldAlt + `[a-z]{2,6})` +
		`|\d{1,3}(?:\.\d{1,3}){3})` +
		`(?::\d{1,5})?(?:/\S+)*`
	return compile(`(?i)^`+expr+`$`, `(?i)`+expr)
}

// NewShell builds the shell-command matcher: configured command verbs with
// their arguments, or any token touching a sensitive filesystem prefix.
func NewShell(commands, directories []string) (*Matcher, error) {
	cmdAlt := joinReversed(commands)
	if cmdAlt == "" {
		cmdAlt = "su"
	}
	dirAlt := ""
	for _, d := range reversed(directories) {
		dirAlt += "|" + regexp.QuoteMeta(d)
	}
	body := `(?:(?:^|[\s_#])(` + cmdAlt + `)((?:[\s_]\S+)*))` +
		`|(?:\S*(?:/data/|/system/` + dirAlt + `)\S*)`
	return compile(`(?i)^(?:`+body+`)$`, `(?i)(?:`+body+`)`)
}

func compile(valid, contains string) (*Matcher, error) {
	v, err := regexp.Compile(valid)
	if err != nil {
		return nil, fmt.Errorf("invalid anchored pattern: %w", err)
	}
	c, err := regexp.Compile(contains)
	if err != nil {
		return nil, fmt.Errorf("invalid contains pattern: %w", err)
	}
	return &Matcher{valid: v, contains: c}, nil
}

// joinReversed joins fragments with "|" in reverse declaration order so
// that later, more specific fragments win alternation.
func joinReversed(fragments []string) string {
	return strings.Join(reversed(fragments), "|")
}

func reversed(in []string) []string {
	out := make([]string, 0, len(in))
	for i := len(in) - 1; i >= 0; i-- {
		if in[i] != "" {
			out = append(out, in[i])
		}
	}
	return out
}
