package apk

import "os/exec"

// CertPrinter abstracts the certificate-printing utility so certificate
// extraction can be tested against canned dumps.
type CertPrinter interface {
	PrintCert(path string) (string, error)
}

// ExecKeytool invokes the keytool binary found on PATH (or a configured
// path).
type ExecKeytool struct {
	Path string
}

// NewExecKeytool creates an adapter for the given binary path. An empty
// path falls back to "keytool" on PATH.
func NewExecKeytool(path string) *ExecKeytool {
	if path == "" {
		path = "keytool"
	}
	return &ExecKeytool{Path: path}
}

// Available reports whether the binary can be invoked.
func (k *ExecKeytool) Available() bool {
	cmd := exec.Command(k.Path, "-help")
	return cmd.Run() == nil
}

// PrintCert dumps the PKCS#7 signature block at path as text. Stderr is
// discarded; keytool reports its own failures on stdout with a
// "keytool error" banner, which the certificate extractor detects.
func (k *ExecKeytool) PrintCert(path string) (string, error) {
	cmd := exec.Command(k.Path, "-printcert", "-file", path)
	out, err := cmd.Output()
	if err != nil && len(out) == 0 {
		return "", nil
	}
	return string(out), nil
}
