// Package apk drives the static inspection pipeline: it walks an APK
// archive, routes each entry to the matching extractor and assembles the
// final report value.
package apk

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	kflate "github.com/klauspost/compress/flate"

	"github.com/apkscope/apkscope-cli/internal/errors"
	"github.com/apkscope/apkscope-cli/pkg/cert"
	"github.com/apkscope/apkscope-cli/pkg/dex"
	"github.com/apkscope/apkscope-cli/pkg/manifest"
	"github.com/apkscope/apkscope-cli/pkg/matcher"
	"github.com/apkscope/apkscope-cli/pkg/models"
)

// Scratch directories carry this prefix so leaked ones are identifiable.
const scratchPrefix = "apkscope-"

var dexEntryRe = regexp.MustCompile(`^classes[0-9]*\.dex$`)

// Options controls how much of the manifest is extracted.
type Options struct {
	Extended bool
}

// Inspector walks APK archives and produces complete report values. The
// matcher set is read-only and may be shared; everything else is per-run.
type Inspector struct {
	matchers *matcher.Set
	chain    *ManifestChain
	aapt     AAPT
	keytool  CertPrinter
	logger   Logger
	opts     Options
}

// NewInspector wires an inspector. A nil aapt or keytool falls back to
// the PATH-resolved executables; a nil logger stays quiet.
func NewInspector(matchers *matcher.Set, aapt AAPT, keytool CertPrinter, logger Logger, opts Options) *Inspector {
	if aapt == nil {
		aapt = NewExecAAPT("")
	}
	if keytool == nil {
		keytool = NewExecKeytool("")
	}
	if logger == nil {
		logger = &SimpleLogger{}
	}
	return &Inspector{
		matchers: matchers,
		chain:    NewManifestChain(aapt, logger),
		aapt:     aapt,
		keytool:  keytool,
		logger:   logger,
		opts:     opts,
	}
}

// Open inspects the APK at path and returns the assembled report value.
// A file that is not a readable ZIP fails with a NOT_AN_APK error; an
// archive missing any of the required entries, or whose entries fail
// their extractors, fails with MALFORMED_APK. No partial value is ever
// returned.
func (in *Inspector) Open(apkPath string) (*models.Apk, error) {
	data, err := os.ReadFile(apkPath)
	if err != nil {
		return nil, errors.NewIoError(err, apkPath)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.NewNotAnApk(apkPath, err)
	}
	zr.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return kflate.NewReader(r)
	})

	scratch, err := os.MkdirTemp("", scratchPrefix)
	if err != nil {
		return nil, errors.NewIoError(err, "scratch directory")
	}
	defer os.RemoveAll(scratch)

	apk := &models.Apk{
		File:  models.NewFile(data, filepath.Base(apkPath)),
		Dex:   []models.Dex{},
		Other: []models.File{},
	}

	var manifestRaw []byte
	var certRaw []byte
	var certName string
	type dexEntry struct {
		name string
		data []byte
	}
	var dexEntries []dexEntry

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch {
		case f.Name == "AndroidManifest.xml":
			manifestRaw, err = readZipEntry(f)
			if err != nil {
				return nil, errors.NewMalformedApk(err, "unreadable manifest entry")
			}
		case isCertEntry(f.Name):
			if certRaw != nil {
				// First signature block wins.
				continue
			}
			certRaw, err = readZipEntry(f)
			if err != nil {
				return nil, errors.NewMalformedApk(err, "unreadable certificate entry")
			}
			certName = f.Name
		case dexEntryRe.MatchString(f.Name):
			entryData, err := readZipEntry(f)
			if err != nil {
				return nil, errors.NewMalformedApk(err, "unreadable dex entry")
			}
			dexEntries = append(dexEntries, dexEntry{name: f.Name, data: entryData})
		default:
			entryData, err := readZipEntry(f)
			if err != nil {
				return nil, errors.NewMalformedApk(err, fmt.Sprintf("unreadable entry %s", f.Name))
			}
			apk.Other = append(apk.Other, models.NewFile(entryData, f.Name))
		}
	}

	switch {
	case manifestRaw == nil:
		return nil, errors.NewMalformedApk(nil, "no AndroidManifest.xml entry")
	case certRaw == nil:
		return nil, errors.NewMalformedApk(nil, "no certificate entry under META-INF")
	case len(dexEntries) == 0:
		return nil, errors.NewMalformedApk(nil, "no classes.dex entry")
	case len(apk.Other) == 0:
		return nil, errors.NewMalformedApk(nil, "archive has no entries beyond the required ones")
	}

	man, err := in.chain.Extract(manifestRaw, apkPath, models.NewFile(manifestRaw, "AndroidManifest.xml"), manifest.Options{Extended: in.opts.Extended})
	if err != nil {
		return nil, errors.NewMalformedApk(err, "manifest extraction failed")
	}
	apk.Manifest = *man

	certificate, err := in.extractCertificate(scratch, certRaw, certName)
	if err != nil {
		return nil, errors.NewMalformedApk(err, "certificate extraction failed")
	}
	apk.Certificate = *certificate

	for _, entry := range dexEntries {
		apk.Dex = append(apk.Dex, dex.Summarize(entry.data, models.NewFile(entry.data, entry.name), in.matchers))
	}

	apk.Name = in.appName(apkPath, man.Package)

	return apk, nil
}

// extractCertificate materialises the signature block into the scratch
// directory and parses the certificate-printing utility's dump of it.
func (in *Inspector) extractCertificate(scratch string, raw []byte, name string) (*models.Certificate, error) {
	tmpPath := filepath.Join(scratch, filepath.Base(name))
	if err := os.WriteFile(tmpPath, raw, 0o600); err != nil {
		return nil, errors.NewIoError(err, tmpPath)
	}

	dump, err := in.keytool.PrintCert(tmpPath)
	if err != nil {
		return nil, err
	}

	return cert.Extract(dump, models.NewFile(raw, name))
}

// appName asks the asset-packaging tool for the display label, falling
// back to the package identifier when the tool yields nothing.
func (in *Inspector) appName(apkPath, pkg string) string {
	badging, err := in.aapt.DumpBadging(apkPath)
	if err == nil {
		if name := AppName(badging); name != "" {
			return name
		}
	}
	return pkg
}

// isCertEntry matches the signature blocks APK signers emit. DSA blocks
// only appear under the canonical name; RSA blocks may be renamed.
func isCertEntry(name string) bool {
	if name == "META-INF/CERT.RSA" || name == "META-INF/CERT.DSA" {
		return true
	}
	if !strings.HasPrefix(name, "META-INF/") {
		return false
	}
	ok, err := path.Match("META-INF/*.RSA", name)
	return err == nil && ok
}
