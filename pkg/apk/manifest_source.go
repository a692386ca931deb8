package apk

import (
	"fmt"
	"sort"
	"strconv"

	abapk "github.com/shogo82148/androidbinary/apk"

	"github.com/apkscope/apkscope-cli/internal/errors"
	"github.com/apkscope/apkscope-cli/pkg/manifest"
	"github.com/apkscope/apkscope-cli/pkg/models"
)

// ManifestSource decodes AndroidManifest.xml one way. Sources are tried in
// order until one succeeds.
type ManifestSource interface {
	Name() string
	Available() bool
	Extract(raw []byte, apkPath string, opts manifest.Options) (*models.Manifest, error)
}

// ManifestChain tries each registered source in turn, logging failures,
// and gives up with a decode error only when all of them fail.
type ManifestChain struct {
	sources []ManifestSource
	logger  Logger
}

// NewManifestChain builds the default chain: the native binary-XML
// decoder first, the androidbinary library second, and the asset-packaging
// tool last.
func NewManifestChain(aapt AAPT, logger Logger) *ManifestChain {
	if logger == nil {
		logger = &SimpleLogger{}
	}
	return &ManifestChain{
		sources: []ManifestSource{
			&axmlSource{},
			&androidBinarySource{},
			&aaptSource{aapt: aapt},
		},
		logger: logger,
	}
}

// Sources lists the registered sources in the order they are tried.
func (c *ManifestChain) Sources() []ManifestSource {
	return c.sources
}

// Extract decodes the manifest entry bytes, falling back from source to
// source. The File record on the result always describes the raw entry
// bytes, whichever source produced the fields.
func (c *ManifestChain) Extract(raw []byte, apkPath string, file models.File, opts manifest.Options) (*models.Manifest, error) {
	var lastErr error
	for _, src := range c.sources {
		if !src.Available() {
			c.logger.Debug("manifest source %s unavailable, skipping", src.Name())
			continue
		}
		man, err := src.Extract(raw, apkPath, opts)
		if err != nil {
			c.logger.Warn("manifest source %s failed: %v", src.Name(), err)
			lastErr = err
			continue
		}
		c.logger.Debug("manifest decoded via %s", src.Name())
		man.File = file
		return man, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no manifest source available")
	}
	return nil, errors.NewManifestDecode(lastErr)
}

// axmlSource decodes the binary XML natively.
type axmlSource struct{}

func (s *axmlSource) Name() string    { return "axml" }
func (s *axmlSource) Available() bool { return true }

func (s *axmlSource) Extract(raw []byte, _ string, opts manifest.Options) (*models.Manifest, error) {
	return manifest.FromAXML(raw, models.File{}, opts)
}

// androidBinarySource reads the manifest through the androidbinary
// library. It recovers the package identity, version, SDK range and
// permission list; component details stay with the richer sources.
type androidBinarySource struct{}

func (s *androidBinarySource) Name() string    { return "androidbinary" }
func (s *androidBinarySource) Available() bool { return true }

func (s *androidBinarySource) Extract(_ []byte, apkPath string, opts manifest.Options) (*models.Manifest, error) {
	pkg, err := abapk.OpenFile(apkPath)
	if err != nil {
		return nil, err
	}
	defer pkg.Close()

	src := pkg.Manifest()
	man := &models.Manifest{}

	man.Package, err = src.Package.String()
	if err != nil || man.Package == "" {
		return nil, errors.New(errors.KindManifestDecode, "package attribute missing")
	}
	if code, err := src.VersionCode.Int32(); err == nil {
		c := int64(code)
		man.Version.Code = &c
	}
	if name, err := src.VersionName.String(); err == nil {
		man.Version.Name = name
	}

	if !opts.Extended {
		return man, nil
	}

	sdk := &models.SDK{Min: "1"}
	if min, err := src.SDK.Min.Int32(); err == nil {
		sdk.Min = strconv.Itoa(int(min))
	}
	sdk.Target = sdk.Min
	if target, err := src.SDK.Target.Int32(); err == nil {
		sdk.Target = strconv.Itoa(int(target))
	}
	if max, err := src.SDK.Max.Int32(); err == nil {
		sdk.Max = strconv.Itoa(int(max))
	}
	man.SDK = sdk

	for _, perm := range src.UsesPermissions {
		if name, err := perm.Name.String(); err == nil && name != "" {
			man.Permissions = append(man.Permissions, name)
		}
	}
	sort.Strings(man.Permissions)

	return man, nil
}

// aaptSource recovers the manifest from the asset-packaging tool's
// badging and xmltree dumps.
type aaptSource struct {
	aapt AAPT
}

func (s *aaptSource) Name() string { return "aapt" }

func (s *aaptSource) Available() bool {
	if s.aapt == nil {
		return false
	}
	// Exec-backed adapters know whether their binary resolves.
	if probe, ok := s.aapt.(interface{ Available() bool }); ok {
		return probe.Available()
	}
	return true
}

func (s *aaptSource) Extract(_ []byte, apkPath string, opts manifest.Options) (*models.Manifest, error) {
	badging, err := s.aapt.DumpBadging(apkPath)
	if err != nil {
		return nil, err
	}

	man := ParseBadging(badging)
	if man.Package == "" {
		return nil, errors.New(errors.KindManifestDecode, "badging dump has no package name")
	}

	if !opts.Extended {
		man.SDK = nil
		man.Permissions = nil
		return &man, nil
	}

	if dump, err := s.aapt.DumpPermissions(apkPath); err == nil && dump != "" {
		if perms := ParsePermissions(dump); len(perms) > 0 {
			man.Permissions = perms
		}
	}
	if tree, err := s.aapt.DumpXMLTree(apkPath, "AndroidManifest.xml"); err == nil && tree != "" {
		man.Activities, man.Services, man.Receivers = ParseXMLTreeComponents(tree)
	}

	return &man, nil
}
