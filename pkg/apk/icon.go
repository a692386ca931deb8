package apk

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/webp"
)

// Icons are normalised to a fixed square size before export.
const IconSize = 144

// IconExtractor pulls the launcher icon out of an APK and re-encodes it
// as a PNG of a fixed size.
type IconExtractor struct {
	targetSize uint
}

func NewIconExtractor() *IconExtractor {
	return &IconExtractor{targetSize: IconSize}
}

// Launcher icons in descending density order. WebP variants rank below
// all PNG variants because some decoders handle them poorly.
var iconPriorities = []string{
	"res/mipmap-xxxhdpi/ic_launcher.png",
	"res/mipmap-xxhdpi/ic_launcher.png",
	"res/mipmap-xhdpi/ic_launcher.png",
	"res/mipmap-hdpi/ic_launcher.png",
	"res/drawable-xxxhdpi/ic_launcher.png",
	"res/drawable-xxhdpi/ic_launcher.png",
	"res/drawable-xhdpi/ic_launcher.png",
	"res/drawable-hdpi/ic_launcher.png",
	"res/mipmap-xxxhdpi/ic_launcher.webp",
	"res/mipmap-xxhdpi/ic_launcher.webp",
	"res/mipmap-xhdpi/ic_launcher.webp",
	"res/mipmap-hdpi/ic_launcher.webp",
}

// Extract returns the normalised icon bytes and the ".png" extension, or
// an error when the archive carries no launcher icon.
func (e *IconExtractor) Extract(apkPath string) ([]byte, string, error) {
	reader, err := zip.OpenReader(apkPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer reader.Close()

	for _, iconPath := range iconPriorities {
		for _, file := range reader.File {
			if file.Name == iconPath {
				if data, err := readZipEntry(file); err == nil {
					return e.process(data, filepath.Ext(iconPath))
				}
			}
		}
	}

	// No standard location matched; take any launcher icon that is not
	// an adaptive-icon layer.
	for _, file := range reader.File {
		if strings.Contains(file.Name, "ic_launcher") &&
			(strings.HasSuffix(file.Name, ".png") || strings.HasSuffix(file.Name, ".webp")) &&
			!strings.Contains(file.Name, "_foreground") &&
			!strings.Contains(file.Name, "_background") {
			if data, err := readZipEntry(file); err == nil {
				return e.process(data, filepath.Ext(file.Name))
			}
		}
	}

	return nil, "", fmt.Errorf("no launcher icon found")
}

func readZipEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (e *IconExtractor) process(iconData []byte, ext string) ([]byte, string, error) {
	var img image.Image
	var err error

	if ext == ".webp" {
		img, err = webp.Decode(bytes.NewReader(iconData))
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode webp: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(iconData))
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode image: %w", err)
		}
	}

	resized := resize.Resize(e.targetSize, e.targetSize, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, "", fmt.Errorf("failed to encode png: %w", err)
	}

	return buf.Bytes(), ".png", nil
}
