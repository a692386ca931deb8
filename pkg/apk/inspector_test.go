package apk

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"github.com/apkscope/apkscope-cli/internal/errors"
	"github.com/apkscope/apkscope-cli/pkg/matcher"
)

// fakeAAPT serves canned dumps instead of invoking the tool.
type fakeAAPT struct {
	badging     string
	permissions string
	xmltree     string
}

func (f *fakeAAPT) DumpBadging(string) (string, error)       { return f.badging, nil }
func (f *fakeAAPT) DumpPermissions(string) (string, error)   { return f.permissions, nil }
func (f *fakeAAPT) DumpXMLTree(string, string) (string, error) { return f.xmltree, nil }

// fakeKeytool serves a canned printcert dump.
type fakeKeytool struct {
	dump string
}

func (f *fakeKeytool) PrintCert(string) (string, error) { return f.dump, nil }

const testPrintcert = `Owner: CN=Name, OU=Unit, O=Organization, L=City, ST=State, C=XX
Issuer: CN=Name, OU=Unit, O=Organization, L=City, ST=State, C=XX
Serial number: 558e7595
Valid from: Sat Jun 27 12:06:13 CEST 2015 until: Tue Feb 26 11:06:13 CET 2515
Certificate fingerprints:
	 MD5:  90:22:EF:0C:DB:C3:78:87:06:F4:84:71:4A:CC:ED:67
	 SHA1: 5A:C0:6C:32:63:7F:5D:BE:CA:F9:38:38:4C:FA:FF:ED:20:52:43:90
	 SHA256: E5:15:13:6A:DD:55:9E:8B:98:30:DC:9B:BE:9B:DB:9A:8C:E2:C0:8E:09:31:vF:F0:7F:66:18:BD:7E:00:CE:BD
Signature algorithm name: SHA1withRSA
Version: 3
`

const testBadging = `package: name='com.example.app' versionCode='1' versionName='1.0'
sdkVersion:'10'
targetSdkVersion:'20'
application: label='Example App' icon='res/mipmap-hdpi/ic_launcher.png'
launchable-activity: name='com.example.app.HomeActivity'  label='Example' icon=''
uses-permission: name='android.permission.INTERNET'
`

// manifestBuilder assembles a binary XML manifest for archive fixtures.
type manifestBuilder struct {
	strings []string
	body    bytes.Buffer
}

type manifestAttr struct {
	uri  string
	name string
	typ  uint8
	raw  string
	data uint32
}

const testAndroidNS = "http://schemas.android.com/apk/res/android"

func (b *manifestBuilder) intern(s string) uint32 {
	for i, v := range b.strings {
		if v == s {
			return uint32(i)
		}
	}
	b.strings = append(b.strings, s)
	return uint32(len(b.strings) - 1)
}

func (b *manifestBuilder) internOpt(s string) uint32 {
	if s == "" {
		return 0xFFFFFFFF
	}
	return b.intern(s)
}

func (b *manifestBuilder) putU32(v uint32) {
	binary.Write(&b.body, binary.LittleEndian, v)
}

func (b *manifestBuilder) startNamespace(prefix, uri string) {
	p, u := b.intern(prefix), b.intern(uri)
	for _, w := range []uint32{0x00100100, 24, 1, 0xFFFFFFFF, p, u} {
		b.putU32(w)
	}
}

func (b *manifestBuilder) endNamespace(prefix, uri string) {
	p, u := b.intern(prefix), b.intern(uri)
	for _, w := range []uint32{0x00100101, 24, 1, 0xFFFFFFFF, p, u} {
		b.putU32(w)
	}
}

func (b *manifestBuilder) startTag(name string, attrs ...manifestAttr) {
	nameIdx := b.intern(name)
	words := make([][5]uint32, len(attrs))
	for i, a := range attrs {
		words[i] = [5]uint32{
			b.internOpt(a.uri),
			b.intern(a.name),
			b.internOpt(a.raw),
			uint32(a.typ) << 24,
			a.data,
		}
	}
	for _, w := range []uint32{0x00100102, uint32(36 + 20*len(attrs)), 1, 0xFFFFFFFF, 0xFFFFFFFF, nameIdx, 0, uint32(len(attrs)), 0} {
		b.putU32(w)
	}
	for _, ws := range words {
		for _, w := range ws {
			b.putU32(w)
		}
	}
}

func (b *manifestBuilder) endTag(name string) {
	nameIdx := b.intern(name)
	for _, w := range []uint32{0x00100103, 24, 1, 0xFFFFFFFF, 0xFFFFFFFF, nameIdx} {
		b.putU32(w)
	}
}

func (b *manifestBuilder) bytes() []byte {
	var backing bytes.Buffer
	offsets := make([]uint32, len(b.strings))
	for i, s := range b.strings {
		offsets[i] = uint32(backing.Len())
		units := utf16.Encode([]rune(s))
		binary.Write(&backing, binary.LittleEndian, uint16(len(units)))
		for _, u := range units {
			binary.Write(&backing, binary.LittleEndian, u)
		}
		binary.Write(&backing, binary.LittleEndian, uint16(0))
	}

	stringsOffset := uint32(28 + 4*len(b.strings))
	chunkSize := stringsOffset + uint32(backing.Len())

	var out bytes.Buffer
	for _, w := range []uint32{0x00080003, 0, 0x001C0001, chunkSize, uint32(len(b.strings)), 0, 0, stringsOffset, 0} {
		binary.Write(&out, binary.LittleEndian, w)
	}
	for _, off := range offsets {
		binary.Write(&out, binary.LittleEndian, off)
	}
	out.Write(backing.Bytes())
	out.Write(b.body.Bytes())

	raw := out.Bytes()
	binary.LittleEndian.PutUint32(raw[4:], uint32(len(raw)))
	return raw
}

func stringAttr(uri, name, value string) manifestAttr {
	return manifestAttr{uri: uri, name: name, typ: 3, raw: value}
}

func intAttr(uri, name string, value uint32) manifestAttr {
	return manifestAttr{uri: uri, name: name, typ: 16, data: value}
}

func buildManifestAXML() []byte {
	b := &manifestBuilder{}
	b.startNamespace("android", testAndroidNS)
	b.startTag("manifest",
		stringAttr("", "package", "com.example.app"),
		intAttr(testAndroidNS, "versionCode", 1),
		stringAttr(testAndroidNS, "versionName", "1.0"),
	)
	b.startTag("uses-permission", stringAttr(testAndroidNS, "name", "android.permission.INTERNET"))
	b.endTag("uses-permission")
	b.startTag("application")
	b.startTag("activity", stringAttr(testAndroidNS, "name", "com.example.app.HomeActivity"))
	b.startTag("intent-filter")
	b.startTag("action", stringAttr(testAndroidNS, "name", "android.intent.action.MAIN"))
	b.endTag("action")
	b.startTag("category", stringAttr(testAndroidNS, "name", "android.intent.category.LAUNCHER"))
	b.endTag("category")
	b.endTag("intent-filter")
	b.endTag("activity")
	b.endTag("application")
	b.endTag("manifest")
	b.endNamespace("android", testAndroidNS)
	return b.bytes()
}

// buildApk writes a zip with the given entries into a temp dir.
func buildApk(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	path := filepath.Join(t.TempDir(), "fixture.apk")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write apk: %v", err)
	}
	return path
}

func completeEntries() map[string][]byte {
	return map[string][]byte{
		"AndroidManifest.xml":    buildManifestAXML(),
		"META-INF/CERT.RSA":      []byte("not a real pkcs7 block"),
		"classes.dex":            []byte("dex\n035\x00http://example.com/path\x00chmod 777\x00hello world\x00"),
		"res/values/strings.xml": []byte("<resources/>"),
	}
}

func testInspector(t *testing.T, extended bool) *Inspector {
	t.Helper()
	cfg, err := matcher.DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig: %v", err)
	}
	set, err := matcher.NewSet(cfg)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return NewInspector(set,
		&fakeAAPT{badging: testBadging},
		&fakeKeytool{dump: testPrintcert},
		nil,
		Options{Extended: extended})
}

func TestOpenCompleteApk(t *testing.T) {
	path := buildApk(t, completeEntries())
	in := testInspector(t, true)

	apk, err := in.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if apk.Name != "Example App" {
		t.Errorf("name = %q", apk.Name)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if apk.Size != info.Size() {
		t.Errorf("size = %d, want %d", apk.Size, info.Size())
	}
	if len(apk.SHA256) != 64 {
		t.Errorf("sha256 = %q", apk.SHA256)
	}

	if apk.Manifest.Package != "com.example.app" {
		t.Errorf("package = %q", apk.Manifest.Package)
	}
	if apk.Manifest.Version.Code == nil || *apk.Manifest.Version.Code != 1 {
		t.Errorf("version.code = %v", apk.Manifest.Version.Code)
	}
	if apk.Manifest.Version.Name != "1.0" {
		t.Errorf("version.name = %q", apk.Manifest.Version.Name)
	}
	if len(apk.Manifest.Permissions) != 1 || apk.Manifest.Permissions[0] != "android.permission.INTERNET" {
		t.Errorf("permissions = %v", apk.Manifest.Permissions)
	}
	if len(apk.Manifest.Activities) != 1 || apk.Manifest.Activities[0].Name != "com.example.app.HomeActivity" {
		t.Errorf("activities = %v", apk.Manifest.Activities)
	}

	if apk.Certificate.SerialNumber != "558e7595" {
		t.Errorf("serial_number = %q", apk.Certificate.SerialNumber)
	}
	if apk.Certificate.Validity.From != "2015-06-27 10:06:13Z" {
		t.Errorf("validity.from = %q", apk.Certificate.Validity.From)
	}

	if len(apk.Dex) != 1 {
		t.Fatalf("dex count = %d", len(apk.Dex))
	}
	if len(apk.Dex[0].URLs) != 1 || apk.Dex[0].URLs[0] != "http://example.com/path" {
		t.Errorf("urls = %v", apk.Dex[0].URLs)
	}
	if len(apk.Dex[0].ShellCommands) != 1 || apk.Dex[0].ShellCommands[0] != "chmod 777" {
		t.Errorf("shell_commands = %v", apk.Dex[0].ShellCommands)
	}

	if len(apk.Other) != 1 || apk.Other[0].Name != "res/values/strings.xml" {
		t.Errorf("other = %v", apk.Other)
	}
}

func TestOpenDeterministic(t *testing.T) {
	path := buildApk(t, completeEntries())
	in := testInspector(t, true)

	first, err := in.Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	second, err := in.Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if first.SHA256 != second.SHA256 || first.Manifest.Package != second.Manifest.Package {
		t.Errorf("runs disagree: %v vs %v", first, second)
	}
}

func TestOpenMultidex(t *testing.T) {
	entries := completeEntries()
	entries["classes2.dex"] = []byte("more\x00printable strings here\x00")
	path := buildApk(t, entries)

	apk, err := testInspector(t, false).Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(apk.Dex) != 2 {
		t.Errorf("dex count = %d, want 2", len(apk.Dex))
	}
}

func TestOpenNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-apk.txt")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := testInspector(t, false).Open(path)
	if errors.KindOf(err) != errors.KindNotAnApk {
		t.Errorf("kind = %v, want NOT_AN_APK", errors.KindOf(err))
	}
}

func TestOpenMissingEntries(t *testing.T) {
	for _, missing := range []string{"AndroidManifest.xml", "META-INF/CERT.RSA", "classes.dex", "res/values/strings.xml"} {
		entries := completeEntries()
		delete(entries, missing)
		path := buildApk(t, entries)

		_, err := testInspector(t, false).Open(path)
		if errors.KindOf(err) != errors.KindMalformedApk {
			t.Errorf("missing %s: kind = %v, want MALFORMED_APK", missing, errors.KindOf(err))
		}
	}
}

func TestOpenKeytoolError(t *testing.T) {
	path := buildApk(t, completeEntries())
	cfg, _ := matcher.DefaultConfig()
	set, _ := matcher.NewSet(cfg)
	in := NewInspector(set,
		&fakeAAPT{badging: testBadging},
		&fakeKeytool{dump: "keytool error: java.lang.Exception: Input not an X.509 certificate"},
		nil,
		Options{})

	_, err := in.Open(path)
	if errors.KindOf(err) != errors.KindMalformedApk {
		t.Errorf("kind = %v, want MALFORMED_APK", errors.KindOf(err))
	}
}

func TestIsCertEntry(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"META-INF/CERT.RSA", true},
		{"META-INF/CERT.DSA", true},
		{"META-INF/GOOGPLAY.RSA", true},
		{"META-INF/CERT.SF", false},
		{"META-INF/MANIFEST.MF", false},
		{"classes.dex", false},
		{"res/CERT.RSA", false},
	}
	for _, c := range cases {
		if got := isCertEntry(c.name); got != c.want {
			t.Errorf("isCertEntry(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}
