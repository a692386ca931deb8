package cert

import (
	"testing"

	"github.com/apkscope/apkscope-cli/internal/errors"
	"github.com/apkscope/apkscope-cli/pkg/models"
)

const printcertDump = `Owner: CN=Name, OU=Unit, O=Organization, L=City, ST=State, C=XX
Issuer: CN=Issuer Name, O=Issuer Org, C=YY, DC=example
Serial number: 558e7595
Valid from: Sat Jun 27 12:06:13 CEST 2015 until: Tue Feb 26 11:06:13 CET 2515
Certificate fingerprints:
	 MD5:  90:22:EF:0C:DB:C3:78:87:7B:C3:A3:6C:5A:68:E6:45
	 SHA1: 5A:C0:6C:32:63:7F:5D:BE:CA:F9:38:38:4C:FA:FF:ED:20:52:43:B6
	 SHA256: 65:6F:23:E1:44:A1:0C:A4:2C:B0:52:6D:ED:26:CF:A9:2C:34:A5:73:A6:9C:FE:EB:A6:2C:D4:B9:4A:77:2A:C5
Signature algorithm name: SHA1withRSA
Subject Public Key Algorithm: 2048-bit RSA key
Version: 3`

func TestExtractCertificate(t *testing.T) {
	c, err := Extract(printcertDump, models.File{Name: "META-INF/CERT.RSA"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if c.SerialNumber != "558e7595" {
		t.Errorf("serial = %q", c.SerialNumber)
	}
	if c.Validity.From != "2015-06-27 10:06:13Z" {
		t.Errorf("validity.from = %q", c.Validity.From)
	}
	if c.Validity.Until != "2515-02-26 10:06:13Z" {
		t.Errorf("validity.until = %q", c.Validity.Until)
	}
	if c.Fingerprint.MD5 != "90:22:EF:0C:DB:C3:78:87:7B:C3:A3:6C:5A:68:E6:45" {
		t.Errorf("fingerprint.md5 = %q", c.Fingerprint.MD5)
	}
	if c.Fingerprint.Signature != "SHA1withRSA" {
		t.Errorf("fingerprint.signature = %q", c.Fingerprint.Signature)
	}
	if c.Fingerprint.Version != "3" {
		t.Errorf("fingerprint.version = %q", c.Fingerprint.Version)
	}

	owner := models.Participant{
		Name:         "Name",
		Unit:         "Unit",
		Organization: "Organization",
		City:         "City",
		State:        "State",
		Country:      "XX",
	}
	if c.Owner != owner {
		t.Errorf("owner = %+v", c.Owner)
	}
	if c.Issuer.Name != "Issuer Name" || c.Issuer.Organization != "Issuer Org" ||
		c.Issuer.Country != "YY" || c.Issuer.Domain != "example" {
		t.Errorf("issuer = %+v", c.Issuer)
	}
}

func TestExtractKeytoolError(t *testing.T) {
	_, err := Extract("keytool error: java.lang.Exception: Input not an X.509 certificate", models.File{})
	if err == nil {
		t.Fatal("expected error for keytool error banner")
	}
	if errors.KindOf(err) != errors.KindCertificateDecode {
		t.Errorf("kind = %v", errors.KindOf(err))
	}
}

func TestExtractMissingFields(t *testing.T) {
	c, err := Extract("Serial number: 1234\n", models.File{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if c.SerialNumber != "1234" {
		t.Errorf("serial = %q", c.SerialNumber)
	}
	if c.Validity.From != "" || c.Fingerprint.SHA256 != "" || c.Owner.Name != "" {
		t.Error("missing fields must stay empty")
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Sat Jun 27 12:06:13 CEST 2015", "2015-06-27 10:06:13Z"},
		{"Mon Jan 5 00:30:00 PST 2004", "2004-01-05 08:30:00Z"},
		{"Wed Dec 31 23:59:59 GMT 1969", "1969-12-31 23:59:59Z"},
		{"27 Jun 2015", "27 Jun 2015"},                                   // wrong shape, kept raw
		{"Sat Jun 27 12:06:13 XXX 2015", "Sat Jun 27 12:06:13 XXX 2015"}, // unknown zone, kept raw
	}
	for _, tc := range cases {
		if got := normalizeTimestamp(tc.in); got != tc.want {
			t.Errorf("normalizeTimestamp(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
