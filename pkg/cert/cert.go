// Package cert extracts typed certificate information from the textual
// output of a certificate-printing utility.
package cert

import (
	"regexp"
	"strings"
	"time"

	"github.com/apkscope/apkscope-cli/internal/errors"
	"github.com/apkscope/apkscope-cli/pkg/models"
)

var (
	serialRe    = regexp.MustCompile(`(?im)^\s*Serial number:\s*(.*)$`)
	validityRe  = regexp.MustCompile(`(?im)^\s*Valid from:\s*(.*?)\s+until:\s*(.*)$`)
	md5Re       = regexp.MustCompile(`(?im)^\s*MD5:\s*(.*)$`)
	sha1Re      = regexp.MustCompile(`(?im)^\s*SHA1:\s*(.*)$`)
	sha256Re    = regexp.MustCompile(`(?im)^\s*SHA256:\s*(.*)$`)
	algorithmRe = regexp.MustCompile(`(?im)^\s*Signature algorithm name:\s*(.*)$`)
	versionRe   = regexp.MustCompile(`(?im)^\s*Version:\s*(.*)$`)
	ownerRe     = regexp.MustCompile(`(?im)^\s*Owner:\s*(.*)$`)
	issuerRe    = regexp.MustCompile(`(?im)^\s*Issuer:\s*(.*)$`)
)

// Extract parses the printcert dump. Missing optional fields become empty
// strings; only an explicit tool error banner fails the extraction.
func Extract(dump string, file models.File) (*models.Certificate, error) {
	if strings.HasPrefix(strings.TrimSpace(dump), "keytool error") {
		return nil, errors.NewCertificateDecode("certificate-printing utility reported: " + firstLine(dump))
	}

	c := &models.Certificate{File: file}
	c.SerialNumber = firstGroup(serialRe, dump)

	if m := validityRe.FindStringSubmatch(dump); m != nil {
		c.Validity.From = normalizeTimestamp(strings.TrimSpace(m[1]))
		c.Validity.Until = normalizeTimestamp(strings.TrimSpace(m[2]))
	}

	c.Fingerprint = models.Fingerprint{
		MD5:       firstGroup(md5Re, dump),
		SHA1:      firstGroup(sha1Re, dump),
		SHA256:    firstGroup(sha256Re, dump),
		Signature: firstGroup(algorithmRe, dump),
		Version:   firstGroup(versionRe, dump),
	}

	c.Owner = parseParticipant(firstGroup(ownerRe, dump))
	c.Issuer = parseParticipant(firstGroup(issuerRe, dump))
	return c, nil
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

// parseParticipant splits a distinguished name on ", " and classifies each
// fragment by its attribute prefix.
func parseParticipant(dn string) models.Participant {
	p := models.Participant{}
	for _, fragment := range strings.Split(dn, ", ") {
		fragment = strings.TrimSpace(fragment)
		switch {
		case strings.HasPrefix(fragment, "CN="):
			p.Name = fragment[3:]
		case strings.HasPrefix(fragment, "EMAILADDRESS="):
			p.Email = fragment[13:]
		case strings.HasPrefix(fragment, "OU="):
			p.Unit = fragment[3:]
		case strings.HasPrefix(fragment, "O="):
			p.Organization = fragment[2:]
		case strings.HasPrefix(fragment, "L="):
			p.City = fragment[2:]
		case strings.HasPrefix(fragment, "ST="):
			p.State = fragment[3:]
		case strings.HasPrefix(fragment, "C="):
			p.Country = fragment[2:]
		case strings.HasPrefix(fragment, "DC="):
			p.Domain = fragment[3:]
		}
	}
	return p
}

// Time zone abbreviations the printing utility is known to emit. Offsets
// in seconds east of UTC. Abbreviations outside this table leave the raw
// string untouched.
var zoneOffsets = map[string]int{
	"UTC": 0, "GMT": 0, "UT": 0, "Z": 0,
	"CET": 1 * 3600, "CEST": 2 * 3600,
	"WET": 0, "WEST": 1 * 3600,
	"EET": 2 * 3600, "EEST": 3 * 3600,
	"BST": 1 * 3600,
	"EST": -5 * 3600, "EDT": -4 * 3600,
	"CST": -6 * 3600, "CDT": -5 * 3600,
	"MST": -7 * 3600, "MDT": -6 * 3600,
	"PST": -8 * 3600, "PDT": -7 * 3600,
	"AKST": -9 * 3600, "AKDT": -8 * 3600,
	"HST": -10 * 3600,
	"JST": 9 * 3600, "KST": 9 * 3600,
	"AEST": 10 * 3600, "AEDT": 11 * 3600,
}

// normalizeTimestamp converts "Sat Jun 27 12:06:13 CEST 2015" to
// "2015-06-27 10:06:13Z". Unparseable input is preserved verbatim rather
// than dropped.
func normalizeTimestamp(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) != 6 {
		return raw
	}
	offset, ok := zoneOffsets[fields[4]]
	if !ok {
		return raw
	}
	wall := strings.Join([]string{fields[0], fields[1], fields[2], fields[3], fields[5]}, " ")
	t, err := time.Parse("Mon Jan 2 15:04:05 2006", wall)
	if err != nil {
		return raw
	}
	utc := t.Add(-time.Duration(offset) * time.Second)
	return utc.Format("2006-01-02 15:04:05") + "Z"
}
