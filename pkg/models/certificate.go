package models

// Certificate describes the signing certificate of an APK, as reported by
// the certificate-printing utility.
type Certificate struct {
	File
	SerialNumber string      `json:"serial_number"`
	Validity     Validity    `json:"validity"`
	Fingerprint  Fingerprint `json:"fingerprint"`
	Owner        Participant `json:"owner"`
	Issuer       Participant `json:"issuer"`
}

// Validity holds the certificate validity bounds. Each side is either a
// normalised UTC timestamp (YYYY-MM-DD HH:MM:SSZ) or, when the raw text
// cannot be parsed, the raw locale-dependent string.
type Validity struct {
	From  string `json:"from"`
	Until string `json:"until"`
}

// Fingerprint holds the certificate digests and signature metadata.
type Fingerprint struct {
	MD5       string `json:"md5"`
	SHA1      string `json:"sha1"`
	SHA256    string `json:"sha256"`
	Signature string `json:"signature"`
	Version   string `json:"version"`
}

// Participant is a certificate owner or issuer, a bag of distinguished-name
// attributes. Missing fields are empty strings.
type Participant struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Unit         string `json:"unit"`
	Organization string `json:"organization"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	Domain       string `json:"domain"`
}
