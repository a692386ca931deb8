package models

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"io"

	"github.com/apkscope/apkscope-cli/internal/errors"
)

// File identifies a byte source by display name, size and digests.
// Every other record in a report embeds one.
type File struct {
	Name   string `json:"file"`
	Size   int64  `json:"size"`
	MD5    string `json:"md5"`
	SHA1   string `json:"sha1"`
	SHA256 string `json:"sha256"`
	SHA512 string `json:"sha512"`
}

// NewFile builds a File record for data, computing all four digests in a
// single pass. The display name is stored verbatim.
func NewFile(data []byte, name string) File {
	md5Hash := md5.New()
	sha1Hash := sha1.New()
	sha256Hash := sha256.New()
	sha512Hash := sha512.New()

	multi := io.MultiWriter(md5Hash, sha1Hash, sha256Hash, sha512Hash)
	multi.Write(data)

	return File{
		Name:   name,
		Size:   int64(len(data)),
		MD5:    hex.EncodeToString(md5Hash.Sum(nil)),
		SHA1:   hex.EncodeToString(sha1Hash.Sum(nil)),
		SHA256: hex.EncodeToString(sha256Hash.Sum(nil)),
		SHA512: hex.EncodeToString(sha512Hash.Sum(nil)),
	}
}

// NewFileFromReader builds a File record by draining r.
func NewFileFromReader(r io.Reader, name string) (File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return File{}, errors.NewIoError(err, name)
	}
	return NewFile(data, name), nil
}
