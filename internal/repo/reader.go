package repo

import (
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadFile reads a source file and always returns usable text: UTF-8 if
// the bytes are valid, otherwise an ISO-8859-1 decode, otherwise a lossy
// decode with replacement runes. Indexing never aborts on encoding.
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return decodeSource(raw), nil
}

// decodeSource applies the encoding fallback ladder to raw file bytes.
func decodeSource(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw); err == nil {
		return string(decoded)
	}

	// Last resort: replace undecodable bytes.
	return string([]rune(string(raw)))
}
