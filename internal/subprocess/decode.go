package subprocess

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// ValidateEncoding reports whether name identifies a supported output
// encoding. An empty name is valid and means UTF-8.
func ValidateEncoding(name string) error {
	_, err := resolveEncoding(name)
	return err
}

func resolveEncoding(name string) (encoding.Encoding, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(trimmed)
	if err != nil {
		return nil, fmt.Errorf("unknown output encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("output encoding %q has no decoder", name)
	}
	return enc, nil
}

// decodeReader wraps r so that its bytes are decoded from the named encoding
// into UTF-8. Undecodable or ill-formed sequences become U+FFFD; a malformed
// byte never aborts the stream.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := resolveEncoding(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, transform.Chain(enc.NewDecoder(), runes.ReplaceIllFormed())), nil
}
