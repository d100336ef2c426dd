// Package sanitizer rewrites message text so that every record stays on a single
// log line.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"unicode/utf8"
)

// PolicyPreset defines pre-configured sanitization policies
type PolicyPreset string

const (
	PolicyRaw PolicyPreset = "raw" // Passthrough
	PolicyTxt PolicyPreset = "txt" // Hex-encodes anything that could break or corrupt a log line
)

// Sanitizer applies one policy. It keeps no per-call state and is safe for concurrent use.
type Sanitizer struct {
	encode bool
}

// New creates a passthrough Sanitizer
func New() *Sanitizer {
	return &Sanitizer{}
}

// Policy selects a pre-configured policy; unknown presets leave the sanitizer unchanged
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	switch preset {
	case PolicyRaw:
		s.encode = false
	case PolicyTxt:
		s.encode = true
	}
	return s
}

// Sanitize applies the policy to the input string.
// Under txt, non-printable runes and invalid UTF-8 bytes become "<xx..>" of their
// original bytes. Tab is kept.
func (s *Sanitizer) Sanitize(data string) string {
	if !s.encode {
		return data
	}

	// Common case: nothing matches, no allocation
	first := -1
	for i := 0; i < len(data); {
		r, width := utf8.DecodeRuneInString(data[i:])
		if needsEncoding(r, width) {
			first = i
			break
		}
		i += width
	}
	if first < 0 {
		return data
	}

	buf := make([]byte, 0, len(data)+16)
	buf = append(buf, data[:first]...)
	for i := first; i < len(data); {
		r, width := utf8.DecodeRuneInString(data[i:])
		if needsEncoding(r, width) {
			buf = appendHex(buf, data[i:i+width])
		} else {
			buf = append(buf, data[i:i+width]...)
		}
		i += width
	}
	return string(buf)
}

// needsEncoding matches an invalid byte (RuneError of width 1) or a non-printable rune other than tab
func needsEncoding(r rune, width int) bool {
	if r == utf8.RuneError && width == 1 {
		return true
	}
	return r != '\t' && !strconv.IsPrint(r)
}

func appendHex(buf []byte, raw string) []byte {
	buf = append(buf, '<')
	buf = hex.AppendEncode(buf, []byte(raw))
	return append(buf, '>')
}
