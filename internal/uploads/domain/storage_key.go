package domain

import (
	"errors"
	"path"
	"strings"
	"unicode"

	"github.com/rs/xid"
	"golang.org/x/text/unicode/norm"
)

const maxFileNameLength = 128

// MaxGroupIDLength bounds the group segment of a storage key.
const MaxGroupIDLength = 128

var ErrGroupIDTooLong = errors.New("group id is too long")

// NewStorageKey derives a unique key for a file in a group:
// "<group>/<xid>-<sanitized name>". Keys sort by creation time within a group.
func NewStorageKey(groupID, fileName string) (string, error) {
	group := sanitize(groupID)
	if group == "" {
		return "", ErrEmptyGroupID
	}
	if len(group) > MaxGroupIDLength {
		return "", ErrGroupIDTooLong
	}
	name := SanitizeFileName(fileName)
	if name == "" {
		return "", ErrEmptyFileName
	}
	return group + "/" + xid.New().String() + "-" + name, nil
}

// SanitizeFileName returns the NFC-normalized base name with every character
// outside letters, digits, '.', '-' and '_' replaced by '_'.
func SanitizeFileName(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	name := strings.TrimLeft(sanitize(base), ".")
	if len(name) > maxFileNameLength {
		name = name[len(name)-maxFileNameLength:]
	}
	return name
}

func sanitize(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
