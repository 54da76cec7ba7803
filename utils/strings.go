package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// TruncateRunes caps s at limit characters without splitting a multi-byte rune
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// NormalizeNote trims a free-text note and caps it at NoteMaxLength.
// An empty result is returned as nil so it is stored as NULL.
func NormalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	limited := TruncateRunes(strings.TrimSpace(*note), NoteMaxLength)
	if limited == "" {
		return nil
	}
	return &limited
}

// RemoveWhitespace drops every whitespace character from s
func RemoveWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// UniqueIDs trims ids, drops empty values and the excluded id, and removes
// duplicates while keeping first-seen order.
func UniqueIDs(ids []string, exclude string) []string {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || id == exclude || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique
}

// FirstNonEmpty returns the first value that is not blank after trimming
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// CleanFileName removes invalid characters from filename
func CleanFileName(filename string) string {
	// Replace invalid characters with underscore
	reg := regexp.MustCompile(`[<>:"/\\|?*]`)
	cleaned := reg.ReplaceAllString(filename, "_")

	// Remove extra spaces and trim
	cleaned = strings.TrimSpace(cleaned)
	cleaned = whitespaceRegex.ReplaceAllString(cleaned, "_")

	return cleaned
}

// ContentDisposition builds an attachment header with an ASCII filename and
// an RFC 5987 filename* carrying the original UTF-8 name.
func ContentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", asciiFileName(filename), encodeRFC5987(filename))
}

func asciiFileName(filename string) string {
	stripped := strings.NewReplacer("đ", "d", "Đ", "D").Replace(stripDiacritics(filename))
	var b strings.Builder
	for _, r := range stripped {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// encodeRFC5987 percent-encodes every byte outside the attr-char set
func encodeRFC5987(s string) string {
	const attrChars = "!#$&+-.^_`|~"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') || strings.IndexByte(attrChars, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}
