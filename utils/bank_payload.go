package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// The receiving bank network only accepts unaccented Latin letters, digits and spaces.
var specialCharRegex = regexp.MustCompile(`[^0-9A-Za-z\s]`)

// stripDiacritics decomposes s and drops combining marks ("ễ" -> "e").
// Characters without a decomposition (such as "đ") are left untouched.
func stripDiacritics(s string) string {
	// transform.Chain is stateful, so a fresh chain is built per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func sanitizeBankText(raw string) string {
	return specialCharRegex.ReplaceAllString(stripDiacritics(raw), "")
}

// NormalizeAccountName converts an account holder name into the uppercase,
// accent-free form expected by the bank transfer network.
func NormalizeAccountName(raw string) string {
	return strings.TrimSpace(strings.ToUpper(sanitizeBankText(raw)))
}

// NormalizeMemo sanitizes a transfer memo and caps it at MemoMaxLength characters
func NormalizeMemo(raw string) string {
	sanitized := strings.TrimSpace(sanitizeBankText(raw))
	// sanitized text is pure ASCII, so byte length equals character count
	if len(sanitized) > MemoMaxLength {
		return sanitized[:MemoMaxLength]
	}
	return sanitized
}
