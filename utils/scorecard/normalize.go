package scorecard

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText folds compatibility characters (full-width digits, ligatures)
// to their plain forms and drops control characters other than newlines
// and tabs.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.ReplaceAll(normed, "\r", "")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
}

// normalizeLines cleans and splits OCR text into non-empty trimmed lines
func normalizeLines(text string) []string {
	rawLines := strings.Split(NormalizeText(text), "\n")

	lines := make([]string, 0, len(rawLines))
	for _, l := range rawLines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// splitFields splits a line into tokens on whitespace and common OCR
// column separators.
func splitFields(line string) []string {
	parts := splitRe.Split(strings.TrimSpace(line), -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseNumber returns the value of a one or two digit token.
func parseNumber(tok string) (int, bool) {
	tok = strings.Trim(tok, ".,;:()[]")
	if !numberRe.MatchString(tok) {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CleanName normalizes a raw name candidate. It is idempotent: cleaning an
// already cleaned name returns it unchanged. Unrecoverable names become
// PlaceholderName.
func CleanName(raw string) string {
	s := strings.ToUpper(stripMarks(NormalizeText(raw)))
	s = digitsRe.ReplaceAllString(s, " ")
	s = nonNameRe.ReplaceAllString(s, " ")
	s = anchorWordsRe.ReplaceAllString(s, " ")
	s = spacesRe.ReplaceAllString(s, " ")
	s = strings.Trim(s, " .'")

	if s == "" || s == "NAME" {
		return PlaceholderName
	}
	return s
}

// stripMarks removes combining accents so that "José" survives the ASCII
// name filter as "Jose".
func stripMarks(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, norm.NFD.String(s))
}

func isNameLine(line string) bool {
	return nameLineRe.MatchString(line) && alphaRunRe.MatchString(line)
}

func isNameToken(tok string) bool {
	return nameTokenRe.MatchString(tok) && !labelTokenRe.MatchString(tok) && strings.ContainsFunc(tok, unicode.IsLetter)
}
