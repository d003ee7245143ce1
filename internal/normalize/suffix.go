package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// companyTypeTokens is scanned in order; the first token that yields a
// strippable suffix decides the result.
var companyTypeTokens = []string{
	"株式会社", "合名会社", "合資会社", "合同会社", "有限会社",
	"K.K.", "Y.K.", "G.K.",
	"Co., Ltd.", "Ltd.", "Inc.", "Corp.", "LLC", "PLC",
	"Corporation", "Incorporated", "Company", "Limited",
	"GmbH", "AG", "S.A.S", "SAS", "S.R.L", "Pty", "NV", "BV", "AB", "OY", "AS", "SpA",
}

// japaneseLegalForms may lead the name ("株式会社テスト"); the Latin forms never do.
var japaneseLegalForms = companyTypeTokens[:5]

const maxQualifierRunes = 20

// Patterns treat U+3000 as whitespace alongside the ASCII set.
var (
	hyphenAnnotationPattern   = regexp.MustCompile(`^[\s\x{3000}]*-[a-zA-Z0-9_-]+[\s\x{3000}]*\([\s\S]*?\)[\s\x{3000}]*$`)
	parenAnnotationPattern    = regexp.MustCompile(`^[\s\x{3000}]*\(([\s\S]*?)\)[\s\x{3000}]*$`)
	numberedAnnotationPattern = regexp.MustCompile(`^(.+?)[\s\x{3000}]*-\d+[\s\x{3000}]*\([^()]*\)[\s\x{3000}]*$`)
	qualifierPattern          = regexp.MustCompile(`(?i)\b(japan|usa|uk|europe|asia|tokyo|osaka|branch|office|holding)\b`)
)

// Clean trims s and removes a trailing administrative annotation that follows
// a recognised company-type token, e.g. "新明工業株式会社-2(移管)" becomes
// "新明工業株式会社". Short geographic qualifiers such as "(Japan)" are kept.
// A name that starts with a Japanese legal form loses a single trailing
// numbered annotation: "株式会社テスト-1(旧)" becomes "株式会社テスト".
//
// Stripping repeats until the name stops changing, so Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	text := strings.TrimSpace(s)
	for {
		next := stripOnce(text)
		if next == text {
			return text
		}
		text = next
	}
}

func stripOnce(text string) string {
	if text == "" {
		return ""
	}

	for _, token := range companyTypeTokens {
		idx := strings.LastIndex(text, token)
		if idx < 0 {
			continue
		}
		end := idx + len(token)
		prefix, rest := text[:end], text[end:]
		suffix := strings.TrimSpace(rest)
		if suffix == "" {
			continue
		}
		if isAnnotation(suffix) {
			return strings.TrimSpace(prefix)
		}
	}

	if stripped, ok := stripLeadingFormAnnotation(text); ok {
		return stripped
	}
	return text
}

// stripLeadingFormAnnotation handles "株式会社<body>-<digits>(<note>)", where
// the annotation follows the body instead of the legal form.
func stripLeadingFormAnnotation(text string) (string, bool) {
	for _, form := range japaneseLegalForms {
		rest, ok := strings.CutPrefix(text, form)
		if !ok {
			continue
		}
		m := numberedAnnotationPattern.FindStringSubmatch(rest)
		if m == nil {
			return "", false
		}
		body := strings.TrimSpace(m[1])
		if body == "" {
			return "", false
		}
		return form + body, true
	}
	return "", false
}

func isAnnotation(suffix string) bool {
	if hyphenAnnotationPattern.MatchString(suffix) {
		return true
	}
	m := parenAnnotationPattern.FindStringSubmatch(suffix)
	if m == nil {
		return false
	}
	inner := strings.TrimSpace(m[1])
	return !qualifierPattern.MatchString(inner) || utf8.RuneCountInString(inner) > maxQualifierRunes
}
