package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule is one rejection check. Reject returns true when the text is not a
// plausible company name.
type Rule struct {
	Name   string
	Reject func(text string) bool
}

// Rule names reported by Classify.
const (
	RuleStrippedEmpty = "stripped-empty"
	RuleTooShort      = "too-short"
	RuleURL           = "url"
	RuleBareDomain    = "bare-domain"
	RuleNumeric       = "numeric"
	RuleLocalNumber   = "local-number"
	RulePhone         = "phone"
	RuleEmail         = "email"
)

var (
	urlPattern         = regexp.MustCompile(`(?i)^https?://`)
	domainPattern      = regexp.MustCompile(`(?i)^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)
	wwwDomainPattern   = regexp.MustCompile(`(?i)^www\.(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)
	digitsPattern      = regexp.MustCompile(`^\d+$`)
	localNumberPattern = regexp.MustCompile(`^\d{2,4}-\d{4}$`)
	phonePattern       = regexp.MustCompile(`^(\+?\d{1,3}[-.\s]?)?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{3,4}([-.\s]?\d{1,4})?$`)
	emailPattern       = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)

	// Latin legal-form markers are case-sensitive so that the "co" label of
	// a domain such as example.co.jp is not mistaken for "Co.".
	companyMarkerPattern = regexp.MustCompile(`\b(K\.K\.|Y\.K\.|G\.K\.|Co\.?|Ltd\.?|Inc\.?|Corp\.?|LLC|PLC|GmbH|AG|S\.A\.S?|SAS|S\.R\.L|Pty|NV|BV|AB|OY|AS|SpA)\b`)
	cjkCompanyMarkers    = []string{"株式会社", "有限会社", "合同会社", "股份", "公司", "集团", "ホールディングス", "グループ"}
)

const minPhoneDigits = 7

// Rules is the ordered rejection pipeline. Cheap structural checks run
// first; shape checks with exception clauses run last.
var Rules = []Rule{
	{Name: RuleStrippedEmpty, Reject: rejectStrippedEmpty},
	{Name: RuleTooShort, Reject: rejectTooShort},
	{Name: RuleURL, Reject: urlPattern.MatchString},
	{Name: RuleBareDomain, Reject: rejectBareDomain},
	{Name: RuleNumeric, Reject: rejectNumeric},
	{Name: RuleLocalNumber, Reject: localNumberPattern.MatchString},
	{Name: RulePhone, Reject: rejectPhone},
	{Name: RuleEmail, Reject: rejectEmail},
}

// Classify runs the rule pipeline and returns the name of the first rule that
// rejected text, or "" when text is a plausible company name.
func Classify(text string) string {
	trimmed := strings.TrimSpace(text)
	for _, rule := range Rules {
		if rule.Reject(trimmed) {
			return rule.Name
		}
	}
	return ""
}

// IsPlausibleCompanyName reports whether text looks like a company name rather
// than a URL, email, phone number, postal code, or bare number.
func IsPlausibleCompanyName(text string) bool {
	return Classify(text) == ""
}

// HasCompanyMarker reports whether text carries a legal-form marker.
func HasCompanyMarker(text string) bool {
	if companyMarkerPattern.MatchString(text) {
		return true
	}
	for _, m := range cjkCompanyMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func rejectStrippedEmpty(text string) bool {
	return significant(text) == ""
}

func rejectTooShort(text string) bool {
	return utf8.RuneCountInString(text) < 2 && !ContainsJapanese(text)
}

func rejectBareDomain(text string) bool {
	if !domainPattern.MatchString(text) && !wwwDomainPattern.MatchString(text) {
		return false
	}
	return !strings.ContainsFunc(text, unicode.IsSpace) && !ContainsJapanese(text) && !HasCompanyMarker(text)
}

func rejectNumeric(text string) bool {
	return digitsPattern.MatchString(text) && len(text) > 2
}

func rejectPhone(text string) bool {
	if !phonePattern.MatchString(text) {
		return false
	}
	digits := 0
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= minPhoneDigits
}

func rejectEmail(text string) bool {
	return emailPattern.MatchString(text) && !strings.ContainsFunc(text, unicode.IsSpace)
}
