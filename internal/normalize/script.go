package normalize

import "unicode/utf8"

// RuneRange is an inclusive code-point interval.
type RuneRange struct {
	Lo rune
	Hi rune
}

// Contains reports whether r falls inside the range.
func (rr RuneRange) Contains(r rune) bool {
	return r >= rr.Lo && r <= rr.Hi
}

// ScriptRanges lists the Japanese and CJK blocks treated as "name script".
// Order is irrelevant; ranges do not overlap.
var ScriptRanges = []RuneRange{
	{Lo: 0x3000, Hi: 0x303F}, // CJK symbols and punctuation
	{Lo: 0x3040, Hi: 0x309F}, // Hiragana
	{Lo: 0x30A0, Hi: 0x30FF}, // Katakana
	{Lo: 0xFF00, Hi: 0xFFEF}, // Half-width and full-width forms
	{Lo: 0x4E00, Hi: 0x9FAF}, // CJK unified ideographs
}

// IsJapaneseScript reports whether r belongs to one of ScriptRanges.
func IsJapaneseScript(r rune) bool {
	for _, rr := range ScriptRanges {
		if rr.Contains(r) {
			return true
		}
	}
	return false
}

// ContainsJapanese reports whether s has at least one Japanese/CJK rune.
func ContainsJapanese(s string) bool {
	for _, r := range s {
		if IsJapaneseScript(r) {
			return true
		}
	}
	return false
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// significant keeps ASCII alphanumerics and Japanese script, dropping the rest.
func significant(s string) string {
	out := make([]rune, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		if isASCIIAlnum(r) || IsJapaneseScript(r) {
			out = append(out, r)
		}
	}
	return string(out)
}
