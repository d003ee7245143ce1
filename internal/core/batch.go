package core

import (
	"errors"
	"strings"

	"github.com/hide0128/finder/internal/normalize"
)

var (
	// ErrEmptyInput is returned when no non-blank line was submitted.
	ErrEmptyInput = errors.New("会社名を入力してください。各会社名は改行で区切ってください。")
	// ErrNoValidNames is returned when every submitted line was filtered out.
	ErrNoValidNames = errors.New("入力されたテキストに有効な会社名が見つかりませんでした。会社名以外の情報（URL、メールアドレス、電話番号、郵便番号、または末尾の注釈等）は除外されます。")
)

// Rejection records a line that did not survive cleaning and classification.
type Rejection struct {
	Line    int    `json:"line"`
	Raw     string `json:"raw"`
	Cleaned string `json:"cleaned"`
	Rule    string `json:"rule"`
}

// Batch is the ordered candidate list produced from multi-line input.
// Duplicates are kept.
type Batch struct {
	Candidates    []string    `json:"candidates"`
	Rejected      []Rejection `json:"rejected,omitempty"`
	NonEmptyLines int         `json:"non_empty_lines"`
}

// RejectedCount returns the number of non-empty lines that were dropped.
func (b Batch) RejectedCount() int {
	return len(b.Rejected)
}

// RejectedRules returns the rule name of each rejection, in line order.
func (b Batch) RejectedRules() []string {
	rules := make([]string, 0, len(b.Rejected))
	for _, r := range b.Rejected {
		rules = append(rules, r.Rule)
	}
	return rules
}

// SplitLines splits text on LF, CRLF and lone CR.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// ClassifyLine cleans one line and returns the cleaned text with the name of
// the rule that rejects it, or "" when it is a plausible company name.
func ClassifyLine(line string) (cleaned, rule string) {
	cleaned = normalize.Clean(strings.TrimSpace(line))
	if cleaned == "" {
		return "", normalize.RuleStrippedEmpty
	}
	return cleaned, normalize.Classify(cleaned)
}

// Prepare cleans and classifies each line of text. It returns ErrEmptyInput
// when every line is blank and ErrNoValidNames when no line is plausible;
// the returned Batch is populated in both the success and ErrNoValidNames
// cases so callers can report what was dropped.
func Prepare(text string) (Batch, error) {
	return PrepareLines(SplitLines(text))
}

// PrepareLines is Prepare over pre-split lines.
func PrepareLines(lines []string) (Batch, error) {
	batch := Batch{Candidates: make([]string, 0, len(lines))}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		batch.NonEmptyLines++

		cleaned, rule := ClassifyLine(trimmed)
		if rule != "" {
			batch.Rejected = append(batch.Rejected, Rejection{Line: i + 1, Raw: line, Cleaned: cleaned, Rule: rule})
			continue
		}
		batch.Candidates = append(batch.Candidates, cleaned)
	}

	if batch.NonEmptyLines == 0 {
		return batch, ErrEmptyInput
	}
	if len(batch.Candidates) == 0 {
		return batch, ErrNoValidNames
	}
	return batch, nil
}
