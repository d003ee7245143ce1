package engine

import (
	"fmt"
	"strings"
)

// ReportKind classifies a settled batch for the user.
type ReportKind string

const (
	ReportOK      ReportKind = "ok"
	ReportPartial ReportKind = "partial"
	ReportTotal   ReportKind = "total"
	ReportEmpty   ReportKind = "empty"
)

const (
	unknownErrorMessage = "不明なエラー"

	partialFailureHeader = "一部の企業情報の取得に失敗しました。"
	totalFailureHeader   = "すべての企業情報の取得に失敗しました。"
	detailsLead          = "詳細は以下の通りです:"
	emptyResultMessage   = "入力されたすべての会社について、有効な情報が見つかりませんでした。"
)

// Report is the consolidated status of one search.
type Report struct {
	Kind      ReportKind `json:"kind"`
	Message   string     `json:"message,omitempty"`
	Successes int        `json:"successes"`
	Failures  int        `json:"failures"`
}

// HasError reports whether the report carries a user-facing warning.
func (r Report) HasError() bool {
	return r.Kind != ReportOK
}

// Summarize turns an outcome into a Report. Successes are never withheld;
// the message only lists what failed.
func Summarize(o Outcome) Report {
	successes := o.Successes()
	failures := o.Failures()
	report := Report{
		Kind:      ReportOK,
		Successes: len(successes),
		Failures:  len(failures),
	}

	switch {
	case len(failures) > 0 && len(successes) > 0:
		report.Kind = ReportPartial
		report.Message = failureMessage(partialFailureHeader, o)
	case len(failures) > 0:
		report.Kind = ReportTotal
		report.Message = failureMessage(totalFailureHeader, o)
	case len(successes) == 0 && len(o.Results) > 0:
		report.Kind = ReportEmpty
		report.Message = emptyResultMessage
	}

	return report
}

// FailureLines formats each failure as 「name」: reason, in input order.
func FailureLines(o Outcome) []string {
	lines := make([]string, 0)
	for _, r := range o.Failures() {
		reason := r.Error
		if reason == "" {
			reason = unknownErrorMessage
		}
		lines = append(lines, fmt.Sprintf("「%s」: %s", r.Name, reason))
	}
	return lines
}

func failureMessage(header string, o Outcome) string {
	lines := FailureLines(o)
	for i, line := range lines {
		lines[i] = "• " + line
	}
	return header + "\n" + detailsLead + "\n" + strings.Join(lines, "\n")
}
