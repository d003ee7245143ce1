package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsPlausibleCompanyName(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{in: "https://example.com", want: false},
		{in: "03-1234", want: false},
		{in: "100-0001", want: false},
		{in: "12345678", want: false},
		{in: "info@example.com", want: false},
		{in: "example.co.jp", want: false},
		{in: "株式会社example.com", want: true},
		{in: "花", want: true},
		{in: "A", want: false},
		{in: "www.example.com", want: false},
		{in: "03-1234-5678", want: false},
		{in: "+81 3-1234-5678", want: false},
		{in: "---", want: false},
		{in: "Example Inc.", want: true},
		{in: "トヨタ自動車株式会社", want: true},
		{in: "contact@example.com 株式会社", want: true},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, IsPlausibleCompanyName(tc.in), "input %q", tc.in)
	}
}

func TestClassifyReportsRule(t *testing.T) {
	require.Equal(t, RuleStrippedEmpty, Classify("-- .."))
	require.Equal(t, RuleTooShort, Classify("A"))
	require.Equal(t, RuleURL, Classify("HTTP://spam.example"))
	require.Equal(t, RuleBareDomain, Classify("example.co.jp"))
	require.Equal(t, RuleNumeric, Classify("12345678"))
	require.Equal(t, RuleLocalNumber, Classify("123-4567"))
	require.Equal(t, RulePhone, Classify("03-1234-5678"))
	require.Equal(t, RuleEmail, Classify("info@example.com"))
	require.Equal(t, "", Classify("株式会社テスト"))
}

func TestClassifyDeterministic(t *testing.T) {
	for _, in := range []string{"株式会社example.com", "example.co.jp", "花"} {
		require.Equal(t, Classify(in), Classify(in))
	}
}

func TestHasCompanyMarker(t *testing.T) {
	require.True(t, HasCompanyMarker("Acme Corp"))
	require.True(t, HasCompanyMarker("テストホールディングス"))
	require.False(t, HasCompanyMarker("example.co.jp"))
}
