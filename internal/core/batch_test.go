package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrepareEndToEnd(t *testing.T) {
	batch, err := Prepare("株式会社テスト-1(旧)\n\nhttps://spam.example\n123-4567")
	require.NoError(t, err)
	require.Equal(t, []string{"株式会社テスト"}, batch.Candidates)
	require.Equal(t, 3, batch.NonEmptyLines)
	require.Equal(t, 2, batch.RejectedCount())
	require.Equal(t, 3, batch.Rejected[0].Line)
	require.Equal(t, "url", batch.Rejected[0].Rule)
	require.Equal(t, 4, batch.Rejected[1].Line)
	require.Equal(t, "local-number", batch.Rejected[1].Rule)
	require.Equal(t, []string{"url", "local-number"}, batch.RejectedRules())
}

func TestPrepareKeepsOrderAndDuplicates(t *testing.T) {
	batch, err := Prepare("Beta Inc.\r\nAlpha株式会社\r\nBeta Inc.")
	require.NoError(t, err)
	require.Equal(t, []string{"Beta Inc.", "Alpha株式会社", "Beta Inc."}, batch.Candidates)
}

func TestPrepareEmptyInput(t *testing.T) {
	_, err := Prepare(" \n\t\n")
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestPrepareNoValidNames(t *testing.T) {
	batch, err := Prepare("info@example.com\n12345678")
	require.ErrorIs(t, err, ErrNoValidNames)
	require.Equal(t, 2, batch.NonEmptyLines)
	require.Len(t, batch.Rejected, 2)
}

func TestIsUnknown(t *testing.T) {
	require.True(t, IsUnknown("情報なし", ""))
	require.True(t, IsUnknown("", "n/a"))
	require.True(t, IsUnknown("n/a", "n/a"))
	require.False(t, IsUnknown("example.co.jp", ""))
}

func TestClassifyLine(t *testing.T) {
	cleaned, rule := ClassifyLine("  株式会社テスト-1(旧)")
	require.Equal(t, "株式会社テスト", cleaned)
	require.Empty(t, rule)

	_, rule = ClassifyLine("info@example.com")
	require.Equal(t, "email", rule)

	cleaned, rule = ClassifyLine("　")
	require.Empty(t, cleaned)
	require.Equal(t, "stripped-empty", rule)
}
