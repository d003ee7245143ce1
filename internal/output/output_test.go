package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hide0128/finder/internal/core"
)

func sampleResults() []core.LookupResult {
	return []core.LookupResult{
		{Index: 0, Name: "テスト", Info: &core.CompanyInfo{
			CompanyName: "テスト",
			Domain:      "test.co.jp",
			PostalCode:  "100-0001",
			SourceURLs:  []core.Citation{{URI: "https://test.co.jp/", Title: "テスト公式"}},
		}},
		{Index: 1, Name: "失敗社", Error: "「失敗社」の情報取得中にエラーが発生しました: boom"},
		{Index: 2, Name: "不明社", Info: &core.CompanyInfo{CompanyName: "不明社", Domain: "情報なし", PostalCode: "情報なし"}},
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"":          FormatTable,
		"table":     FormatTable,
		"JSON":      FormatJSON,
		"md":        FormatMarkdown,
		"clipboard": FormatTSV,
		"xlsx":      FormatXLSX,
	}
	for input, want := range cases {
		got, err := ParseFormat(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got)
	}

	_, err := ParseFormat("csv")
	require.Error(t, err)
	require.True(t, FormatXLSX.Binary())
	require.False(t, FormatTSV.Binary())
	require.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")
	require.Equal(t, "application/json", FormatJSON.ContentType())
}

func TestParseColumnsKeepsFixedOrder(t *testing.T) {
	cols, err := ParseColumns("postal, company")
	require.NoError(t, err)
	require.Equal(t, []Column{ColumnCompany, ColumnPostal}, cols)

	cols, err = ParseColumns("")
	require.NoError(t, err)
	require.Equal(t, AllColumns, cols)

	_, err = ParseColumns("phone")
	require.Error(t, err)
}

func TestRenderTSV(t *testing.T) {
	out, err := Render(FormatTSV, sampleResults(), Options{})
	require.NoError(t, err)
	require.Equal(t, "テスト\ttest.co.jp\t100-0001\n不明社\t情報なし\t情報なし", string(out))

	out, err = Render(FormatTSV, sampleResults(), Options{Columns: []Column{ColumnPostal, ColumnCompany}, BlankUnknown: true})
	require.NoError(t, err)
	require.Equal(t, "テスト\t100-0001\n不明社\t", string(out))
}

func TestRenderTableSkipsFailures(t *testing.T) {
	out, err := Render(FormatTable, sampleResults(), Options{Citations: true})
	require.NoError(t, err)
	rendered := string(out)
	require.Contains(t, rendered, "会社名")
	require.Contains(t, rendered, "test.co.jp")
	require.Contains(t, rendered, "テスト公式 <https://test.co.jp/>")
	require.NotContains(t, rendered, "失敗社")
	require.NotContains(t, rendered, "検証")
}

func TestRenderTableShowsVerification(t *testing.T) {
	results := sampleResults()
	results[0].DomainStatus = core.DomainStatusRegistered
	results[2].DomainStatus = core.DomainStatusSkipped

	out, err := Render(FormatTable, results, Options{})
	require.NoError(t, err)
	require.Contains(t, string(out), "検証")
	require.Contains(t, string(out), "登録済み")
}

func TestRenderMarkdown(t *testing.T) {
	out, err := Render(FormatMarkdown, sampleResults(), Options{Citations: true, BlankUnknown: true})
	require.NoError(t, err)
	rendered := string(out)
	require.True(t, strings.HasPrefix(rendered, "| 会社名 | ドメイン | 郵便番号 |\n"))
	require.Contains(t, rendered, "| テスト | test.co.jp | 100-0001 |")
	require.Contains(t, rendered, "| 不明社 |  |  |")
	require.Contains(t, rendered, "- [テスト公式](https://test.co.jp/)")
}

func TestRenderJSONKeepsSentinelAndFailures(t *testing.T) {
	out, err := Render(FormatJSON, sampleResults(), Options{BlankUnknown: true})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 3)
	require.Contains(t, decoded[1]["error"], "boom")
	info := decoded[2]["info"].(map[string]any)
	require.Equal(t, "情報なし", info["domain"])
	require.NotContains(t, decoded[0]["info"].(map[string]any), "sourceUrls")
}

func TestRenderXLSX(t *testing.T) {
	out, err := Render(FormatXLSX, sampleResults(), Options{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close() // nolint:errcheck // test cleanup

	require.Equal(t, []string{SheetName}, f.GetSheetList())

	header, err := f.GetCellValue(SheetName, "B1")
	require.NoError(t, err)
	require.Equal(t, "ドメイン", header)

	postal, err := f.GetCellValue(SheetName, "C2")
	require.NoError(t, err)
	require.Equal(t, "100-0001", postal)

	third, err := f.GetCellValue(SheetName, "A3")
	require.NoError(t, err)
	require.Equal(t, "不明社", third)

	width, err := f.GetColWidth(SheetName, "B")
	require.NoError(t, err)
	require.InDelta(t, 25, width, 0.01)
}

func TestDisplayWidth(t *testing.T) {
	require.Equal(t, 4, displayWidth("ab-1"))
	require.Equal(t, 6, displayWidth("会社名"))
	require.Equal(t, 4, displayWidth("ＡＢ"))
}
