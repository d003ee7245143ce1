package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

func TestDecodeInputUTF8WithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("株式会社テスト\n")...)
	text, err := DecodeInput(data, EncodingAuto)
	require.NoError(t, err)
	require.Equal(t, "株式会社テスト\n", text)
}

func TestDecodeInputShiftJIS(t *testing.T) {
	sjis, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte("新明工業株式会社"))
	require.NoError(t, err)

	text, err := DecodeInput(sjis, EncodingAuto)
	require.NoError(t, err)
	require.Equal(t, "新明工業株式会社", text)

	text, err = DecodeInput(sjis, "sjis")
	require.NoError(t, err)
	require.Equal(t, "新明工業株式会社", text)

	_, err = DecodeInput(sjis, EncodingUTF8)
	require.Error(t, err)
}

func TestDecodeInputEUCJP(t *testing.T) {
	euc, _, err := transform.Bytes(japanese.EUCJP.NewEncoder(), []byte("有限会社"))
	require.NoError(t, err)

	text, err := DecodeInput(euc, EncodingEUCJP)
	require.NoError(t, err)
	require.Equal(t, "有限会社", text)
}

func TestDecodeInputUnknownEncoding(t *testing.T) {
	_, err := DecodeInput([]byte("x"), "latin9")
	require.Error(t, err)
}
