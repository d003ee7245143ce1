package normalize

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Input encodings accepted by DecodeInput.
const (
	EncodingAuto     = "auto"
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
	EncodingEUCJP    = "euc-jp"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeInput converts raw name-list bytes to a UTF-8 string. With
// EncodingAuto, valid UTF-8 is taken as is and anything else is decoded as
// Shift_JIS, the usual encoding of spreadsheet exports on Japanese Windows.
func DecodeInput(data []byte, enc string) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	switch normalizeEncodingName(enc) {
	case EncodingUTF8:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("input is not valid utf-8")
		}
		return string(data), nil
	case EncodingShiftJIS:
		return decodeWith(japanese.ShiftJIS, data)
	case EncodingEUCJP:
		return decodeWith(japanese.EUCJP, data)
	case EncodingAuto:
		if utf8.Valid(data) {
			return string(data), nil
		}
		return decodeWith(japanese.ShiftJIS, data)
	default:
		return "", fmt.Errorf("unsupported input encoding %q", enc)
	}
}

func decodeWith(e encoding.Encoding, data []byte) (string, error) {
	decoded, _, err := transform.Bytes(e.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode input: %w", err)
	}
	return string(decoded), nil
}

func normalizeEncodingName(enc string) string {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", "auto":
		return EncodingAuto
	case "utf-8", "utf8":
		return EncodingUTF8
	case "shift_jis", "shift-jis", "sjis", "cp932":
		return EncodingShiftJIS
	case "euc-jp", "eucjp":
		return EncodingEUCJP
	default:
		return enc
	}
}
