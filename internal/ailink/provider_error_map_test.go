package ailink

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hide0128/finder/internal/ailink/driver"
)

func TestMapLookupErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name       string
		statusCode int
		message    string
		wantCode   string
	}{
		{"auth", 401, "boom", CodeProviderAuth},
		{"forbidden", 403, "boom", CodeProviderAuth},
		{"gemini invalid key", 400, "API key not valid. Please pass a valid API key.", CodeProviderAuth},
		{"rate", 429, "boom", CodeProviderRateLimit},
		{"bad", 400, "boom", CodeProviderBadRequest},
		{"unavail", 503, "boom", CodeProviderUnavailable},
	}

	for _, tc := range cases {
		err := &driver.ProviderError{Provider: "gemini", StatusCode: tc.statusCode, Message: tc.message}
		mapped := mapLookupError("テスト株式会社", err)
		require.NotNil(t, mapped, tc.name)
		require.Equal(t, tc.wantCode, mapped.Code, tc.name)
	}
}

func TestMapLookupErrorMessages(t *testing.T) {
	auth := mapLookupError("A社", &driver.ProviderError{Provider: "gemini", StatusCode: 401})
	require.Equal(t, "APIキーが無効です。設定を確認してください。", auth.Error())

	malformed := mapLookupError("A社", &ResponseError{Kind: ResponseMalformed})
	require.Equal(t, "APIからの応答が不正なJSON形式です。", malformed.Error())

	shape := mapLookupError("A社", &ResponseError{Kind: ResponseShape})
	require.Equal(t, "APIからの応答が期待される形式や型と異なります。", shape.Error())

	empty := mapLookupError("A社", &ResponseError{Kind: ResponseEmpty})
	require.Equal(t, "「A社」の情報取得中にエラーが発生しました: APIから空の応答が返されました。", empty.Error())

	other := mapLookupError("A社", errors.New("connection refused"))
	require.Equal(t, CodeProviderError, other.Code)
	require.Equal(t, "「A社」の情報取得中にエラーが発生しました: connection refused", other.Error())

	timeout := mapLookupError("A社", fmt.Errorf("request failed: %w", context.DeadlineExceeded))
	require.Equal(t, CodeProviderTimeout, timeout.Code)
	require.ErrorIs(t, timeout, context.DeadlineExceeded)
	require.Equal(t, "「A社」の検索がタイムアウトしました。", timeout.Error())

	require.Same(t, other, mapLookupError("B社", other))
	require.Nil(t, mapLookupError("A社", nil))
}
