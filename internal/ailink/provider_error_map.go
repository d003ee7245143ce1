package ailink

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hide0128/finder/internal/ailink/driver"
)

const invalidKeyMessage = "APIキーが無効です。設定を確認してください。"

// Error codes carried by LookupError.
const (
	CodeProviderAuth        = "AILINK_PROVIDER_AUTH"
	CodeProviderRateLimit   = "AILINK_PROVIDER_RATE_LIMIT"
	CodeProviderBadRequest  = "AILINK_PROVIDER_BAD_REQUEST"
	CodeProviderUnavailable = "AILINK_PROVIDER_UNAVAILABLE"
	CodeProviderTimeout     = "AILINK_PROVIDER_TIMEOUT"
	CodeProviderError       = "AILINK_PROVIDER_ERROR"
	CodeResponseEmpty       = "AILINK_RESPONSE_EMPTY"
	CodeResponseMalformed   = "AILINK_RESPONSE_MALFORMED"
	CodeResponseShape       = "AILINK_RESPONSE_SHAPE"
)

// mapLookupError turns a driver or parse failure into the message shown for
// name. Credential and reply-shape problems keep their own message; anything
// else is prefixed with the company name.
func mapLookupError(name string, err error) *LookupError {
	if err == nil {
		return nil
	}

	var lerr *LookupError
	if errors.As(err, &lerr) {
		return lerr
	}

	out := &LookupError{Name: name, Err: err, Code: CodeProviderError, Message: wrappedMessage(name, err)}

	var rerr *ResponseError
	if errors.As(err, &rerr) {
		switch rerr.Kind {
		case ResponseMalformed:
			out.Code, out.Message = CodeResponseMalformed, rerr.Error()
		case ResponseShape:
			out.Code, out.Message = CodeResponseShape, rerr.Error()
		default:
			out.Code = CodeResponseEmpty
		}
		return out
	}

	if errors.Is(err, context.DeadlineExceeded) {
		out.Code, out.Message = CodeProviderTimeout, fmt.Sprintf("「%s」の検索がタイムアウトしました。", name)
		return out
	}

	var perr *driver.ProviderError
	if errors.As(err, &perr) && perr != nil {
		status := perr.StatusCode
		switch {
		case perr.IsAuth():
			out.Code, out.Message = CodeProviderAuth, invalidKeyMessage
		case status == http.StatusTooManyRequests:
			out.Code = CodeProviderRateLimit
		case status >= 500 && status <= 599:
			out.Code = CodeProviderUnavailable
		case status >= 400 && status <= 499:
			out.Code = CodeProviderBadRequest
		}
	}
	return out
}
