package ailink

import (
	"encoding/json"
	"fmt"
)

// ResponseErrorKind classifies an unusable provider reply.
type ResponseErrorKind string

const (
	ResponseEmpty     ResponseErrorKind = "empty"
	ResponseMalformed ResponseErrorKind = "malformed"
	ResponseShape     ResponseErrorKind = "shape"
)

var responseMessages = map[ResponseErrorKind]string{
	ResponseEmpty:     "APIから空の応答が返されました。",
	ResponseMalformed: "APIからの応答が不正なJSON形式です。",
	ResponseShape:     "APIからの応答が期待される形式や型と異なります。",
}

// ResponseError reports a reply that arrived but could not be used. Raw holds
// the payload when raw capture is enabled.
type ResponseError struct {
	Kind ResponseErrorKind
	Err  error
	Raw  json.RawMessage
}

func (e *ResponseError) Error() string {
	if e == nil {
		return "ailink response error"
	}
	if msg, ok := responseMessages[e.Kind]; ok {
		return msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *ResponseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// LookupError is the user-facing failure for one company lookup. Message is
// shown as is; Code is stable for API clients and metrics.
type LookupError struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *LookupError) Error() string {
	if e == nil {
		return "lookup error"
	}
	return e.Message
}

func (e *LookupError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrappedMessage(name string, err error) string {
	return fmt.Sprintf("「%s」の情報取得中にエラーが発生しました: %s", name, err.Error())
}
