package errors

import (
	"errors"
	"fmt"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	HTTPStatus int    `json:"http_status,omitempty"`
	ServerBody string `json:"server_body,omitempty"`
}

// HTTPDetail is implemented by errors that carry the backend's raw response.
type HTTPDetail interface {
	StatusCode() int
	ServerMessage() string
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var httpErr HTTPDetail
	if errors.As(err, &httpErr) {
		d.HTTPStatus = httpErr.StatusCode()
		d.ServerBody = httpErr.ServerMessage()
	}

	return d
}
