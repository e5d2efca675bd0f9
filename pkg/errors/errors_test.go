package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeNotAuthenticated, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeAuthExpired, status: http.StatusUnauthorized, publicMsg: "session expired"},
		{code: CodeOperationInProgress, status: http.StatusConflict, publicMsg: "operation already in progress", retryable: true, detailsOK: true},
		{code: CodeNetwork, status: http.StatusBadGateway, publicMsg: "storefront backend unreachable", retryable: true},
		{code: CodeRequestRejected, status: http.StatusUnprocessableEntity, publicMsg: "request rejected", detailsOK: true},
		{code: CodeInvalidQuantity, status: http.StatusBadRequest, publicMsg: "quantity must be a positive integer", detailsOK: true},
		{code: CodeEmptyCart, status: http.StatusUnprocessableEntity, publicMsg: "cart is empty"},
		{code: CodePaymentFailed, status: http.StatusPaymentRequired, publicMsg: "payment failed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeInvalidQuantity, "quantity must be positive")
	if base.Code() != CodeInvalidQuantity {
		t.Fatalf("expected invalid quantity code, got %s", base.Code())
	}
	if base.Message() != "quantity must be positive" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"quantity": -1}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("connection refused")
	wrapped := Wrap(CodeNetwork, cause, "fetch cart")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeNetwork {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeAuthExpired, "token rejected")
	if got := As(err); got == nil || got.Code() != CodeAuthExpired {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestIsMatchesWrappedCode(t *testing.T) {
	err := Wrap(CodeRequestRejected, stdErrors.New("bad size"), "add item")
	if !Is(err, CodeRequestRejected) {
		t.Fatalf("Is should match the carried code")
	}
	if Is(err, CodeNetwork) {
		t.Fatalf("Is matched the wrong code")
	}
	if Is(nil, CodeNetwork) {
		t.Fatalf("Is(nil) should be false")
	}
}

type fakeHTTPErr struct{ status int }

func (f fakeHTTPErr) Error() string         { return "backend said no" }
func (f fakeHTTPErr) StatusCode() int       { return f.status }
func (f fakeHTTPErr) ServerMessage() string { return "size out of stock" }

func TestDumpCapturesHTTPDetail(t *testing.T) {
	err := Wrap(CodeRequestRejected, fakeHTTPErr{status: 422}, "add item")
	d := Dump(err)
	if d.Code != CodeRequestRejected {
		t.Fatalf("expected code in dump, got %s", d.Code)
	}
	if d.HTTPStatus != 422 {
		t.Fatalf("expected http status 422, got %d", d.HTTPStatus)
	}
	if d.ServerBody != "size out of stock" {
		t.Fatalf("unexpected server body %q", d.ServerBody)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", d.Chain)
	}
}
