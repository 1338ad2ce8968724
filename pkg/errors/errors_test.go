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
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
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
	base := New(CodeValidation, "missing name")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing name" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	withDetails := base.WithDetails(map[string]string{"field": "name"})
	if withDetails.Details() == nil {
		t.Fatalf("expected details to be attached")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "calling tax service")
	if wrapped.Code() != CodeDependency {
		t.Fatalf("expected dependency code, got %s", wrapped.Code())
	}
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("expected wrapped error to unwrap to cause")
	}
}

func TestWrapNilBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeInternal, nil, "no cause")
	if err.Unwrap() != nil {
		t.Fatalf("expected no cause")
	}
	if err.Code() != CodeInternal {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsExtractsTypedError(t *testing.T) {
	err := New(CodeForbidden, "nope")
	wrapped := Wrap(CodeDependency, err, "outer")

	typed := As(wrapped)
	if typed == nil {
		t.Fatalf("expected typed error")
	}
	if typed.Code() != CodeDependency {
		t.Fatalf("expected outer code, got %s", typed.Code())
	}

	if As(stdErrors.New("plain")) != nil {
		t.Fatalf("expected nil for untyped error")
	}
	if As(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
