package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/grpc/codes"
)

func TestMakeCode(t *testing.T) {
	tests := []struct {
		service  int
		category int
		sequence int
		expected int
	}{
		{0, 0, 0, 0},
		{0, 1, 1, 1001},
		{0, 8, 0, 8000},
		{20, 4, 1, 2004001},
		{90, 10, 1, 9010001},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d_%d", tt.service, tt.category, tt.sequence), func(t *testing.T) {
			got := MakeCode(tt.service, tt.category, tt.sequence)
			if got != tt.expected {
				t.Errorf("MakeCode(%d, %d, %d) = %d, want %d",
					tt.service, tt.category, tt.sequence, got, tt.expected)
			}
		})
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		code             int
		expectedService  int
		expectedCategory int
		expectedSequence int
	}{
		{0, 0, 0, 0},
		{1001, 0, 1, 1},
		{2004001, 20, 4, 1},
		{9010001, 90, 10, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.code), func(t *testing.T) {
			service, category, sequence := ParseCode(tt.code)
			if service != tt.expectedService || category != tt.expectedCategory || sequence != tt.expectedSequence {
				t.Errorf("ParseCode(%d) = (%d, %d, %d), want (%d, %d, %d)",
					tt.code, service, category, sequence,
					tt.expectedService, tt.expectedCategory, tt.expectedSequence)
			}
		})
	}
}

func TestErrnoWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrUpstreamLLM.WithCause(cause)

	if err.Code != ErrUpstreamLLM.Code {
		t.Errorf("WithCause changed code: got %d, want %d", err.Code, ErrUpstreamLLM.Code)
	}
	if !errors.Is(err, ErrUpstreamLLM) {
		t.Error("errors.Is(err, ErrUpstreamLLM) = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	// The original must stay untouched.
	if ErrUpstreamLLM.Unwrap() != nil {
		t.Error("WithCause mutated the registered Errno")
	}
}

func TestErrnoWithMessage(t *testing.T) {
	err := ErrDeskInvalidRequest.WithMessage("user_id is required")
	if err.MessageEN != "user_id is required" {
		t.Errorf("MessageEN = %q, want %q", err.MessageEN, "user_id is required")
	}
	if err.Code != ErrDeskInvalidRequest.Code {
		t.Errorf("WithMessage changed code: got %d", err.Code)
	}
}

func TestFromError(t *testing.T) {
	if got := FromError(nil); got != nil {
		t.Errorf("FromError(nil) = %v, want nil", got)
	}

	if got := FromError(ErrMalformedModelOutput); got != ErrMalformedModelOutput {
		t.Errorf("FromError(Errno) did not pass through: got %v", got)
	}

	plain := errors.New("boom")
	got := FromError(plain)
	if got.Code != ErrInternal.Code {
		t.Errorf("FromError(plain).Code = %d, want %d", got.Code, ErrInternal.Code)
	}
	if !errors.Is(got, plain) {
		t.Error("FromError(plain) lost the cause")
	}
}

func TestHTTPAndGRPCStatus(t *testing.T) {
	if got := ErrDeskComplaintNotFound.HTTPStatus(); got != http.StatusNotFound {
		t.Errorf("HTTPStatus() = %d, want %d", got, http.StatusNotFound)
	}
	if got := ErrMalformedModelOutput.HTTPStatus(); got != http.StatusBadGateway {
		t.Errorf("HTTPStatus() = %d, want %d", got, http.StatusBadGateway)
	}
	if got := ErrUpstreamVectorStore.GRPCStatus(); got != codes.Unavailable {
		t.Errorf("GRPCStatus() = %v, want %v", got, codes.Unavailable)
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup(ErrUpstreamDatabase.Code)
	if !ok || e != ErrUpstreamDatabase {
		t.Errorf("Lookup(%d) = (%v, %v), want registered Errno", ErrUpstreamDatabase.Code, e, ok)
	}
	if _, ok := Lookup(9999999); ok {
		t.Error("Lookup(9999999) found an unregistered code")
	}
}
