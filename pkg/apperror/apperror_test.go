package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_IsMatchesByCode(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("assemble: %w", WrapWithMetadata(CodeUpstreamQuery, "load factions", map[string]string{"domain": "factions"}, cause))

	if !IsCode(err, CodeUpstreamQuery) {
		t.Fatal("expected upstream_query code in chain")
	}
	if IsCode(err, CodeValidation) {
		t.Fatal("unexpected validation code")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause should be reachable through Unwrap")
	}
	if got := CodeOf(err); got != CodeUpstreamQuery {
		t.Fatalf("CodeOf = %q", got)
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "plain", err: New(CodeValidation, "bad hint"), want: "bad hint"},
		{name: "wrapped", err: Wrap(CodeNotFound, "hydrate npc 4", errors.New("no rows")), want: "hydrate npc 4: no rows"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Fatalf("Error() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := map[Code]int{
		CodeValidation:    http.StatusBadRequest,
		CodeNotFound:      http.StatusNotFound,
		CodeUpstreamQuery: http.StatusBadGateway,
		CodeInternal:      http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := code.HTTPStatus(); got != want {
			t.Fatalf("%s: got %d want %d", code, got, want)
		}
	}
	if got := CodeOf(errors.New("x")); got != CodeInternal {
		t.Fatalf("CodeOf(plain) = %q", got)
	}
}
