package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataFor(t *testing.T) {
	meta := MetadataFor(CodeNotFound)
	if meta.HTTPStatus != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", meta.HTTPStatus)
	}

	fallback := MetadataFor(Code("SOMETHING_ELSE"))
	if fallback.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes should map to internal metadata, got %d", fallback.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "load food item")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be discoverable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", err.Code())
	}
}

func TestAsUnwrapsThroughFmtErrorf(t *testing.T) {
	inner := New(CodeConflict, "relationship already exists")
	wrapped := fmt.Errorf("toggle like: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error through wrapping")
	}
	if typed.Code() != CodeConflict {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeStateConflict, "illegal jump")
	if !IsCode(err, CodeStateConflict) {
		t.Fatal("expected IsCode to match")
	}
	if IsCode(err, CodeConflict) {
		t.Fatal("expected IsCode to reject a different code")
	}
	if IsCode(nil, CodeConflict) {
		t.Fatal("nil error should never match")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeConflict, "order total mismatch").WithDetails(map[string]any{
		"server_total_cents": 25000,
		"client_total_cents": 20000,
	})
	details, ok := err.Details().(map[string]any)
	if !ok {
		t.Fatalf("unexpected details type %T", err.Details())
	}
	if details["server_total_cents"] != 25000 {
		t.Fatalf("unexpected details: %+v", details)
	}
}
