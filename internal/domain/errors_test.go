package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestErrorCodes(t *testing.T) {
	err := ValidationError("SetService.CreateSet", "name is required")
	if !IsCode(err, CodeValidation) {
		t.Fatalf("expected validation code, got %v", CodeOf(err))
	}
	if IsCode(err, CodeConflict) {
		t.Fatalf("IsCode matched wrong code")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("CodeOf on unwrapped error should be empty")
	}

	wrapped := fmt.Errorf("outer: %w", NotFoundError("SetService.GetSet", "set not found"))
	if !IsCode(wrapped, CodeNotFound) {
		t.Fatalf("IsCode should see through wrapping")
	}
}

func TestErrorCodeHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeValidation:   http.StatusBadRequest,
		CodeConflict:     http.StatusBadRequest,
		CodeNotFound:     http.StatusNotFound,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeInternal:     http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := code.HTTPStatus(); got != want {
			t.Fatalf("HTTPStatus(%s): got %d want %d", code, got, want)
		}
	}
}

func TestMapStoreError(t *testing.T) {
	if MapStoreError("op", nil) != nil {
		t.Fatalf("nil should stay nil")
	}

	already := ConflictError("op", "duplicate name")
	if got := MapStoreError("op", already); got != already {
		t.Fatalf("classified errors must pass through unmodified")
	}

	if !IsCode(MapStoreError("op", gorm.ErrRecordNotFound), CodeNotFound) {
		t.Fatalf("gorm.ErrRecordNotFound should map to not_found")
	}

	pgErr := &pgconn.PgError{Code: "23505"}
	if !IsCode(MapStoreError("op", pgErr), CodeConflict) {
		t.Fatalf("unique violation should map to conflict")
	}

	if !IsCode(MapStoreError("op", errors.New("boom")), CodeInternal) {
		t.Fatalf("unknown errors should map to internal")
	}
}
