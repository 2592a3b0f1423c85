package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolationPgx(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "like_records_user_food_key"}

	if !IsUniqueViolation(err, "") {
		t.Fatal("expected pgx unique violation to match")
	}
	if !IsUniqueViolation(err, "like_records_user_food_key") {
		t.Fatal("expected constraint-scoped match")
	}
	if IsUniqueViolation(err, "other_constraint") {
		t.Fatal("expected mismatch for a different constraint")
	}
}

func TestIsUniqueViolationPq(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "follow_records_user_partner_key"}
	if !IsUniqueViolation(err, "follow_records_user_partner_key") {
		t.Fatal("expected pq unique violation to match")
	}

	notUnique := &pq.Error{Code: "23503"}
	if IsUniqueViolation(notUnique, "") {
		t.Fatal("foreign key violations must not match")
	}
}

func TestIsUniqueViolationWrapped(t *testing.T) {
	inner := &pgconn.PgError{Code: "23505"}
	wrapped := fmt.Errorf("insert like: %w", inner)
	if !IsUniqueViolation(wrapped, "") {
		t.Fatal("expected match through wrapping")
	}
}

func TestIsUniqueViolationSQLiteMessage(t *testing.T) {
	err := errors.New("UNIQUE constraint failed: like_records.user_id, like_records.food_item_id")
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected sqlite message to match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil must not match")
	}
}
