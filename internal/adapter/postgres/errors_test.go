package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/viniciusmartins/fuelmap-backend/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "no rows", in: pgx.ErrNoRows, want: domain.ErrNotFound},
		{name: "unique violation", in: &pgconn.PgError{Code: "23505"}, want: domain.ErrAlreadyExists},
		{name: "fk violation", in: &pgconn.PgError{Code: "23503"}, want: domain.ErrNotFound},
		{name: "check violation", in: &pgconn.PgError{Code: "23514"}, want: domain.ErrValidation},
		{name: "context canceled passes through", in: context.Canceled, want: context.Canceled},
		{name: "deadline passes through", in: context.DeadlineExceeded, want: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.in, "posto", "11222333000181")
			if tt.want == nil {
				if got != nil {
					t.Fatalf("MapError(nil) = %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("MapError(%v) = %v, want wrapping %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMapErrorUnknown(t *testing.T) {
	orig := errors.New("connection reset")
	got := MapError(orig, "produto", "ETANOL")
	if !errors.Is(got, orig) {
		t.Error("unknown errors must stay unwrappable to the original")
	}
}
