// Package sync implements the ANP report ingestion pipeline: read and
// validate rows, deduplicate candidates by natural key, upsert entities in
// dependency order inside one transaction, and suppress already-stored
// price observations.
package sync

import (
	"context"

	"github.com/viniciusmartins/fuelmap-backend/internal/domain"
)

// Repository contracts consumed by the pipeline. All methods use only
// domain types and respect a transaction placed in the context.
// Implemented by the postgres adapter packages.

// LocationRepo reconciles location candidates against stored rows.
type LocationRepo interface {
	// Upsert reuses a similar stored location or inserts the candidate.
	// The bool reports whether a new row was created.
	Upsert(ctx context.Context, candidate *domain.Location) (*domain.Location, bool, error)
}

// ProductRepo reconciles product candidates against stored rows.
type ProductRepo interface {
	Upsert(ctx context.Context, candidate *domain.Product) (*domain.Product, bool, error)
}

// StationRepo reconciles station candidates against stored rows.
type StationRepo interface {
	Upsert(ctx context.Context, candidate *domain.GasStation) (*domain.GasStation, bool, error)
}

// PriceRepo persists price observations in batch.
type PriceRepo interface {
	// ExistingKeys returns the candidates' natural keys already stored.
	ExistingKeys(ctx context.Context, candidates []*domain.PriceRecord) (map[string]struct{}, error)
	// BulkInsert writes records, skipping conflicting keys, and returns
	// how many rows were inserted.
	BulkInsert(ctx context.Context, records []*domain.PriceRecord) (int, error)
}

// TxRunner runs a function inside one database transaction.
// Implemented by postgres.TxManager.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
