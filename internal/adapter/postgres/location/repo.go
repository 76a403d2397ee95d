// Package location implements the Localization repository using PostgreSQL.
// Locations are shared rows: the resolver reuses an existing row whenever a
// similar one already exists for the same state and municipality, so repeated
// ingestions never accumulate near-duplicate addresses.
package location

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres"
	"github.com/viniciusmartins/fuelmap-backend/internal/domain"
)

// Repo provides localization persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new localization repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const listByStateAndCitySQL = `
SELECT id, uf, municipio, endereco, numero, complemento, bairro, cep, criado_em, atualizado_em
FROM localizacao
WHERE uf = $1 AND municipio = $2`

const insertLocationSQL = `
INSERT INTO localizacao (id, uf, municipio, endereco, numero, complemento, bairro, cep, criado_em, atualizado_em)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`

// ListByStateAndCity returns every stored location for (uf, municipio).
// The caller applies the similarity test to decide reuse vs insert.
func (r *Repo) ListByStateAndCity(ctx context.Context, uf, municipio string) ([]*domain.Location, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByStateAndCitySQL, uf, municipio)
	if err != nil {
		return nil, fmt.Errorf("list locations %s/%s: %w", uf, municipio, err)
	}
	defer rows.Close()

	var locations []*domain.Location
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.UF, &l.Municipio, &l.Endereco, &l.Numero,
			&l.Complemento, &l.Bairro, &l.CEP, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations %s/%s: %w", uf, municipio, err)
	}

	return locations, nil
}

// Insert persists a new location, assigning an id when absent.
func (r *Repo) Insert(ctx context.Context, l *domain.Location) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	_, err := q.Exec(ctx, insertLocationSQL,
		l.ID, l.UF, l.Municipio, l.Endereco, l.Numero, l.Complemento, l.Bairro, l.CEP, now)
	if err != nil {
		return postgres.MapError(err, "localizacao", l.LocationKey())
	}
	return nil
}

// Upsert reconciles a candidate against persisted state: reuses the first
// similar location under the same (uf, municipio), otherwise inserts.
// The second return reports whether a new row was created.
func (r *Repo) Upsert(ctx context.Context, candidate *domain.Location) (*domain.Location, bool, error) {
	existing, err := r.ListByStateAndCity(ctx, candidate.UF, candidate.Municipio)
	if err != nil {
		return nil, false, err
	}

	for _, loc := range existing {
		if loc.SimilarTo(candidate) {
			return loc, false, nil
		}
	}

	if err := r.Insert(ctx, candidate); err != nil {
		return nil, false, err
	}
	return candidate, true, nil
}
