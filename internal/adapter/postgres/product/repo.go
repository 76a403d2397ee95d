// Package product implements the Product repository using PostgreSQL.
// Products are keyed by canonical name and are immutable once created:
// Upsert never merges category or unit into an existing row.
package product

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres"
	"github.com/viniciusmartins/fuelmap-backend/internal/domain"
)

// Repo provides product persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new product repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByNameSQL = `
SELECT id, nome, categoria, unidade_medida, ativo, criado_em, atualizado_em
FROM produto
WHERE nome = $1`

const insertProductSQL = `
INSERT INTO produto (id, nome, categoria, unidade_medida, ativo, criado_em, atualizado_em)
VALUES ($1, $2, $3, $4, $5, $6, $6)`

// GetByName returns the product with the given canonical name.
// Returns domain.ErrNotFound when absent.
func (r *Repo) GetByName(ctx context.Context, nome string) (*domain.Product, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var p domain.Product
	err := q.QueryRow(ctx, getByNameSQL, nome).Scan(
		&p.ID, &p.Nome, &p.Categoria, &p.UnidadeMedida, &p.Ativo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "produto", nome)
	}
	return &p, nil
}

// Insert persists a new product, assigning an id when absent.
func (r *Repo) Insert(ctx context.Context, p *domain.Product) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := q.Exec(ctx, insertProductSQL,
		p.ID, p.Nome, p.Categoria, p.UnidadeMedida, p.Ativo, now)
	if err != nil {
		return postgres.MapError(err, "produto", p.Nome)
	}
	return nil
}

// Upsert returns the existing product for the candidate's canonical name,
// inserting the candidate only when no such product exists.
// The second return reports whether a new row was created.
func (r *Repo) Upsert(ctx context.Context, candidate *domain.Product) (*domain.Product, bool, error) {
	existing, err := r.GetByName(ctx, candidate.Nome)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	if err := r.Insert(ctx, candidate); err != nil {
		return nil, false, err
	}
	return candidate, true, nil
}
