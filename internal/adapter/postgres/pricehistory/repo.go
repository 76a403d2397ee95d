// Package pricehistory implements the PriceRecord repository using PostgreSQL.
// Price records are append-only: a key that already exists in the table is
// never rewritten, so re-ingesting a report leaves earlier collections intact.
package pricehistory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres"
	"github.com/viniciusmartins/fuelmap-backend/internal/domain"
)

// Repo provides price history persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new price history repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const existingKeysSQL = `
SELECT posto_id, produto_id, data_coleta
FROM historico_precos
WHERE (posto_id, produto_id, data_coleta) IN (
	SELECT unnest($1::uuid[]), unnest($2::uuid[]), unnest($3::date[])
)`

const insertPriceSQL = `
INSERT INTO historico_precos (id, posto_id, produto_id, preco_venda, data_coleta, ativo, criado_em, atualizado_em)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (posto_id, produto_id, data_coleta) DO NOTHING`

// ExistingKeys returns the subset of the candidates' upsert keys that are
// already stored, resolved in a single round trip via unnested arrays.
func (r *Repo) ExistingKeys(ctx context.Context, candidates []*domain.PriceRecord) (map[string]struct{}, error) {
	keys := make(map[string]struct{}, len(candidates))
	if len(candidates) == 0 {
		return keys, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	postoIDs := make([]uuid.UUID, len(candidates))
	produtoIDs := make([]uuid.UUID, len(candidates))
	dates := make([]time.Time, len(candidates))
	for i, c := range candidates {
		postoIDs[i] = c.PostoID
		produtoIDs[i] = c.ProdutoID
		dates[i] = c.DataColeta
	}

	rows, err := q.Query(ctx, existingKeysSQL, postoIDs, produtoIDs, dates)
	if err != nil {
		return nil, fmt.Errorf("query existing price keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postoID, produtoID uuid.UUID
		var dataColeta time.Time
		if err := rows.Scan(&postoID, &produtoID, &dataColeta); err != nil {
			return nil, fmt.Errorf("scan existing price key: %w", err)
		}
		keys[domain.PriceKey(postoID, produtoID, dataColeta)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query existing price keys: %w", err)
	}

	return keys, nil
}

// BulkInsert writes the records in a single pipelined batch and returns how
// many rows were actually inserted. Conflicting keys are skipped by the
// database, so the count may be lower than len(records).
func (r *Repo) BulkInsert(ctx context.Context, records []*domain.PriceRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now()
	batch := &pgx.Batch{}
	for _, rec := range records {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		rec.CreatedAt = now
		rec.UpdatedAt = now
		batch.Queue(insertPriceSQL,
			rec.ID, rec.PostoID, rec.ProdutoID, rec.PrecoVenda, rec.DataColeta, rec.Ativo, now)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := range records {
		tag, err := results.Exec()
		if err != nil {
			return inserted, postgres.MapError(err, "historico_precos", records[i].UpsertKey())
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}
