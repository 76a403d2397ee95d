// Package station implements the GasStation repository using PostgreSQL.
// Stations are keyed by CNPJ; Upsert refreshes a whitelist of mutable fields
// (name, trade name, brand, location) and never touches anything else.
// Read queries for the API surface (Search, Statistics) are built with
// squirrel.
package station

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	postgres "github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres"
	"github.com/viniciusmartins/fuelmap-backend/internal/domain"
)

// psql builds queries with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides gas station persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new gas station repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByCNPJSQL = `
SELECT id, nome, nome_fantasia, bandeira, cnpj, ativo, localizacao_id, criado_em, atualizado_em
FROM posto_gasolina
WHERE cnpj = $1`

const insertStationSQL = `
INSERT INTO posto_gasolina (id, nome, nome_fantasia, bandeira, cnpj, ativo, localizacao_id, criado_em, atualizado_em)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`

const updateStationSQL = `
UPDATE posto_gasolina
SET nome = $2, nome_fantasia = $3, bandeira = $4, localizacao_id = $5, atualizado_em = $6
WHERE id = $1`

// GetByCNPJ returns the station with the given formatted CNPJ.
// Returns domain.ErrNotFound when absent.
func (r *Repo) GetByCNPJ(ctx context.Context, cnpj string) (*domain.GasStation, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var g domain.GasStation
	err := q.QueryRow(ctx, getByCNPJSQL, cnpj).Scan(
		&g.ID, &g.Nome, &g.NomeFantasia, &g.Bandeira, &g.CNPJ, &g.Ativo,
		&g.LocalizacaoID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "posto", domain.DigitsOnly(cnpj))
	}
	return &g, nil
}

// Insert persists a new station, assigning an id when absent.
func (r *Repo) Insert(ctx context.Context, g *domain.GasStation) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now

	_, err := q.Exec(ctx, insertStationSQL,
		g.ID, g.Nome, g.NomeFantasia, g.Bandeira, g.CNPJ, g.Ativo, g.LocalizacaoID, now)
	if err != nil {
		return postgres.MapError(err, "posto", g.UpsertKey())
	}
	return nil
}

// Upsert reconciles a candidate against persisted state. An existing
// station (by CNPJ) has its mutable fields refreshed in place; otherwise
// the candidate is inserted as-is. The second return reports whether a
// new row was created.
func (r *Repo) Upsert(ctx context.Context, candidate *domain.GasStation) (*domain.GasStation, bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	existing, err := r.GetByCNPJ(ctx, candidate.CNPJ)
	if err == nil {
		existing.Nome = candidate.Nome
		existing.NomeFantasia = candidate.NomeFantasia
		existing.Bandeira = candidate.Bandeira
		existing.LocalizacaoID = candidate.LocalizacaoID
		existing.UpdatedAt = time.Now()

		_, err := q.Exec(ctx, updateStationSQL,
			existing.ID, existing.Nome, existing.NomeFantasia, existing.Bandeira,
			existing.LocalizacaoID, existing.UpdatedAt)
		if err != nil {
			return nil, false, postgres.MapError(err, "posto", existing.UpsertKey())
		}
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

// SearchRow is one search result: a station with its resolved location.
type SearchRow struct {
	Station  domain.GasStation
	Location domain.Location
}

// SearchResult holds a page of search results with the unpaginated total.
type SearchResult struct {
	Rows   []SearchRow
	Total  int
	Limit  int
	Offset int
}

// Search returns active stations matching the filter, joined with their
// locations, ordered by municipality then name.
func (r *Repo) Search(ctx context.Context, filter Filter) (*SearchResult, error) {
	filter.normalize()
	q := postgres.QuerierFromCtx(ctx, r.pool)

	base := psql.Select().
		From("posto_gasolina gs").
		Join("localizacao l ON l.id = gs.localizacao_id").
		Where(sq.Eq{"gs.ativo": true})

	if filter.UF != nil && *filter.UF != "" {
		base = base.Where(sq.Eq{"l.uf": strings.ToUpper(strings.TrimSpace(*filter.UF))})
	}
	if filter.Municipio != nil && *filter.Municipio != "" {
		base = base.Where(sq.ILike{"l.municipio": "%" + *filter.Municipio + "%"})
	}
	if filter.Bandeira != nil && *filter.Bandeira != "" {
		base = base.Where(sq.ILike{"gs.bandeira": "%" + *filter.Bandeira + "%"})
	}
	if filter.Produto != nil && *filter.Produto != "" {
		base = base.Where(
			`EXISTS (SELECT 1 FROM historico_precos hp
			 JOIN produto p ON p.id = hp.produto_id
			 WHERE hp.posto_id = gs.id AND p.nome ILIKE ?)`,
			"%"+*filter.Produto+"%")
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count stations: %w", err)
	}

	pageSQL, pageArgs, err := base.
		Columns(
			"gs.id", "gs.nome", "gs.nome_fantasia", "gs.bandeira", "gs.cnpj",
			"gs.ativo", "gs.localizacao_id", "gs.criado_em", "gs.atualizado_em",
			"l.id", "l.uf", "l.municipio", "l.endereco", "l.numero",
			"l.complemento", "l.bairro", "l.cep", "l.criado_em", "l.atualizado_em",
		).
		OrderBy("l.municipio ASC", "gs.nome ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	rows, err := q.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("search stations: %w", err)
	}
	defer rows.Close()

	result := &SearchResult{Total: total, Limit: filter.Limit, Offset: filter.Offset}
	for rows.Next() {
		var row SearchRow
		if err := rows.Scan(
			&row.Station.ID, &row.Station.Nome, &row.Station.NomeFantasia,
			&row.Station.Bandeira, &row.Station.CNPJ, &row.Station.Ativo,
			&row.Station.LocalizacaoID, &row.Station.CreatedAt, &row.Station.UpdatedAt,
			&row.Location.ID, &row.Location.UF, &row.Location.Municipio,
			&row.Location.Endereco, &row.Location.Numero, &row.Location.Complemento,
			&row.Location.Bairro, &row.Location.CEP, &row.Location.CreatedAt,
			&row.Location.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan station row: %w", err)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search stations: %w", err)
	}

	return result, nil
}

// StateCount is the number of stations in one state.
type StateCount struct {
	UF    string
	Total int
}

// ProductPriceStats aggregates observed prices for one product.
type ProductPriceStats struct {
	Produto    string
	Total      int
	PrecoMedio decimal.Decimal
	PrecoMin   decimal.Decimal
	PrecoMax   decimal.Decimal
}

// Statistics is the aggregate view over stations and price history.
type Statistics struct {
	TotalStations int
	ByState       []StateCount
	ByProduct     []ProductPriceStats
	LastUpdate    *time.Time
}

// Statistics computes station totals by state, per-product price aggregates,
// and the most recent collection date.
func (r *Repo) Statistics(ctx context.Context) (*Statistics, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	stats := &Statistics{}

	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM posto_gasolina`).Scan(&stats.TotalStations); err != nil {
		return nil, fmt.Errorf("count stations: %w", err)
	}

	byStateSQL, byStateArgs, err := psql.
		Select("l.uf", "COUNT(*) AS total").
		From("posto_gasolina gs").
		Join("localizacao l ON l.id = gs.localizacao_id").
		GroupBy("l.uf").
		OrderBy("total DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build state stats query: %w", err)
	}

	rows, err := q.Query(ctx, byStateSQL, byStateArgs...)
	if err != nil {
		return nil, fmt.Errorf("stats by state: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sc StateCount
		if err := rows.Scan(&sc.UF, &sc.Total); err != nil {
			return nil, fmt.Errorf("scan state stats: %w", err)
		}
		stats.ByState = append(stats.ByState, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats by state: %w", err)
	}

	byProductSQL, byProductArgs, err := psql.
		Select(
			"p.nome",
			"COUNT(*) AS total",
			"ROUND(AVG(hp.preco_venda), 3)",
			"MIN(hp.preco_venda)",
			"MAX(hp.preco_venda)",
		).
		From("historico_precos hp").
		Join("produto p ON p.id = hp.produto_id").
		Where("hp.preco_venda IS NOT NULL").
		GroupBy("p.nome").
		OrderBy("total DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product stats query: %w", err)
	}

	productRows, err := q.Query(ctx, byProductSQL, byProductArgs...)
	if err != nil {
		return nil, fmt.Errorf("stats by product: %w", err)
	}
	defer productRows.Close()
	for productRows.Next() {
		var ps ProductPriceStats
		if err := productRows.Scan(&ps.Produto, &ps.Total, &ps.PrecoMedio, &ps.PrecoMin, &ps.PrecoMax); err != nil {
			return nil, fmt.Errorf("scan product stats: %w", err)
		}
		stats.ByProduct = append(stats.ByProduct, ps)
	}
	if err := productRows.Err(); err != nil {
		return nil, fmt.Errorf("stats by product: %w", err)
	}

	if err := q.QueryRow(ctx, `SELECT MAX(data_coleta) FROM historico_precos`).Scan(&stats.LastUpdate); err != nil {
		return nil, fmt.Errorf("last update: %w", err)
	}

	return stats, nil
}
