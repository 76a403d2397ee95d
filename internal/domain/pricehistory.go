package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceRecord is one observed resale price for a station/product on a
// collection date. Records are append-only: the pipeline never deletes or
// rewrites stored history.
type PriceRecord struct {
	ID         uuid.UUID
	DataColeta time.Time // date precision
	PrecoVenda *decimal.Decimal
	PostoID    uuid.UUID
	ProdutoID  uuid.UUID
	Ativo      bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UpsertKey returns the natural key {station}|{product}|{ISO date}.
// At most one record may exist per key.
func (p *PriceRecord) UpsertKey() string {
	return PriceKey(p.PostoID, p.ProdutoID, p.DataColeta)
}

// PriceKey builds a price-record natural key from its parts.
func PriceKey(postoID, produtoID uuid.UUID, dataColeta time.Time) string {
	return postoID.String() + "|" + produtoID.String() + "|" + dataColeta.Format("2006-01-02")
}

// Valid reports whether the record can be persisted. A price observation is
// only meaningful when a price is present.
func (p *PriceRecord) Valid() bool {
	return p.PostoID != uuid.Nil &&
		p.ProdutoID != uuid.Nil &&
		!p.DataColeta.IsZero() &&
		p.PrecoVenda != nil
}

// PriceVariation returns the absolute difference to a previous record, or
// nil when either side has no price.
func (p *PriceRecord) PriceVariation(previous *PriceRecord) *decimal.Decimal {
	if previous == nil || p.PrecoVenda == nil || previous.PrecoVenda == nil {
		return nil
	}
	diff := p.PrecoVenda.Sub(*previous.PrecoVenda).Round(3)
	return &diff
}
