package sync

import (
	"strings"

	"github.com/google/uuid"

	"github.com/viniciusmartins/fuelmap-backend/internal/domain"
)

// Candidate factories. Each is a pure function from a validated row to a
// domain record with trimmed, uppercased, format-normalized fields, so two
// calls on the same row always produce equal natural keys.

// NewLocation builds a location candidate. The state column may carry either
// a full state name or a 2-letter code.
func NewLocation(row Row) *domain.Location {
	return &domain.Location{
		UF:          domain.StateCode(row.Estado),
		Municipio:   strings.ToUpper(strings.TrimSpace(row.Municipio)),
		Endereco:    optional(row.Endereco),
		Numero:      optional(row.Numero),
		Complemento: optional(row.Complemento),
		Bairro:      optional(row.Bairro),
		CEP:         optional(domain.FormatCEP(row.CEP)),
	}
}

// NewProduct builds a product candidate with the canonical name as key.
// The report's unit column wins over the inferred unit when present.
func NewProduct(row Row) *domain.Product {
	unidade := strings.TrimSpace(row.UnidadeMedida)
	if unidade == "" {
		unidade = domain.ProductUnit(row.Produto)
	}
	return &domain.Product{
		Nome:          domain.CanonicalProductName(row.Produto),
		Categoria:     domain.ProductCategory(row.Produto),
		UnidadeMedida: unidade,
		Ativo:         true,
	}
}

// NewStation builds a station candidate. LocalizacaoID is zero until the
// location phase resolves it.
func NewStation(row Row) *domain.GasStation {
	return &domain.GasStation{
		Nome:         strings.ToUpper(strings.TrimSpace(row.Razao)),
		NomeFantasia: optional(row.Fantasia),
		Bandeira:     optional(row.Bandeira),
		CNPJ:         domain.FormatCNPJ(row.CNPJ),
		Ativo:        true,
	}
}

// NewPriceRecord builds a price observation for an already-resolved station
// and product. The row must have passed validation.
func NewPriceRecord(row Row, postoID, produtoID uuid.UUID) *domain.PriceRecord {
	record := &domain.PriceRecord{
		PostoID:   postoID,
		ProdutoID: produtoID,
		Ativo:     true,
	}
	if date, err := ParseDate(row.DataColeta); err == nil {
		record.DataColeta = date
	}
	if price, err := ParsePrice(row.PrecoRevenda); err == nil {
		record.PrecoVenda = &price
	}
	return record
}

func optional(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
