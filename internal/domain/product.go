package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product categories, in keyword-match priority order.
const (
	CategoriaGLP          = "GLP"
	CategoriaGNV          = "GNV"
	CategoriaLubrificante = "LUBRIFICANTE"
	CategoriaCombustivel  = "COMBUSTÍVEL"
)

// Default units of measure per category.
const (
	UnidadeBotijao = "13 kg"
	UnidadeM3      = "m³"
	UnidadeLitro   = "litro"
)

// productSynonyms folds the spellings the ANP report uses for the same
// product into one canonical name.
var productSynonyms = map[string]string{
	"ALCOOL":         "ETANOL",
	"ÁLCOOL":         "ETANOL",
	"GAS LIQUEFEITO": "GLP",
	"GÁS LIQUEFEITO": "GLP",
	"GAS NATURAL":    "GNV",
	"GÁS NATURAL":    "GNV",
	"OLEO DIESEL":    "DIESEL",
	"ÓLEO DIESEL":    "DIESEL",
}

// Product is a fuel product sold by gas stations. The canonical name is the
// natural key; a product is immutable once created.
type Product struct {
	ID            uuid.UUID
	Nome          string
	Categoria     string
	UnidadeMedida string
	Ativo         bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanonicalProductName trims, uppercases, and folds known synonyms
// ("ÁLCOOL" → "ETANOL").
func CanonicalProductName(nome string) string {
	normalized := strings.ToUpper(strings.TrimSpace(nome))
	if canonical, ok := productSynonyms[normalized]; ok {
		return canonical
	}
	return normalized
}

// ProductCategory infers the category from the canonical name.
// Priority: GLP, GNV, LUBRIFICANTE, then COMBUSTÍVEL as the default.
func ProductCategory(nome string) string {
	name := CanonicalProductName(nome)
	switch {
	case strings.Contains(name, "GLP") || strings.Contains(name, "GÁS"):
		return CategoriaGLP
	case strings.Contains(name, "GNV"):
		return CategoriaGNV
	case strings.Contains(name, "LUBRIFICANTE") || strings.Contains(name, "ÓLEO"):
		return CategoriaLubrificante
	default:
		return CategoriaCombustivel
	}
}

// ProductUnit infers the unit of measure when the report omits it:
// 13 kg bottles for GLP, m³ for GNV, liters for everything else.
func ProductUnit(nome string) string {
	name := CanonicalProductName(nome)
	switch {
	case strings.Contains(name, "GLP"):
		return UnidadeBotijao
	case strings.Contains(name, "GNV"):
		return UnidadeM3
	default:
		return UnidadeLitro
	}
}

// Valid reports whether all required product fields are set.
func (p *Product) Valid() bool {
	return strings.TrimSpace(p.Nome) != "" &&
		strings.TrimSpace(p.Categoria) != "" &&
		strings.TrimSpace(p.UnidadeMedida) != ""
}
