package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/viniciusmartins/fuelmap-backend/internal/domain"
)

// dateLayout is the report's collection date format (MM/DD/YYYY).
const dateLayout = "01/02/2006"

// ValidateRow checks one data row and returns every applicable error message.
// It never short-circuits, so operators see the full picture for a bad row.
// An empty slice means the row is accepted.
func ValidateRow(row Row) []string {
	var errs []string

	if strings.TrimSpace(row.CNPJ) == "" {
		errs = append(errs, "CNPJ é obrigatório")
	} else if !domain.ValidCNPJ(row.CNPJ) {
		errs = append(errs, "CNPJ inválido")
	}

	if strings.TrimSpace(row.Razao) == "" {
		errs = append(errs, "Razão social é obrigatória")
	}
	if strings.TrimSpace(row.Municipio) == "" {
		errs = append(errs, "Município é obrigatório")
	}
	if strings.TrimSpace(row.Estado) == "" {
		errs = append(errs, "Estado é obrigatório")
	}
	if strings.TrimSpace(row.Produto) == "" {
		errs = append(errs, "Produto é obrigatório")
	}

	if strings.TrimSpace(row.PrecoRevenda) == "" {
		errs = append(errs, "Preço de revenda é obrigatório")
	} else if price, err := ParsePrice(row.PrecoRevenda); err != nil || !price.IsPositive() {
		errs = append(errs, "Preço de revenda inválido")
	}

	if strings.TrimSpace(row.DataColeta) == "" {
		errs = append(errs, "Data da coleta é obrigatória")
	} else if _, err := ParseDate(row.DataColeta); err != nil {
		errs = append(errs, "Data da coleta inválida")
	}

	return errs
}

// ParsePrice parses a report price, which uses a comma as the decimal
// separator ("5,59").
func ParsePrice(s string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	price, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", s, err)
	}
	return price, nil
}

// ParseDate parses a report collection date (MM/DD/YYYY) at date precision.
func ParseDate(s string) (time.Time, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return date, nil
}
