package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GasStation is a fuel retail point identified by its CNPJ.
// The normalized (digits-only) CNPJ is the natural key.
type GasStation struct {
	ID            uuid.UUID
	Nome          string
	NomeFantasia  *string
	Bandeira      *string
	CNPJ          string // formatted NN.NNN.NNN/NNNN-NN
	Ativo         bool
	LocalizacaoID uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UpsertKey returns the natural key: the CNPJ reduced to digits.
func (g *GasStation) UpsertKey() string {
	return DigitsOnly(g.CNPJ)
}

// Valid reports whether the station can be persisted: non-empty name,
// check-digit-valid CNPJ, and a resolved location id.
func (g *GasStation) Valid() bool {
	return strings.TrimSpace(g.Nome) != "" &&
		ValidCNPJ(g.CNPJ) &&
		g.LocalizacaoID != uuid.Nil
}

// DisplayName prefers the trade name, falling back to the legal name.
func (g *GasStation) DisplayName() string {
	if g.NomeFantasia != nil && *g.NomeFantasia != "" && *g.NomeFantasia != g.Nome {
		return *g.NomeFantasia + " (" + g.Nome + ")"
	}
	return g.Nome
}

// cnpjWeights1/2 are the mod-11 weight vectors for the two check digits.
var (
	cnpjWeights1 = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidCNPJ runs the Brazilian 14-digit check-digit algorithm: two weighted
// mod-11 passes over the first 12 and 13 digits. Strings of one repeated
// digit (e.g. 11.111.111/1111-11) are rejected outright.
func ValidCNPJ(cnpj string) bool {
	digits := DigitsOnly(cnpj)
	if len(digits) != 14 {
		return false
	}
	if allSameDigit(digits) {
		return false
	}

	if checkDigit(digits[:12], cnpjWeights1[:]) != int(digits[12]-'0') {
		return false
	}
	return checkDigit(digits[:13], cnpjWeights2[:]) == int(digits[13]-'0')
}

// FormatCNPJ renders a 14-digit CNPJ as NN.NNN.NNN/NNNN-NN. Inputs with a
// different digit count are returned digits-only, unformatted.
func FormatCNPJ(cnpj string) string {
	digits := DigitsOnly(cnpj)
	if len(digits) != 14 {
		return digits
	}
	return digits[:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:]
}

func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, r := range digits {
		sum += int(r-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
