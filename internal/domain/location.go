package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Location is a normalized address shared by gas stations.
// Many stations may reference the same location row.
type Location struct {
	ID          uuid.UUID
	UF          string // always 2 letters
	Municipio   string
	Endereco    *string
	Numero      *string
	Complemento *string
	Bairro      *string
	CEP         *string // formatted NNNNN-NNN
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LocationKey is the natural key used to deduplicate locations inside one
// ingestion batch: uppercased, trimmed parts joined with "|", empty parts
// omitted. Deterministic for any two Locations built from the same row.
func (l *Location) LocationKey() string {
	parts := []string{
		strings.ToUpper(strings.TrimSpace(l.UF)),
		strings.ToUpper(strings.TrimSpace(l.Municipio)),
		upperOrEmpty(l.Endereco),
		trimOrEmpty(l.Numero),
		upperOrEmpty(l.Bairro),
		l.cepDigits(),
	}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "|")
}

// SimilarTo reports whether two locations describe the same place and may
// be merged. UF and municipio must match; beyond that, either street and
// number match (postal code breaks number ties) or, when street data is
// missing, the postal codes match.
func (l *Location) SimilarTo(other *Location) bool {
	if !strings.EqualFold(strings.TrimSpace(l.UF), strings.TrimSpace(other.UF)) ||
		!strings.EqualFold(strings.TrimSpace(l.Municipio), strings.TrimSpace(other.Municipio)) {
		return false
	}

	if l.Endereco != nil && other.Endereco != nil {
		sameStreet := upperOrEmpty(l.Endereco) == upperOrEmpty(other.Endereco)
		sameNumber := upperOrEmpty(l.Numero) == upperOrEmpty(other.Numero)
		sameCEP := l.cepDigits() == other.cepDigits()
		return sameStreet && (sameNumber || sameCEP)
	}

	if l.CEP != nil || other.CEP != nil {
		return l.cepDigits() == other.cepDigits()
	}

	return false
}

// Valid reports whether the location satisfies its invariants: a two-letter
// UF and a non-empty municipio.
func (l *Location) Valid() bool {
	return len(strings.TrimSpace(l.UF)) == 2 && strings.TrimSpace(l.Municipio) != ""
}

// FullAddress renders the location as a single display line.
func (l *Location) FullAddress() string {
	var parts []string
	for _, p := range []*string{l.Endereco, l.Numero, l.Complemento, l.Bairro} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	parts = append(parts, l.Municipio, l.UF)
	if l.CEP != nil && *l.CEP != "" {
		parts = append(parts, *l.CEP)
	}
	return strings.Join(parts, ", ")
}

func (l *Location) cepDigits() string {
	if l.CEP == nil {
		return ""
	}
	return DigitsOnly(*l.CEP)
}

// FormatCEP normalizes a postal code to NNNNN-NNN. Returns "" when the
// input does not contain exactly 8 digits.
func FormatCEP(cep string) string {
	digits := DigitsOnly(cep)
	if len(digits) != 8 {
		return ""
	}
	return digits[:5] + "-" + digits[5:]
}

// DigitsOnly strips every non-digit rune.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func upperOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(*s))
}

func trimOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
