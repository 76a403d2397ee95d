package domain

import "strings"

// ufBySiglaOuNome maps full Brazilian state names (uppercased) to their
// two-letter UF codes. The ANP report carries either form depending on the
// publication.
var ufByNome = map[string]string{
	"ACRE":                "AC",
	"ALAGOAS":             "AL",
	"AMAPÁ":               "AP",
	"AMAZONAS":            "AM",
	"BAHIA":               "BA",
	"CEARÁ":               "CE",
	"DISTRITO FEDERAL":    "DF",
	"ESPÍRITO SANTO":      "ES",
	"GOIÁS":               "GO",
	"MARANHÃO":            "MA",
	"MATO GROSSO":         "MT",
	"MATO GROSSO DO SUL":  "MS",
	"MINAS GERAIS":        "MG",
	"PARÁ":                "PA",
	"PARAÍBA":             "PB",
	"PARANÁ":              "PR",
	"PERNAMBUCO":          "PE",
	"PIAUÍ":               "PI",
	"RIO DE JANEIRO":      "RJ",
	"RIO GRANDE DO NORTE": "RN",
	"RIO GRANDE DO SUL":   "RS",
	"RONDÔNIA":            "RO",
	"RORAIMA":             "RR",
	"SANTA CATARINA":      "SC",
	"SÃO PAULO":           "SP",
	"SERGIPE":             "SE",
	"TOCANTINS":           "TO",
}

// StateCode resolves a state field to its two-letter UF code.
// Accepts either a full state name ("SÃO PAULO") or an UF that is already
// two letters ("SP"). Returns "" when the value matches neither.
func StateCode(estado string) string {
	normalized := strings.ToUpper(strings.TrimSpace(estado))
	if uf, ok := ufByNome[normalized]; ok {
		return uf
	}
	if len(normalized) == 2 {
		return normalized
	}
	return ""
}
