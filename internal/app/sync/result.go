package sync

import (
	"fmt"
	"strings"
)

// EntityCounters tracks the outcome of one entity kind over a run.
type EntityCounters struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Result is the sole contract a run exposes to callers. Recoverable
// problems land in Errors; a run that returns a Result committed (or, in
// dry-run mode, never wrote).
type Result struct {
	TotalRows      int            `json:"totalRows"`
	ProcessedRows  int            `json:"processedRows"`
	SkippedRows    int            `json:"skippedRows"`
	DuplicatedRows int            `json:"duplicatedRows"`
	Errors         []string       `json:"errors"`
	GasStations    EntityCounters `json:"gasStations"`
	Products       EntityCounters `json:"products"`
	Localizations  EntityCounters `json:"localizations"`
	PriceHistories EntityCounters `json:"priceHistories"`
}

// maxSummaryErrors bounds how many error lines Summary prints.
const maxSummaryErrors = 5

// Summary renders the result as a short human-readable report.
func (r *Result) Summary() string {
	lines := []string{
		"Processamento concluído",
		fmt.Sprintf("Total de linhas: %d", r.TotalRows),
		fmt.Sprintf("Processadas: %d", r.ProcessedRows),
		fmt.Sprintf("Ignoradas: %d", r.SkippedRows),
		fmt.Sprintf("Duplicadas: %d", r.DuplicatedRows),
		"",
		fmt.Sprintf("Localizações: %d criadas", r.Localizations.Created),
		fmt.Sprintf("Postos: %d criados, %d atualizados", r.GasStations.Created, r.GasStations.Updated),
		fmt.Sprintf("Produtos: %d criados", r.Products.Created),
		fmt.Sprintf("Preços: %d novos registros", r.PriceHistories.Created),
	}

	if len(r.Errors) > 0 {
		lines = append(lines, "", fmt.Sprintf("Erros encontrados: %d", len(r.Errors)))
		shown := r.Errors
		if len(shown) > maxSummaryErrors {
			shown = shown[:maxSummaryErrors]
		}
		lines = append(lines, shown...)
		if extra := len(r.Errors) - maxSummaryErrors; extra > 0 {
			lines = append(lines, fmt.Sprintf("... e mais %d erros", extra))
		}
	}

	return strings.Join(lines, "\n")
}
