// Package xlsx converts ANP spreadsheet reports into CSV files the sync
// pipeline can read, and validates CSV content before a run.
package xlsx

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Config holds transformer limits and locations.
type Config struct {
	// TempDir receives converted CSV files.
	TempDir string
	// MaxFileSize caps accepted spreadsheets, in bytes.
	MaxFileSize int64
}

// Transformer converts spreadsheets to CSV and validates CSV structure.
type Transformer struct {
	log *slog.Logger
	cfg Config
}

// New creates a Transformer. Zero config fields fall back to /tmp and 50 MB.
func New(log *slog.Logger, cfg Config) *Transformer {
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 50 * 1024 * 1024
	}
	return &Transformer{log: log, cfg: cfg}
}

// ConvertResult describes a successful XLSX to CSV conversion.
type ConvertResult struct {
	CSVPath      string   `json:"csvPath"`
	OriginalName string   `json:"originalName"`
	RowCount     int      `json:"rowCount"`
	ColumnCount  int      `json:"columnCount"`
	Headers      []string `json:"headers"`
	FileSize     int64    `json:"fileSize"`
	TempFiles    []string `json:"-"`
}

// ValidationResult describes structural CSV checks: required headers, column
// counts, empty and duplicate lines.
type ValidationResult struct {
	IsValid       bool     `json:"isValid"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	RowCount      int      `json:"rowCount"`
	EmptyRows     int      `json:"emptyRows"`
	DuplicateRows int      `json:"duplicateRows"`
}

// Convert reads the first sheet of an XLSX file and writes it as a CSV file
// with a unique name under TempDir.
func (t *Transformer) Convert(xlsxPath, originalName string) (*ConvertResult, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext != ".xlsx" && ext != ".xls" {
		return nil, fmt.Errorf("unsupported file extension %q", ext)
	}

	info, err := os.Stat(xlsxPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", xlsxPath, err)
	}
	if info.Size() > t.cfg.MaxFileSize {
		return nil, fmt.Errorf("file %s exceeds size limit (%d > %d bytes)",
			originalName, info.Size(), t.cfg.MaxFileSize)
	}

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", originalName, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", originalName)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no data", originalName)
	}

	headers := rows[0]
	columnCount := len(headers)

	csvName := fmt.Sprintf("%d_%s.csv", time.Now().UnixMilli(),
		strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName)))
	csvPath := filepath.Join(t.cfg.TempDir, csvName)

	out, err := os.Create(csvPath)
	if err != nil {
		return nil, fmt.Errorf("create csv %s: %w", csvPath, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	for _, row := range rows {
		// Pad short rows so every record has the header's width.
		if len(row) < columnCount {
			padded := make([]string, columnCount)
			copy(padded, row)
			row = padded
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	var nonEmptyHeaders []string
	for _, h := range headers {
		if strings.TrimSpace(h) != "" {
			nonEmptyHeaders = append(nonEmptyHeaders, h)
		}
	}

	t.log.Info("spreadsheet converted",
		slog.String("original", originalName),
		slog.String("csv", csvPath),
		slog.Int("rows", len(rows)-1),
	)

	return &ConvertResult{
		CSVPath:      csvPath,
		OriginalName: originalName,
		RowCount:     len(rows) - 1,
		ColumnCount:  columnCount,
		Headers:      nonEmptyHeaders,
		FileSize:     info.Size(),
		TempFiles:    []string{csvPath},
	}, nil
}

// ValidateCSV checks a CSV file's structure. It never fails hard: problems
// land in the result's Errors and Warnings.
func (t *Transformer) ValidateCSV(csvPath string, requiredHeaders []string) *ValidationResult {
	result := &ValidationResult{IsValid: true, Errors: []string{}, Warnings: []string{}}

	content, err := os.ReadFile(csvPath)
	if err != nil {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Erro na validação: %v", err))
		return result
	}

	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		result.IsValid = false
		result.Errors = append(result.Errors, "Arquivo CSV está vazio")
		return result
	}

	headers := splitCSVLine(lines[0])
	dataLines := lines[1:]
	result.RowCount = len(dataLines)

	for _, required := range requiredHeaders {
		if !containsHeader(headers, required) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Headers obrigatórios ausentes: %s", required))
		}
	}

	seen := make(map[string]struct{}, len(dataLines))
	for i, line := range dataLines {
		rowIndex := i + 2 // 1-based, after the header
		cells := splitCSVLine(line)

		if allEmpty(cells) {
			result.EmptyRows++
			result.Warnings = append(result.Warnings, fmt.Sprintf("Linha %d está vazia", rowIndex))
			continue
		}

		key := strings.ToLower(strings.Join(cells, "|"))
		if _, dup := seen[key]; dup {
			result.DuplicateRows++
			result.Warnings = append(result.Warnings, fmt.Sprintf("Linha %d é duplicata", rowIndex))
		} else {
			seen[key] = struct{}{}
		}

		if len(cells) != len(headers) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Linha %d: número de colunas (%d) não corresponde aos headers (%d)",
					rowIndex, len(cells), len(headers)))
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// Cleanup removes transient files, best effort. Intended to run after the
// pipeline result is returned, independent of the run's outcome.
func (t *Transformer) Cleanup(paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			t.log.Warn("could not remove temp file",
				slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		t.log.Info("temp file removed", slog.String("path", path))
	}
}

// splitCSVLine splits one CSV line honoring double quotes. Good enough for
// structural validation; the pipeline itself uses encoding/csv.
func splitCSVLine(line string) []string {
	var cells []string
	var cell strings.Builder
	inQuotes := false
	for _, r := range strings.TrimRight(line, "\r") {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			cells = append(cells, cell.String())
			cell.Reset()
		default:
			cell.WriteRune(r)
		}
	}
	cells = append(cells, cell.String())
	return cells
}

func containsHeader(headers []string, want string) bool {
	for _, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
