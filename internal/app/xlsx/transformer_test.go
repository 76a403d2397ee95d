package xlsx

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	return path
}

func TestConvert(t *testing.T) {
	path := writeXLSX(t, [][]string{
		{"CNPJ", "RAZAO", "PRODUTO"},
		{"11.222.333/0001-81", "POSTO ALFA", "GASOLINA COMUM"},
		{"11.444.777/0001-61", "POSTO GAMA", "ETANOL"},
	})

	tr := New(testLogger(), Config{TempDir: t.TempDir()})
	result, err := tr.Convert(path, "report.xlsx")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	defer tr.Cleanup(result.TempFiles...)

	if result.RowCount != 2 {
		t.Errorf("RowCount = %d, want 2", result.RowCount)
	}
	if result.ColumnCount != 3 {
		t.Errorf("ColumnCount = %d, want 3", result.ColumnCount)
	}
	if len(result.Headers) != 3 || result.Headers[0] != "CNPJ" {
		t.Errorf("Headers = %v", result.Headers)
	}

	content, err := os.ReadFile(result.CSVPath)
	if err != nil {
		t.Fatalf("read converted csv: %v", err)
	}
	if !strings.Contains(string(content), "POSTO ALFA") {
		t.Errorf("converted csv missing data: %s", content)
	}
}

func TestConvertRejectsUnknownExtension(t *testing.T) {
	tr := New(testLogger(), Config{TempDir: t.TempDir()})
	if _, err := tr.Convert("/tmp/whatever.pdf", "whatever.pdf"); err == nil {
		t.Error("expected extension error")
	}
}

func TestConvertRejectsOversizedFile(t *testing.T) {
	path := writeXLSX(t, [][]string{{"A"}, {"1"}})
	tr := New(testLogger(), Config{TempDir: t.TempDir(), MaxFileSize: 10})
	if _, err := tr.Convert(path, "report.xlsx"); err == nil {
		t.Error("expected size limit error")
	}
}

func TestValidateCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")
	content := strings.Join([]string{
		"CNPJ,RAZAO,PRODUTO",
		"11.222.333/0001-81,POSTO ALFA,GASOLINA COMUM",
		"11.222.333/0001-81,POSTO ALFA,GASOLINA COMUM",
		",,",
		"11.444.777/0001-61,POSTO GAMA",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	tr := New(testLogger(), Config{})
	result := tr.ValidateCSV(path, []string{"CNPJ", "RAZAO", "PRODUTO"})

	if result.IsValid {
		t.Error("column-count mismatch should invalidate the file")
	}
	if result.RowCount != 4 {
		t.Errorf("RowCount = %d, want 4", result.RowCount)
	}
	if result.DuplicateRows != 1 {
		t.Errorf("DuplicateRows = %d, want 1", result.DuplicateRows)
	}
	if result.EmptyRows != 1 {
		t.Errorf("EmptyRows = %d, want 1", result.EmptyRows)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Linha 5") {
		t.Errorf("Errors = %v", result.Errors)
	}
}

func TestValidateCSVMissingHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")
	if err := os.WriteFile(path, []byte("A,B\n1,2\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	tr := New(testLogger(), Config{})
	result := tr.ValidateCSV(path, []string{"CNPJ"})
	if result.IsValid {
		t.Error("missing required header should invalidate the file")
	}
}

func TestValidateCSVMissingFile(t *testing.T) {
	tr := New(testLogger(), Config{})
	result := tr.ValidateCSV("/nonexistent.csv", nil)
	if result.IsValid {
		t.Error("missing file should be invalid")
	}
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "temp.csv")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tr := New(testLogger(), Config{})
	tr.Cleanup(path, "/nonexistent/file.csv")

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("temp file should be removed")
	}
}
