package sync

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one data line of the ANP resale price report. Field names mirror
// the report's fixed 15-column header.
type Row struct {
	CNPJ          string
	Razao         string
	Fantasia      string
	Endereco      string
	Numero        string
	Complemento   string
	Bairro        string
	CEP           string
	Municipio     string
	Estado        string
	Bandeira      string
	Produto       string
	UnidadeMedida string
	PrecoRevenda  string
	DataColeta    string
}

// boilerplateFragments mark rows the regulator embeds between data blocks
// (repeated titles, section headers). Such rows are not data and are dropped
// before validation.
var boilerplateFragments = []string{
	"AGÊNCIA NACIONAL",
	"SUPERINTENDÊNCIA",
}

// ReadFile parses an ANP CSV report. The header row is matched by trimmed
// column name, so files with reordered or extra columns still load. Rows
// whose CNPJ field is empty or contains regulator boilerplate are discarded
// here and never counted.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()

	return readRows(f)
}

func readRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ANP files carry ragged boilerplate lines

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}

		row := Row{
			CNPJ:          field(record, "CNPJ"),
			Razao:         field(record, "RAZAO"),
			Fantasia:      field(record, "FANTASIA"),
			Endereco:      field(record, "ENDERECO"),
			Numero:        field(record, "NUMERO"),
			Complemento:   field(record, "COMPLEMENTO"),
			Bairro:        field(record, "BAIRRO"),
			CEP:           field(record, "CEP"),
			Municipio:     field(record, "MUNICIPIO"),
			Estado:        field(record, "ESTADO"),
			Bandeira:      field(record, "BANDEIRA"),
			Produto:       field(record, "PRODUTO"),
			UnidadeMedida: field(record, "UNIDADE DE MEDIDA"),
			PrecoRevenda:  field(record, "PREÇO DE REVENDA"),
			DataColeta:    field(record, "DATA DA COLETA"),
		}

		if isBoilerplate(row) {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func isBoilerplate(row Row) bool {
	if strings.TrimSpace(row.CNPJ) == "" {
		return true
	}
	for _, fragment := range boilerplateFragments {
		if strings.Contains(row.CNPJ, fragment) {
			return true
		}
	}
	return false
}
