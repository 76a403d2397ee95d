package domain

import "testing"

func TestValidCNPJ(t *testing.T) {
	tests := []struct {
		name string
		cnpj string
		want bool
	}{
		{name: "valid formatted", cnpj: "11.222.333/0001-81", want: true},
		{name: "valid digits only", cnpj: "11222333000181", want: true},
		{name: "valid with leading zeros", cnpj: "00.000.000/0001-91", want: true},
		{name: "wrong first check digit", cnpj: "11.222.333/0001-71", want: false},
		{name: "wrong second check digit", cnpj: "11.222.333/0001-80", want: false},
		{name: "all identical digits", cnpj: "11.111.111/1111-11", want: false},
		{name: "too short", cnpj: "1122233300018", want: false},
		{name: "too long", cnpj: "112223330001811", want: false},
		{name: "empty", cnpj: "", want: false},
		{name: "letters", cnpj: "aa.bbb.ccc/dddd-ee", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidCNPJ(tt.cnpj); got != tt.want {
				t.Errorf("ValidCNPJ(%q) = %v, want %v", tt.cnpj, got, tt.want)
			}
		})
	}
}

func TestFormatCNPJ(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "digits to formatted", in: "11222333000181", want: "11.222.333/0001-81"},
		{name: "already formatted", in: "11.222.333/0001-81", want: "11.222.333/0001-81"},
		{name: "short input stays digits", in: "123", want: "123"},
		{name: "strips stray characters", in: " 11222333000181 ", want: "11.222.333/0001-81"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCNPJ(tt.in); got != tt.want {
				t.Errorf("FormatCNPJ(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGasStationUpsertKey(t *testing.T) {
	g := GasStation{CNPJ: "11.222.333/0001-81"}
	if got := g.UpsertKey(); got != "11222333000181" {
		t.Errorf("UpsertKey() = %q, want digits only", got)
	}
}

func TestGasStationDisplayName(t *testing.T) {
	fantasia := "POSTO CENTRAL"
	g := GasStation{Nome: "CENTRAL COMBUSTIVEIS LTDA", NomeFantasia: &fantasia}
	if got := g.DisplayName(); got != "POSTO CENTRAL (CENTRAL COMBUSTIVEIS LTDA)" {
		t.Errorf("DisplayName() = %q", got)
	}

	plain := GasStation{Nome: "CENTRAL COMBUSTIVEIS LTDA"}
	if got := plain.DisplayName(); got != "CENTRAL COMBUSTIVEIS LTDA" {
		t.Errorf("DisplayName() without fantasia = %q", got)
	}
}
