package domain

import "testing"

func TestCanonicalProductName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ALCOOL", "ETANOL"},
		{"ÁLCOOL", "ETANOL"},
		{"etanol", "ETANOL"},
		{"  Gasolina Comum  ", "GASOLINA COMUM"},
		{"GÁS LIQUEFEITO", "GLP"},
		{"GAS NATURAL", "GNV"},
		{"ÓLEO DIESEL", "DIESEL"},
		{"OLEO DIESEL", "DIESEL"},
		{"DIESEL S10", "DIESEL S10"},
	}

	for _, tt := range tests {
		if got := CanonicalProductName(tt.in); got != tt.want {
			t.Errorf("CanonicalProductName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProductCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"GLP", CategoriaGLP},
		{"GÁS LIQUEFEITO", CategoriaGLP},
		{"GNV", CategoriaGNV},
		{"LUBRIFICANTE SINTETICO", CategoriaLubrificante},
		{"GASOLINA COMUM", CategoriaCombustivel},
		{"ETANOL", CategoriaCombustivel},
		{"DIESEL S500", CategoriaCombustivel},
	}

	for _, tt := range tests {
		if got := ProductCategory(tt.in); got != tt.want {
			t.Errorf("ProductCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProductUnit(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"GLP", UnidadeBotijao},
		{"GNV", UnidadeM3},
		{"GASOLINA COMUM", UnidadeLitro},
		{"ETANOL", UnidadeLitro},
	}

	for _, tt := range tests {
		if got := ProductUnit(tt.in); got != tt.want {
			t.Errorf("ProductUnit(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStateCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SÃO PAULO", "SP"},
		{"são paulo", "SP"},
		{"SP", "SP"},
		{"rj", "RJ"},
		{" DISTRITO FEDERAL ", "DF"},
		{"NARNIA LONGA", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := StateCode(tt.in); got != tt.want {
			t.Errorf("StateCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
