package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestPriceKey(t *testing.T) {
	posto := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	produto := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	date := time.Date(2024, 5, 20, 14, 30, 0, 0, time.UTC)

	want := "11111111-1111-1111-1111-111111111111|22222222-2222-2222-2222-222222222222|2024-05-20"
	if got := PriceKey(posto, produto, date); got != want {
		t.Errorf("PriceKey() = %q, want %q", got, want)
	}

	// Time-of-day must not influence the key.
	midnight := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	if PriceKey(posto, produto, date) != PriceKey(posto, produto, midnight) {
		t.Error("keys for the same date with different times must match")
	}
}

func TestPriceRecordValid(t *testing.T) {
	price := decimal.RequireFromString("5.59")
	record := PriceRecord{
		PostoID:    uuid.New(),
		ProdutoID:  uuid.New(),
		DataColeta: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		PrecoVenda: &price,
	}
	if !record.Valid() {
		t.Error("complete record must be valid")
	}

	noPrice := record
	noPrice.PrecoVenda = nil
	if noPrice.Valid() {
		t.Error("record without price must be invalid")
	}

	noStation := record
	noStation.PostoID = uuid.Nil
	if noStation.Valid() {
		t.Error("record without station must be invalid")
	}
}

func TestPriceVariation(t *testing.T) {
	oldPrice := decimal.RequireFromString("5.40")
	newPrice := decimal.RequireFromString("5.59")

	current := PriceRecord{PrecoVenda: &newPrice}
	previous := PriceRecord{PrecoVenda: &oldPrice}

	got := current.PriceVariation(&previous)
	if got == nil || !got.Equal(decimal.RequireFromString("0.19")) {
		t.Errorf("PriceVariation() = %v, want 0.19", got)
	}

	if current.PriceVariation(nil) != nil {
		t.Error("variation against nil must be nil")
	}
	if current.PriceVariation(&PriceRecord{}) != nil {
		t.Error("variation against record without price must be nil")
	}
}
