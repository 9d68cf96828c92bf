package service

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"pricematch-service/internal/match/model"
)

func benchCatalog(n, classes int) []model.PriceItem {
	out := make([]model.PriceItem, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.PriceItem{
			ID:          fmt.Sprintf("p-%05d", i),
			Description: fmt.Sprintf("Cable tray %dx%d", 100+(i%8)*50, 50+(i%4)*25),
			ClassCode:   fmt.Sprintf("C%02d", i%classes),
			UnitPrice:   decimal.NewFromInt(int64(i%90 + 10)),
		})
	}
	return out
}

func TestBlockCorrectness(t *testing.T) {
	prices := benchCatalog(500, 20)
	idx := BuildIndex(prices)

	// истинный матч с совпадающим кодом всегда в бакете
	target := prices[137]
	blocked, degraded := idx.Block(target.ClassCode)
	if degraded {
		t.Fatalf("unexpected degradation for code %q", target.ClassCode)
	}
	found := false
	for _, p := range blocked {
		if p.ID == target.ID {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("true match %s missing from blocked set", target.ID)
	}
}

func TestBlockDegradesWithoutCode(t *testing.T) {
	idx := BuildIndex(benchCatalog(100, 5))
	blocked, degraded := idx.Block("")
	if !degraded {
		t.Fatal("expected degradation flag for empty class code")
	}
	if len(blocked) != idx.Size() {
		t.Fatalf("degraded pool = %d, want full catalog %d", len(blocked), idx.Size())
	}
}

func TestBlockUnknownCode(t *testing.T) {
	idx := BuildIndex(benchCatalog(100, 5))
	blocked, degraded := idx.Block("NOPE")
	if degraded {
		t.Fatal("unknown code is not a degradation")
	}
	if len(blocked) != 0 {
		t.Fatalf("got %d candidates for unknown code, want 0", len(blocked))
	}
}

// Бенчмарк-цель §4.5: сокращение пула кандидатов минимум в 20 раз
// на каталоге 5000 позиций / ~20 классов.
func TestBlockEfficiency(t *testing.T) {
	prices := benchCatalog(5000, 20)
	idx := BuildIndex(prices)

	total := 0
	probes := 500
	for i := 0; i < probes; i++ {
		blocked, _ := idx.Block(fmt.Sprintf("C%02d", i%20))
		total += len(blocked)
	}
	avg := float64(total) / float64(probes)
	reduction := float64(idx.Size()) / avg
	if reduction < 20 {
		t.Fatalf("blocking reduction %.1fx, want >= 20x", reduction)
	}
}

// Item с кодом ELEC ранжируется только против позиций ELEC, никогда
// против полного каталога.
func TestBlockOnlySameClass(t *testing.T) {
	prices := []model.PriceItem{
		{ID: "e1", Description: "Socket outlet twin", ClassCode: "ELEC"},
		{ID: "e2", Description: "Socket outlet single", ClassCode: "ELEC"},
		{ID: "m1", Description: "Socket outlet twin", ClassCode: "MECH"},
	}
	idx := BuildIndex(prices)
	blocked, degraded := idx.Block("ELEC")
	if degraded {
		t.Fatal("unexpected degradation")
	}
	for _, p := range blocked {
		if p.ClassCode != "ELEC" {
			t.Fatalf("foreign class %s leaked into blocked set", p.ID)
		}
	}
	if len(blocked) != 2 {
		t.Fatalf("blocked = %d, want 2", len(blocked))
	}
}
