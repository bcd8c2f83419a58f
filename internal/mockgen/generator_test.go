package mockgen

import (
	"testing"
)

func TestPresetByName(t *testing.T) {
	p, err := PresetByName("medium")
	if err != nil {
		t.Fatalf("PresetByName: %v", err)
	}
	if p.Customers != 10000 || p.Products != 5000 || p.Orders != 50000 {
		t.Errorf("medium preset = %+v", p)
	}

	if _, err := PresetByName("huge"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestGenerateRowCounts(t *testing.T) {
	g := New(42)
	ds := g.Generate(Presets["small"])

	if len(ds.Customers) != 1000 {
		t.Errorf("customers = %d, want 1000", len(ds.Customers))
	}
	if len(ds.Products) != 500 {
		t.Errorf("products = %d, want 500", len(ds.Products))
	}
	if len(ds.Orders) != 5000 {
		t.Errorf("orders = %d, want 5000", len(ds.Orders))
	}
	if want := FxDays * 7; len(ds.FxRates) != want {
		t.Errorf("fx rates = %d, want %d", len(ds.FxRates), want)
	}
}

func TestOrdersReferentialConsistency(t *testing.T) {
	for name, preset := range Presets {
		t.Run(name, func(t *testing.T) {
			ds := New(7).Generate(preset)

			customerIDs := make(map[string]bool, len(ds.Customers))
			for _, c := range ds.Customers {
				customerIDs[c.CustomerID] = true
			}
			productIDs := make(map[string]bool, len(ds.Products))
			for _, p := range ds.Products {
				productIDs[p.ProductID] = true
			}

			for _, o := range ds.Orders {
				if !customerIDs[o.CustomerID] {
					t.Fatalf("order %s references unknown customer %s", o.OrderID, o.CustomerID)
				}
				if !productIDs[o.ProductID] {
					t.Fatalf("order %s references unknown product %s", o.OrderID, o.ProductID)
				}
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := New(99).Generate(Presets["small"])
	b := New(99).Generate(Presets["small"])

	if len(a.Customers) != len(b.Customers) {
		t.Fatalf("customer counts differ: %d vs %d", len(a.Customers), len(b.Customers))
	}
	for i := range a.Customers {
		if a.Customers[i].CustomerID != b.Customers[i].CustomerID ||
			a.Customers[i].Email != b.Customers[i].Email {
			t.Fatalf("customer %d differs between seeded runs", i)
		}
	}
	for i := range a.Products {
		if a.Products[i].Category != b.Products[i].Category ||
			a.Products[i].Subcategory != b.Products[i].Subcategory ||
			a.Products[i].ProductName != b.Products[i].ProductName {
			t.Fatalf("product %d differs between seeded runs: %s/%s vs %s/%s",
				i, a.Products[i].Category, a.Products[i].Subcategory,
				b.Products[i].Category, b.Products[i].Subcategory)
		}
	}
	for i := range a.Orders {
		if a.Orders[i].CustomerID != b.Orders[i].CustomerID ||
			a.Orders[i].TotalAmount != b.Orders[i].TotalAmount {
			t.Fatalf("order %d differs between seeded runs", i)
		}
	}
}

func TestFxRatesCoverAllCurrencies(t *testing.T) {
	rates := New(1).FxRates()

	perCurrency := make(map[string]int)
	for _, r := range rates {
		perCurrency[r.Currency]++
		if r.RateToUSD <= 0 {
			t.Fatalf("non-positive rate for %s on %v", r.Currency, r.Date)
		}
	}
	if len(perCurrency) != 7 {
		t.Errorf("got %d currencies, want 7", len(perCurrency))
	}
	for cur, n := range perCurrency {
		if n != FxDays {
			t.Errorf("%s has %d daily rows, want %d", cur, n, FxDays)
		}
	}
}
