package aggregate

import (
	"testing"

	"github.com/lachiem1/monthlens/internal/records"
	"github.com/shopspring/decimal"
)

func TestDistributeMarchScenario(t *testing.T) {
	got := DistributeByCategory(marchRecords(), Catalog{})
	if len(got) != 2 {
		t.Fatalf("buckets = %d, want 2", len(got))
	}
	want := []struct {
		label  string
		amount int64
		pct    int64
	}{
		{label: "food", amount: 80, pct: 80},
		{label: UncategorizedLabel, amount: 20, pct: 20},
	}
	for i, w := range want {
		b := got[i]
		if b.Label != w.label || !b.Amount.Equal(decimal.NewFromInt(w.amount)) || !b.Percentage.Equal(decimal.NewFromInt(w.pct)) {
			t.Fatalf("bucket %d = %s %s %s%%, want %s %d %d%%", i, b.Label, b.Amount, b.Percentage, w.label, w.amount, w.pct)
		}
	}
	if got[1].Color != NeutralColor {
		t.Fatalf("uncategorized color = %q, want %q", got[1].Color, NeutralColor)
	}
}

func TestDistributeConservesTotal(t *testing.T) {
	rs := append(marchRecords(),
		rec("4", "12.345", "rent", "2024-03-01"),
		rec("5", "0.01", "", "2024-03-02"),
		rec("6", "7.7", "fun", "2024-03-03"),
	)
	sum := decimal.Zero
	for _, b := range DistributeByCategory(rs, Catalog{}) {
		sum = sum.Add(b.Amount)
	}
	if total := Summarize(rs).Total; !sum.Equal(total) {
		t.Fatalf("bucket sum = %s, want %s", sum, total)
	}
}

func TestDistributeTiesKeepFirstSeenOrder(t *testing.T) {
	rs := []records.Record{
		rec("1", "10", "b", "2024-03-01"),
		rec("2", "10", "a", "2024-03-02"),
		rec("3", "30", "c", "2024-03-03"),
		rec("4", "10", "d", "2024-03-04"),
	}
	got := DistributeByCategory(rs, Catalog{})
	order := []records.ID{"c", "b", "a", "d"}
	for i, id := range order {
		if got[i].CategoryID != id {
			t.Fatalf("position %d = %q, want %q (got %+v)", i, got[i].CategoryID, id, got)
		}
	}
}

func TestDistributeZeroTotal(t *testing.T) {
	rs := []records.Record{{ID: "1", CategoryID: "food", Malformed: true}}
	got := DistributeByCategory(rs, Catalog{})
	if len(got) != 1 || !got[0].Percentage.IsZero() {
		t.Fatalf("DistributeByCategory() = %+v, want one bucket at 0%%", got)
	}
	if DistributeByCategory(nil, Catalog{}) != nil {
		t.Fatal("empty input should give no buckets")
	}
}

func TestDistributeResolvesLabels(t *testing.T) {
	catalog := NewCatalog([]records.Category{
		{ID: "4", Name: "Groceries", Color: "#48BB78"},
		{ID: "5", Name: "Transport"},
	})
	embedded := rec("1", "5", "9", "2024-03-01")
	embedded.Category = &records.CategoryRef{ID: "9", Name: "Coffee", Color: "#975A16"}
	rs := []records.Record{
		rec("2", "40", "4", "2024-03-01"),
		rec("3", "30", "5", "2024-03-01"),
		rec("4", "20", "77", "2024-03-01"),
		embedded,
	}

	got := DistributeByCategory(rs, catalog)
	want := []struct{ label, color string }{
		{"Groceries", "#48BB78"},
		{"Transport", NeutralColor},
		{"77", NeutralColor},
		{"Coffee", "#975A16"},
	}
	for i, w := range want {
		if got[i].Label != w.label || got[i].Color != w.color {
			t.Fatalf("bucket %d = %s/%s, want %s/%s", i, got[i].Label, got[i].Color, w.label, w.color)
		}
	}
}
