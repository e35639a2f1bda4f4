package aggregate

import (
	"slices"

	"github.com/lachiem1/monthlens/internal/records"
	"github.com/shopspring/decimal"
)

const (
	UncategorizedLabel = "Uncategorized"
	NeutralColor       = "#CBD5E0"
)

// CategoryAggregate is one bucket of a distribution. An empty CategoryID is
// the synthetic uncategorized bucket.
type CategoryAggregate struct {
	CategoryID records.ID
	Label      string
	Color      string
	Amount     decimal.Decimal
	Percentage decimal.Decimal
	Count      int
}

type label struct {
	name  string
	color string
}

// Catalog resolves category labels and colors for records that do not carry
// the embedded relation. The zero value is an empty catalog.
type Catalog struct {
	byID map[records.ID]label
}

func NewCatalog(categories []records.Category) Catalog {
	c := Catalog{byID: make(map[records.ID]label, len(categories))}
	for _, cat := range categories {
		if cat.ID == "" {
			continue
		}
		c.byID[cat.ID] = label{name: cat.Name, color: cat.Color}
	}
	return c
}

func (c Catalog) Len() int { return len(c.byID) }

// Lookup returns the label and color for id.
func (c Catalog) Lookup(id records.ID) (string, string, bool) {
	l, ok := c.byID[id]
	return l.name, l.color, ok
}

func (c Catalog) resolve(r records.Record, id records.ID) (string, string) {
	if id == "" {
		return UncategorizedLabel, NeutralColor
	}
	name, color := "", ""
	if r.Category != nil && r.Category.ID == id {
		name, color = r.Category.Name, r.Category.Color
	}
	if name == "" || color == "" {
		if n, col, ok := c.Lookup(id); ok {
			if name == "" {
				name = n
			}
			if color == "" {
				color = col
			}
		}
	}
	if name == "" {
		name = id.String()
	}
	if color == "" {
		color = NeutralColor
	}
	return name, color
}

// DistributeByCategory groups records by category, largest bucket first.
// Buckets with equal amounts keep the order in which their category first
// appears in rs. Percentages are computed from the final total and are zero
// when that total is zero.
func DistributeByCategory(rs []records.Record, catalog Catalog) []CategoryAggregate {
	index := make(map[records.ID]int)
	var out []CategoryAggregate
	total := decimal.Zero

	for _, r := range rs {
		id := r.CategoryKey()
		i, ok := index[id]
		if !ok {
			name, color := catalog.resolve(r, id)
			i = len(out)
			index[id] = i
			out = append(out, CategoryAggregate{
				CategoryID: id,
				Label:      name,
				Color:      color,
				Amount:     decimal.Zero,
				Percentage: decimal.Zero,
			})
		}
		amount := contribution(r)
		out[i].Amount = out[i].Amount.Add(amount)
		out[i].Count++
		total = total.Add(amount)
	}

	if !total.IsZero() {
		for i := range out {
			out[i].Percentage = out[i].Amount.Mul(hundred).Div(total)
		}
	}

	slices.SortStableFunc(out, func(a, b CategoryAggregate) int {
		return b.Amount.Cmp(a.Amount)
	})
	return out
}
