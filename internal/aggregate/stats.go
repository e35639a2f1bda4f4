package aggregate

import (
	"slices"

	"github.com/lachiem1/monthlens/internal/records"
	"github.com/shopspring/decimal"
)

// Stats holds the extremes of a period. Highest and Lowest are nil when no
// record has a readable amount; MostCommon is nil for an empty collection.
type Stats struct {
	Highest    *records.Record
	Lowest     *records.Record
	MostCommon *CategoryCount
}

type CategoryCount struct {
	CategoryID records.ID
	Label      string
	Count      int
}

// ComputeStats finds the highest and lowest record and the category with the
// most records. Ties keep the first occurrence.
func ComputeStats(rs []records.Record, catalog Catalog) Stats {
	var st Stats
	counts := make(map[records.ID]int)
	var order []records.ID
	firstSeen := make(map[records.ID]records.Record)

	for i := range rs {
		r := rs[i]
		if !r.Malformed {
			if st.Highest == nil || r.Amount.GreaterThan(st.Highest.Amount) {
				st.Highest = &rs[i]
			}
			if st.Lowest == nil || r.Amount.LessThan(st.Lowest.Amount) {
				st.Lowest = &rs[i]
			}
		}
		id := r.CategoryKey()
		if _, ok := counts[id]; !ok {
			order = append(order, id)
			firstSeen[id] = r
		}
		counts[id]++
	}

	for _, id := range order {
		if st.MostCommon == nil || counts[id] > st.MostCommon.Count {
			name, _ := catalog.resolve(firstSeen[id], id)
			st.MostCommon = &CategoryCount{CategoryID: id, Label: name, Count: counts[id]}
		}
	}
	return st
}

// Day is the records of one calendar day.
type Day struct {
	Date    records.Date
	Total   decimal.Decimal
	Records []records.Record
}

// GroupByDay groups records by calendar day, newest day first. Records keep
// their input order within a day; records without a readable date are
// collected in a final group with a zero date.
func GroupByDay(rs []records.Record) []Day {
	index := make(map[string]int)
	var days []Day
	for _, r := range rs {
		key := r.Date.String()
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, Day{Date: r.Date, Total: decimal.Zero})
		}
		days[i].Records = append(days[i].Records, r)
		days[i].Total = days[i].Total.Add(contribution(r))
	}
	slices.SortStableFunc(days, func(a, b Day) int {
		switch {
		case a.Date.IsZero() && b.Date.IsZero():
			return 0
		case a.Date.IsZero():
			return 1
		case b.Date.IsZero():
			return -1
		}
		return b.Date.Compare(a.Date.Time)
	})
	return days
}
