package sales

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Summary holds the dashboard KPI set for a (possibly filtered) record
// slice. Every statistic over an empty slice is a defined zero default,
// never an error.
type Summary struct {
	TotalSales        float64 `json:"total_sales"`
	AvgSales          float64 `json:"avg_sales"`
	MinSales          float64 `json:"min_sales"`
	MaxSales          float64 `json:"max_sales"`
	TotalOrders       int     `json:"total_orders"`
	UniqueCustomers   int     `json:"unique_customers"`
	TotalQuantity     float64 `json:"total_quantity"`
	TotalDiscount     float64 `json:"total_discount"`
	FastDeliveryRate  float64 `json:"fast_delivery_rate"`
	ConversionRate    float64 `json:"conversion_rate"`
	ReturnRate        float64 `json:"return_rate"`
	AvgDeliveryDays   float64 `json:"avg_delivery_days"`
	BlankDeliveryDays int     `json:"blank_delivery_days"`
	InvalidDates      int     `json:"invalid_dates"`
}

// Summarize computes the KPI set over records.
func Summarize(records []SalesRecord) Summary {
	s := Summary{TotalOrders: len(records)}
	if len(records) == 0 {
		return s
	}

	total := decimal.Zero
	discount := decimal.Zero
	min := records[0].FinalSalesAmount
	max := records[0].FinalSalesAmount
	customers := map[string]bool{}
	var fast, delivered, returned int
	var daysSum, daysCount int

	for _, rec := range records {
		total = total.Add(rec.FinalSalesAmount)
		discount = discount.Add(rec.DiscountAmount)
		if rec.FinalSalesAmount.LessThan(min) {
			min = rec.FinalSalesAmount
		}
		if rec.FinalSalesAmount.GreaterThan(max) {
			max = rec.FinalSalesAmount
		}
		customers[rec.CleanCustomerName] = true
		s.TotalQuantity += rec.Quantity
		if rec.FastDeliveryFlag == FastDeliveryFast {
			fast++
		}
		if rec.OrderStatus == OrderStatusDelivered {
			delivered++
		}
		if rec.OrderStatus == OrderStatusReturned {
			returned++
		}
		if rec.DeliveryDays != nil {
			daysSum += *rec.DeliveryDays
			daysCount++
		} else {
			s.BlankDeliveryDays++
		}
		if !rec.HasOrderDate() {
			s.InvalidDates++
		}
	}

	n := float64(len(records))
	s.TotalSales = round2(total.InexactFloat64())
	s.AvgSales = round2(total.InexactFloat64() / n)
	s.MinSales = round2(min.InexactFloat64())
	s.MaxSales = round2(max.InexactFloat64())
	s.UniqueCustomers = len(customers)
	s.TotalQuantity = round2(s.TotalQuantity)
	s.TotalDiscount = round2(discount.InexactFloat64())
	s.FastDeliveryRate = round4(float64(fast) / n)
	s.ConversionRate = round4(float64(delivered) / n)
	s.ReturnRate = round4(float64(returned) / n)
	if daysCount > 0 {
		s.AvgDeliveryDays = round2(float64(daysSum) / float64(daysCount))
	}
	return s
}

// GroupTotals sums FinalSalesAmount per group key. Empty keys group
// under "Unknown".
func GroupTotals(records []SalesRecord, key func(SalesRecord) string) map[string]float64 {
	out := map[string]float64{}
	acc := map[string]decimal.Decimal{}
	for _, rec := range records {
		k := key(rec)
		if k == "" {
			k = "Unknown"
		}
		acc[k] = acc[k].Add(rec.FinalSalesAmount)
	}
	for k, v := range acc {
		out[k] = round2(v.InexactFloat64())
	}
	return out
}

// GroupCounts counts records per group key.
func GroupCounts(records []SalesRecord, key func(SalesRecord) string) map[string]int {
	out := map[string]int{}
	for _, rec := range records {
		k := key(rec)
		if k == "" {
			k = "Unknown"
		}
		out[k]++
	}
	return out
}

// MonthPoint is one bucket of the monthly trend, in chronological order.
type MonthPoint struct {
	Year   int     `json:"year"`
	Month  string  `json:"month"`
	Total  float64 `json:"total"`
	Orders int     `json:"orders"`
}

// MonthlyTrend buckets valid-date records by calendar month,
// chronologically. Records without a parsed date are excluded.
func MonthlyTrend(records []SalesRecord) []MonthPoint {
	type bucket struct {
		total  decimal.Decimal
		orders int
	}
	acc := map[int]*bucket{}
	for _, rec := range records {
		if !rec.HasOrderDate() {
			continue
		}
		k := rec.Year*12 + int(rec.OrderDate.Month()) - 1
		b := acc[k]
		if b == nil {
			b = &bucket{}
			acc[k] = b
		}
		b.total = b.total.Add(rec.FinalSalesAmount)
		b.orders++
	}
	keys := make([]int, 0, len(acc))
	for k := range acc {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]MonthPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, MonthPoint{
			Year:   k / 12,
			Month:  time.Month(k%12 + 1).String(),
			Total:  round2(acc[k].total.InexactFloat64()),
			Orders: acc[k].orders,
		})
	}
	return out
}

// HistBin is one bin of the final-sales-amount distribution.
type HistBin struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

// SalesHistogram bins FinalSalesAmount into bins equal-width buckets.
func SalesHistogram(records []SalesRecord, bins int) []HistBin {
	if len(records) == 0 || bins <= 0 {
		return []HistBin{}
	}
	min := records[0].FinalSalesAmount.InexactFloat64()
	max := min
	for _, rec := range records[1:] {
		v := rec.FinalSalesAmount.InexactFloat64()
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	width := (max - min) / float64(bins)
	out := make([]HistBin, bins)
	for i := range out {
		out[i] = HistBin{
			From: round2(min + float64(i)*width),
			To:   round2(min + float64(i+1)*width),
		}
	}
	if width == 0 {
		// all values identical: everything lands in the first bin
		out[0].Count = len(records)
		return out
	}
	for _, rec := range records {
		v := rec.FinalSalesAmount.InexactFloat64()
		i := int((v - min) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}

// Pivot is a month-by-category matrix of sales totals (heatmap feed).
type Pivot struct {
	Months     []string    `json:"months"`
	Categories []string    `json:"categories"`
	Values     [][]float64 `json:"values"`
}

// PivotMonthCategory builds the Month × Product_Category pivot of
// FinalSalesAmount totals. Months run chronologically, categories
// alphabetically; records without a parsed date are excluded.
func PivotMonthCategory(records []SalesRecord) Pivot {
	type cellKey struct {
		month int
		cat   string
	}
	acc := map[cellKey]decimal.Decimal{}
	monthSet := map[int]bool{}
	catSet := map[string]bool{}
	for _, rec := range records {
		if !rec.HasOrderDate() {
			continue
		}
		mk := rec.Year*12 + int(rec.OrderDate.Month()) - 1
		monthSet[mk] = true
		catSet[rec.ProductCategory] = true
		k := cellKey{month: mk, cat: rec.ProductCategory}
		acc[k] = acc[k].Add(rec.FinalSalesAmount)
	}

	monthKeys := make([]int, 0, len(monthSet))
	for k := range monthSet {
		monthKeys = append(monthKeys, k)
	}
	sort.Ints(monthKeys)
	cats := make([]string, 0, len(catSet))
	for c := range catSet {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	p := Pivot{Categories: cats}
	for _, mk := range monthKeys {
		p.Months = append(p.Months, monthLabel(mk))
		row := make([]float64, len(cats))
		for i, c := range cats {
			row[i] = round2(acc[cellKey{month: mk, cat: c}].InexactFloat64())
		}
		p.Values = append(p.Values, row)
	}
	if p.Months == nil {
		p.Months = []string{}
	}
	if p.Values == nil {
		p.Values = [][]float64{}
	}
	return p
}

func monthLabel(monthKey int) string {
	return time.Month(monthKey%12+1).String()[:3] + " " + strconv.Itoa(monthKey/12)
}

// RankEntry is one row of a top-N ranking.
type RankEntry struct {
	Key    string  `json:"key"`
	Total  float64 `json:"total"`
	Orders int     `json:"orders"`
}

// TopN ranks group keys by summed FinalSalesAmount, descending. Ties
// keep first-appearance input order: entries are built in encounter
// order and sorted with a stable sort on the total alone.
func TopN(records []SalesRecord, n int, key func(SalesRecord) string) []RankEntry {
	order := []string{}
	totals := map[string]decimal.Decimal{}
	counts := map[string]int{}
	for _, rec := range records {
		k := key(rec)
		if k == "" {
			continue
		}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] = totals[k].Add(rec.FinalSalesAmount)
		counts[k]++
	}
	entries := make([]RankEntry, 0, len(order))
	for _, k := range order {
		entries = append(entries, RankEntry{
			Key:    k,
			Total:  round2(totals[k].InexactFloat64()),
			Orders: counts[k],
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
