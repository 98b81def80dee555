package sales

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RFM segment labels, assigned from the score sum.
const (
	SegmentChampion  = "Champion"
	SegmentLoyal     = "Loyal"
	SegmentPotential = "Potential"
	SegmentAtRisk    = "At Risk"
)

// RFMRow is one customer's recency/frequency/monetary profile and its
// 1..3 tercile scores.
type RFMRow struct {
	Customer    string  `json:"customer"`
	RecencyDays int     `json:"recency_days"`
	Frequency   int     `json:"frequency"`
	Monetary    float64 `json:"monetary"`
	RScore      int     `json:"r_score"`
	FScore      int     `json:"f_score"`
	MScore      int     `json:"m_score"`
	RFM         string  `json:"rfm"`
	Segment     string  `json:"segment"`
}

// RFMScores segments customers by Recency (days since their last order,
// relative to the newest order date in the set), Frequency (order
// count) and Monetary (summed FinalSalesAmount). Scores are rank-based
// terciles: customers are ordered per metric and split into three
// near-equal buckets, so duplicate boundary values never collapse a
// bucket; ties keep first-appearance order. Records without a parsed
// order date are skipped (recency is undefined for them). Output is
// sorted by descending monetary value.
func RFMScores(records []SalesRecord) []RFMRow {
	type acc struct {
		last     time.Time
		count    int
		monetary decimal.Decimal
	}
	order := []string{}
	byCustomer := map[string]*acc{}
	var maxDate time.Time

	for _, rec := range records {
		if !rec.HasOrderDate() || rec.CleanCustomerName == "" {
			continue
		}
		a := byCustomer[rec.CleanCustomerName]
		if a == nil {
			a = &acc{}
			byCustomer[rec.CleanCustomerName] = a
			order = append(order, rec.CleanCustomerName)
		}
		if rec.OrderDate.After(a.last) {
			a.last = *rec.OrderDate
		}
		a.count++
		a.monetary = a.monetary.Add(rec.FinalSalesAmount)
		if rec.OrderDate.After(maxDate) {
			maxDate = *rec.OrderDate
		}
	}
	if len(order) == 0 {
		return []RFMRow{}
	}

	rows := make([]RFMRow, len(order))
	recency := make([]float64, len(order))
	frequency := make([]float64, len(order))
	monetary := make([]float64, len(order))
	for i, name := range order {
		a := byCustomer[name]
		days := int(truncateToDay(maxDate).Sub(truncateToDay(a.last)).Hours() / 24)
		rows[i] = RFMRow{
			Customer:    name,
			RecencyDays: days,
			Frequency:   a.count,
			Monetary:    round2(a.monetary.InexactFloat64()),
		}
		recency[i] = float64(days)
		frequency[i] = float64(a.count)
		monetary[i] = rows[i].Monetary
	}

	rScores := tercileScores(recency, false) // fewer days since last order is better
	fScores := tercileScores(frequency, true)
	mScores := tercileScores(monetary, true)
	for i := range rows {
		rows[i].RScore = rScores[i]
		rows[i].FScore = fScores[i]
		rows[i].MScore = mScores[i]
		rows[i].RFM = scoreDigit(rows[i].RScore) + scoreDigit(rows[i].FScore) + scoreDigit(rows[i].MScore)
		rows[i].Segment = segmentFor(rows[i].RScore + rows[i].FScore + rows[i].MScore)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Monetary > rows[j].Monetary
	})
	return rows
}

// tercileScores assigns 1..3 by rank position: the input is ordered by
// value (stable, so equal values keep input order) and cut into three
// near-equal buckets. higherIsBetter controls whether the top bucket
// scores 3 for large values or for small ones.
func tercileScores(values []float64, higherIsBetter bool) []int {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})
	scores := make([]int, n)
	for pos, i := range idx {
		bucket := pos * 3 / n // 0,1,2
		if higherIsBetter {
			scores[i] = bucket + 1
		} else {
			scores[i] = 3 - bucket
		}
	}
	return scores
}

func segmentFor(sum int) string {
	switch {
	case sum >= 8:
		return SegmentChampion
	case sum >= 6:
		return SegmentLoyal
	case sum >= 4:
		return SegmentPotential
	default:
		return SegmentAtRisk
	}
}

func scoreDigit(s int) string {
	return string(rune('0' + s))
}
