package sales

import (
	"fmt"
	"time"
)

// FacetFilter narrows a record set by user-selected facet values.
// An empty facet slice places no constraint on that dimension; values
// within a facet are OR'd, facets are AND'd across dimensions. The date
// range is inclusive on both ends at day granularity.
type FacetFilter struct {
	Cities          []string `json:"cities,omitempty"`
	Categories      []string `json:"categories,omitempty"`
	PaymentModes    []string `json:"payment_modes,omitempty"`
	SalesChannels   []string `json:"sales_channels,omitempty"`
	OrderStatuses   []string `json:"order_statuses,omitempty"`
	ValueCategories []string `json:"value_categories,omitempty"`
	FromDate        string   `json:"from_date,omitempty"`
	ToDate          string   `json:"to_date,omitempty"`
}

// FilterResult distinguishes "zero matching records" from "no filters
// applied": EmptyResult is only set when constraints were active and
// nothing survived them.
type FilterResult struct {
	Records     []SalesRecord
	EmptyResult bool
}

// HasConstraints reports whether any facet or date bound is set.
func (f FacetFilter) HasConstraints() bool {
	return len(f.Cities) > 0 || len(f.Categories) > 0 || len(f.PaymentModes) > 0 ||
		len(f.SalesChannels) > 0 || len(f.OrderStatuses) > 0 || len(f.ValueCategories) > 0 ||
		f.FromDate != "" || f.ToDate != ""
}

// Apply evaluates the filter against a derived record set and returns
// the matching subset. The input is never mutated; applying the same
// filter to its own output yields the same set again.
func (f FacetFilter) Apply(records []SalesRecord) (FilterResult, error) {
	var from, to time.Time
	if f.FromDate != "" {
		t, ok := parseFlexibleDate(f.FromDate)
		if !ok {
			return FilterResult{}, fmt.Errorf("invalid from_date %q", f.FromDate)
		}
		from = t
	}
	if f.ToDate != "" {
		t, ok := parseFlexibleDate(f.ToDate)
		if !ok {
			return FilterResult{}, fmt.Errorf("invalid to_date %q", f.ToDate)
		}
		to = t
	}

	cities := toSet(f.Cities)
	categories := toSet(f.Categories)
	modes := toSet(f.PaymentModes)
	channels := toSet(f.SalesChannels)
	statuses := toSet(f.OrderStatuses)
	valueCats := toSet(f.ValueCategories)

	out := make([]SalesRecord, 0, len(records))
	for _, rec := range records {
		if !inSet(cities, rec.City) ||
			!inSet(categories, rec.ProductCategory) ||
			!inSet(modes, rec.PaymentMode) ||
			!inSet(channels, rec.SalesChannel) ||
			!inSet(statuses, rec.OrderStatus) ||
			!inSet(valueCats, rec.OrderValueCategory) {
			continue
		}
		if !withinDateRange(rec.OrderDate, from, to) {
			continue
		}
		out = append(out, rec)
	}

	return FilterResult{
		Records:     out,
		EmptyResult: len(out) == 0 && f.HasConstraints() && len(records) > 0,
	}, nil
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// inSet treats a nil set as "no constraint".
func inSet(set map[string]bool, value string) bool {
	return set == nil || set[value]
}

// withinDateRange compares at day granularity, inclusive on both ends.
// Records without a parsed date fail any active date constraint.
func withinDateRange(d *time.Time, from, to time.Time) bool {
	if from.IsZero() && to.IsZero() {
		return true
	}
	if d == nil {
		return false
	}
	day := truncateToDay(*d)
	if !from.IsZero() && day.Before(truncateToDay(from)) {
		return false
	}
	if !to.IsZero() && day.After(truncateToDay(to)) {
		return false
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
