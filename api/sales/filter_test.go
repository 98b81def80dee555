package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// filterFixture: four derived records across two cities, two categories
// and a date spread, plus one dateless row.
func filterFixture(t *testing.T) []SalesRecord {
	t.Helper()
	tbl := makeTable(
		testRow("1", "05-01-2024", "Amit", "Pune", "Electronics", "Laptop", "1", "40000", "0", "Delivered", "2", "UPI", "Online"),
		testRow("2", "20-02-2024", "Neha", "Mumbai", "Clothing", "Jacket", "2", "6000", "0", "Delivered", "5", "Card", "Retail"),
		testRow("3", "10-03-2024", "Ravi", "Pune", "Clothing", "Shirt", "1", "1500", "0", "Returned", "3", "UPI", "Online"),
		testRow("4", "not-a-date", "Sara", "Delhi", "Electronics", "Phone", "1", "15000", "0", "Cancelled", "", "Cash", "Retail"),
	)
	records, invalid, _ := BuildRecords(tbl)
	require.Len(t, records, 4)
	require.Equal(t, 1, invalid)
	return DeriveAll(records)
}

func TestFilter_NoConstraintsReturnsEverything(t *testing.T) {
	records := filterFixture(t)
	result, err := FacetFilter{}.Apply(records)
	require.NoError(t, err)
	assert.Len(t, result.Records, len(records))
	assert.False(t, result.EmptyResult)
}

func TestFilter_SingleFacet(t *testing.T) {
	records := filterFixture(t)
	result, err := FacetFilter{Cities: []string{"Pune"}}.Apply(records)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	for _, rec := range result.Records {
		assert.Equal(t, "Pune", rec.City)
	}
}

func TestFilter_ValuesWithinFacetAreORed(t *testing.T) {
	records := filterFixture(t)
	result, err := FacetFilter{Cities: []string{"Pune", "Delhi"}}.Apply(records)
	require.NoError(t, err)
	assert.Len(t, result.Records, 3)
}

func TestFilter_FacetsAreANDedAcrossDimensions(t *testing.T) {
	records := filterFixture(t)
	result, err := FacetFilter{
		Cities:     []string{"Pune"},
		Categories: []string{"Clothing"},
	}.Apply(records)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Ravi", result.Records[0].CustomerName)
}

func TestFilter_ValueCategoryFacet(t *testing.T) {
	records := filterFixture(t)
	result, err := FacetFilter{ValueCategories: []string{ValueCategoryHigh}}.Apply(records)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Amit", result.Records[0].CustomerName)
}

func TestFilter_DateRangeInclusiveBothEnds(t *testing.T) {
	records := filterFixture(t)
	result, err := FacetFilter{FromDate: "05-01-2024", ToDate: "20-02-2024"}.Apply(records)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "Amit", result.Records[0].CustomerName)
	assert.Equal(t, "Neha", result.Records[1].CustomerName)
}

func TestFilter_DateRangeExcludesDatelessRows(t *testing.T) {
	records := filterFixture(t)
	result, err := FacetFilter{FromDate: "01-01-2024"}.Apply(records)
	require.NoError(t, err)
	for _, rec := range result.Records {
		assert.NotNil(t, rec.OrderDate)
	}
	assert.Len(t, result.Records, 3)
}

func TestFilter_EmptyResultIndicator(t *testing.T) {
	records := filterFixture(t)
	result, err := FacetFilter{Cities: []string{"Chennai"}}.Apply(records)
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.True(t, result.EmptyResult, "zero matches under active constraints must be flagged")

	// aggregates over the empty view fall back to defaults
	summary := Summarize(result.Records)
	assert.Zero(t, summary.TotalSales)
	assert.Zero(t, summary.TotalOrders)
}

func TestFilter_NoConstraintEmptyInputIsNotFlagged(t *testing.T) {
	result, err := FacetFilter{}.Apply(nil)
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.False(t, result.EmptyResult, "no filters applied must not read as an empty filter result")
}

func TestFilter_Idempotent(t *testing.T) {
	records := filterFixture(t)
	f := FacetFilter{Cities: []string{"Pune"}, Categories: []string{"Electronics", "Clothing"}}
	once, err := f.Apply(records)
	require.NoError(t, err)
	twice, err := f.Apply(once.Records)
	require.NoError(t, err)
	assert.Equal(t, once.Records, twice.Records)
}

func TestFilter_InvalidDateBound(t *testing.T) {
	records := filterFixture(t)
	_, err := FacetFilter{FromDate: "whenever"}.Apply(records)
	assert.Error(t, err)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	records := filterFixture(t)
	before := make([]SalesRecord, len(records))
	copy(before, records)
	_, err := FacetFilter{OrderStatuses: []string{"Returned"}}.Apply(records)
	require.NoError(t, err)
	assert.Equal(t, before, records)
}
