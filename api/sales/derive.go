package sales

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	highValueFloor   = decimal.NewFromInt(30000)
	mediumValueFloor = decimal.NewFromInt(10000)
	percentBase      = decimal.NewFromInt(100)
)

const summarySeparator = " – "

// Derive attaches every derived field to a validated record and returns
// the augmented copy. Pure and total: no I/O, no mutation of the input,
// same output for the same input.
func Derive(rec SalesRecord) SalesRecord {
	rec.CleanCustomerName = cleanName(rec.CustomerName)
	rec.CustomerNameUpper = strings.ToUpper(rec.CustomerName)
	rec.ProductCategoryLower = strings.ToLower(rec.ProductCategory)

	rec.TotalAmount = decimal.NewFromFloat(rec.Quantity).Mul(rec.UnitPrice)
	rec.DiscountAmount = rec.TotalAmount.Mul(rec.DiscountPercent).Div(percentBase)
	// subtraction, not (1 - pct/100): keeps the amount exact under the
	// upstream [0,100] clamp
	rec.FinalSalesAmount = rec.TotalAmount.Sub(rec.DiscountAmount)

	rec.OrderValueCategory = classifyOrderValue(rec.FinalSalesAmount)
	rec.DeliveryStatus = classifyDelivery(rec.OrderStatus)
	rec.FastDeliveryFlag = classifyFastDelivery(rec.DeliveryDays)
	rec.OrderSummary = buildOrderSummary(rec.CustomerName, rec.ProductName, rec.City)

	if rec.OrderDate != nil {
		d := *rec.OrderDate
		rec.Month = d.Month().String()
		rec.Year = d.Year()
		rec.Quarter = fmt.Sprintf("Q%d", (int(d.Month())-1)/3+1)
		rec.DayOfWeek = d.Weekday().String()
		_, rec.WeekOfYear = d.ISOWeek()
	}
	return rec
}

// DeriveAll derives every record in input order, returning a new slice.
func DeriveAll(records []SalesRecord) []SalesRecord {
	out := make([]SalesRecord, len(records))
	for i, rec := range records {
		out[i] = Derive(rec)
	}
	return out
}

// cleanName trims, collapses internal whitespace and title-cases each
// word of a customer name.
func cleanName(name string) string {
	fields := strings.Fields(name)
	for i, f := range fields {
		fields[i] = titleWord(f)
	}
	return strings.Join(fields, " ")
}

func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

// classifyOrderValue is a monotonic step function of the final sales
// amount with inclusive lower bounds at 10000 and 30000.
func classifyOrderValue(final decimal.Decimal) string {
	switch {
	case final.GreaterThanOrEqual(highValueFloor):
		return ValueCategoryHigh
	case final.GreaterThanOrEqual(mediumValueFloor):
		return ValueCategoryMedium
	default:
		return ValueCategoryLow
	}
}

func classifyDelivery(orderStatus string) string {
	switch orderStatus {
	case OrderStatusCancelled:
		return DeliveryStatusNotDelivered
	case OrderStatusReturned:
		return DeliveryStatusReturned
	default:
		return DeliveryStatusDelivered
	}
}

// classifyFastDelivery keeps "missing" distinct from "slow": NA means
// the delivery days cell was absent, never that delivery took long.
func classifyFastDelivery(days *int) string {
	if days == nil {
		return FastDeliveryNA
	}
	if *days <= 3 {
		return FastDeliveryFast
	}
	return FastDeliveryNormal
}

func buildOrderSummary(customer, product, city string) string {
	return customer + summarySeparator + product + summarySeparator + city
}
