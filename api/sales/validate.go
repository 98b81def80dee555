package sales

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date layouts tried in order. Day-first layouts come first: the source
// data is written in a day-first locale, and "02-01-2006" must win over
// the month-first reading of the same digits.
var dateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
	"2006/01/02",
	"02-Jan-2006",
	"2-1-2006",
	"2/1/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

var (
	discountFloor = decimal.Zero
	discountCeil  = decimal.NewFromInt(100)
)

// ValidateColumns checks the header row against RequiredColumns and
// returns a MissingColumnsError naming every absent column.
func ValidateColumns(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// BuildRecords turns a raw table into validated records. Numeric cells
// that fail to parse default to zero (tallied in the CoercionReport);
// Discount_Percent is clamped to [0,100] after coercion; rows whose
// Order_Date does not parse are kept but counted in invalidDates and
// carry no date. The table must already have passed ValidateColumns.
func BuildRecords(tbl RawTable) (records []SalesRecord, invalidDates int, report CoercionReport) {
	report = CoercionReport{}

	idx := make(map[string]int, len(tbl.Headers))
	for i, h := range tbl.Headers {
		idx[strings.TrimSpace(h)] = i
	}
	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for _, row := range tbl.Rows {
		if isBlankRow(row) {
			continue
		}
		rec := SalesRecord{
			OrderID:         cell(row, ColOrderID),
			RawOrderDate:    cell(row, ColOrderDate),
			CustomerName:    cell(row, ColCustomerName),
			City:            cell(row, ColCity),
			ProductCategory: cell(row, ColProductCategory),
			ProductName:     cell(row, ColProductName),
			OrderStatus:     cell(row, ColOrderStatus),
			PaymentMode:     cell(row, ColPaymentMode),
			SalesChannel:    cell(row, ColSalesChannel),
		}

		rec.Quantity = toFloatOrZero(cell(row, ColQuantity), ColQuantity, report)
		rec.UnitPrice = toDecimalOrZero(cell(row, ColUnitPrice), ColUnitPrice, report)
		rec.DiscountPercent = clampDiscount(toDecimalOrZero(cell(row, ColDiscountPercent), ColDiscountPercent, report), report)

		if days := cell(row, ColDeliveryDays); days != "" {
			if d, err := strconv.Atoi(days); err == nil {
				rec.DeliveryDays = &d
			} else if f, err := strconv.ParseFloat(days, 64); err == nil {
				di := int(f)
				rec.DeliveryDays = &di
			} else {
				// unparseable delivery days are treated as missing, not 0
				report.bump(ColDeliveryDays)
			}
		}

		if t, ok := parseFlexibleDate(rec.RawOrderDate); ok {
			rec.OrderDate = &t
		} else {
			invalidDates++
		}

		records = append(records, rec)
	}
	return records, invalidDates, report
}

// parseFlexibleDate tries the day-first layouts in order.
func parseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toDecimalOrZero(s string, col string, report CoercionReport) decimal.Decimal {
	if s == "" {
		report.bump(col)
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		report.bump(col)
		return decimal.Zero
	}
	return d
}

func toFloatOrZero(s string, col string, report CoercionReport) float64 {
	if s == "" {
		report.bump(col)
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		report.bump(col)
		return 0
	}
	return f
}

func clampDiscount(d decimal.Decimal, report CoercionReport) decimal.Decimal {
	if d.LessThan(discountFloor) {
		report.bump(ColDiscountPercent)
		return discountFloor
	}
	if d.GreaterThan(discountCeil) {
		report.bump(ColDiscountPercent)
		return discountCeil
	}
	return d
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
