package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Required raw columns. Header names are matched exactly (case-sensitive)
// against the first row of the uploaded file.
var RequiredColumns = []string{
	ColOrderDate,
	ColCustomerName,
	ColCity,
	ColProductCategory,
	ColProductName,
	ColQuantity,
	ColUnitPrice,
	ColDiscountPercent,
	ColOrderStatus,
	ColDeliveryDays,
}

// Optional raw columns, used when present and tolerated when absent.
var OptionalColumns = []string{
	ColPaymentMode,
	ColSalesChannel,
	ColOrderID,
}

const (
	ColOrderDate       = "Order_Date"
	ColCustomerName    = "Customer_Name"
	ColCity            = "City"
	ColProductCategory = "Product_Category"
	ColProductName     = "Product_Name"
	ColQuantity        = "Quantity"
	ColUnitPrice       = "Unit_Price"
	ColDiscountPercent = "Discount_Percent"
	ColOrderStatus     = "Order_Status"
	ColDeliveryDays    = "Delivery_Days"
	ColPaymentMode     = "Payment_Mode"
	ColSalesChannel    = "Sales_Channel"
	ColOrderID         = "Order_ID"
)

// Derived classification labels.
const (
	ValueCategoryHigh   = "High Value"
	ValueCategoryMedium = "Medium Value"
	ValueCategoryLow    = "Low Value"

	DeliveryStatusDelivered    = "Delivered"
	DeliveryStatusNotDelivered = "Not Delivered"
	DeliveryStatusReturned     = "Returned"

	FastDeliveryNA     = "NA"
	FastDeliveryFast   = "Fast Delivery"
	FastDeliveryNormal = "Normal Delivery"
)

// Order statuses the classifier keys on.
const (
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
	OrderStatusReturned  = "Returned"
)

// SalesRecord is one validated transaction row with its derived fields
// attached. A record is immutable once derived; filtering returns a
// subset view, never a mutated copy.
type SalesRecord struct {
	OrderID         string          `json:"order_id,omitempty"`
	OrderDate       *time.Time      `json:"order_date,omitempty"`
	RawOrderDate    string          `json:"raw_order_date,omitempty"`
	CustomerName    string          `json:"customer_name"`
	City            string          `json:"city"`
	ProductCategory string          `json:"product_category"`
	ProductName     string          `json:"product_name"`
	Quantity        float64         `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	OrderStatus     string          `json:"order_status"`
	DeliveryDays    *int            `json:"delivery_days,omitempty"`
	PaymentMode     string          `json:"payment_mode,omitempty"`
	SalesChannel    string          `json:"sales_channel,omitempty"`

	// Derived fields (computed once, pure functions of the raw fields)
	CleanCustomerName    string          `json:"clean_customer_name"`
	CustomerNameUpper    string          `json:"customer_name_upper"`
	ProductCategoryLower string          `json:"product_category_lower"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	DiscountAmount       decimal.Decimal `json:"discount_amount"`
	FinalSalesAmount     decimal.Decimal `json:"final_sales_amount"`
	OrderValueCategory   string          `json:"order_value_category"`
	DeliveryStatus       string          `json:"delivery_status"`
	FastDeliveryFlag     string          `json:"fast_delivery_flag"`
	OrderSummary         string          `json:"order_summary"`
	Month                string          `json:"month,omitempty"`
	Year                 int             `json:"year,omitempty"`
	Quarter              string          `json:"quarter,omitempty"`
	DayOfWeek            string          `json:"day_of_week,omitempty"`
	WeekOfYear           int             `json:"week_of_year,omitempty"`
}

// HasOrderDate reports whether the record's order date parsed. Records
// without a parsed date are excluded from temporal derivations and
// time-based aggregates but kept everywhere else.
func (r *SalesRecord) HasOrderDate() bool {
	return r.OrderDate != nil
}

// RawTable is the parsed-but-unvalidated spreadsheet: the header row
// plus every data row as raw cell strings.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// CoercionReport counts, per column, how many cells fell back to the
// numeric default (or were clamped) during validation. Recovery is
// silent for the caller but observable here.
type CoercionReport map[string]int

func (c CoercionReport) bump(col string) {
	c[col]++
}

// Total returns the number of defaulted/clamped cells across columns.
func (c CoercionReport) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// MissingColumnsError reports every required column absent from the
// header row, not just the first one found.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}
