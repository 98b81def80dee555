package sales

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"SalesOpsSaas/api"
	"SalesOpsSaas/api/constants"

	"github.com/xuri/excelize/v2"
)

// ExportColumns is the stable output column order: every original
// column first, then every derived column.
var ExportColumns = []string{
	ColOrderID,
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
	ColPaymentMode,
	ColSalesChannel,
	"Clean_Customer_Name",
	"Customer_Name_Upper",
	"Product_Category_Lower",
	"Total_Amount",
	"Discount_Amount",
	"Final_Sales_Amount",
	"Order_Value_Category",
	"Delivery_Status",
	"Fast_Delivery_Flag",
	"Order_Summary",
	"Month",
	"Year",
	"Quarter",
	"Day_Of_Week",
	"Week_Of_Year",
}

// exportRow serializes one record in ExportColumns order. The raw order
// date is written back verbatim so a re-ingest parses to the same
// values.
func exportRow(rec SalesRecord) []string {
	days := ""
	if rec.DeliveryDays != nil {
		days = strconv.Itoa(*rec.DeliveryDays)
	}
	year, week := "", ""
	if rec.HasOrderDate() {
		year = strconv.Itoa(rec.Year)
		week = strconv.Itoa(rec.WeekOfYear)
	}
	return []string{
		rec.OrderID,
		rec.RawOrderDate,
		rec.CustomerName,
		rec.City,
		rec.ProductCategory,
		rec.ProductName,
		strconv.FormatFloat(rec.Quantity, 'f', -1, 64),
		rec.UnitPrice.String(),
		rec.DiscountPercent.String(),
		rec.OrderStatus,
		days,
		rec.PaymentMode,
		rec.SalesChannel,
		rec.CleanCustomerName,
		rec.CustomerNameUpper,
		rec.ProductCategoryLower,
		rec.TotalAmount.String(),
		rec.DiscountAmount.String(),
		rec.FinalSalesAmount.String(),
		rec.OrderValueCategory,
		rec.DeliveryStatus,
		rec.FastDeliveryFlag,
		rec.OrderSummary,
		rec.Month,
		year,
		rec.Quarter,
		rec.DayOfWeek,
		week,
	}
}

// ExportCSV writes the record set as delimited text in the stable
// column order.
func ExportCSV(w *csv.Writer, records []SalesRecord) error {
	if err := w.Write(ExportColumns); err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write(exportRow(rec)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ExportXLSX builds a single-sheet workbook in the stable column order.
func ExportXLSX(records []SalesRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(ExportColumns))
	for i, c := range ExportColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, rec := range records {
		row := exportRow(rec)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ExportHandler streams the validated+derived+filtered record set back
// as csv or xlsx, preserving every original and derived column.
func ExportHandler(store *DatasetStore) http.HandlerFunc {
	type exportRequest struct {
		dashboardRequest
		Format string `json:"format"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req exportRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		_, result, ok := resolveDataset(store, w, &req.dashboardRequest)
		if !ok {
			return
		}

		switch req.Format {
		case "csv":
			w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeCSV)
			w.Header().Set("Content-Disposition", `attachment; filename="processed_sales_data.csv"`)
			if err := ExportCSV(csv.NewWriter(w), result.Records); err != nil {
				api.LogError("csv export failed: %v", err)
			}
		case "xlsx", "":
			f, err := ExportXLSX(result.Records)
			if err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to build workbook: %v", err))
				return
			}
			w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeXLSX)
			w.Header().Set("Content-Disposition", `attachment; filename="processed_sales_data.xlsx"`)
			if err := f.Write(w); err != nil {
				api.LogError("xlsx export failed: %v", err)
			}
		default:
			api.RespondWithError(w, http.StatusBadRequest, "format must be 'csv' or 'xlsx'")
		}
	}
}
