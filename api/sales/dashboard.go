package sales

import (
	"encoding/json"
	"net/http"

	"SalesOpsSaas/api"
	"SalesOpsSaas/api/constants"
)

// dashboardRequest is the shared body for every dataset-scoped
// endpoint: the dataset to read plus the active facet selections.
type dashboardRequest struct {
	DatasetID string      `json:"dataset_id"`
	Filter    FacetFilter `json:"filter"`
}

// decodeRequest decodes the full request body into dst, writing the
// 400 response itself on malformed JSON. Handlers with extra fields
// beyond dashboardRequest must decode their own outer struct here so
// those fields are not silently dropped.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
		return false
	}
	return true
}

// resolveDataset looks up the dataset named by an already-decoded
// request and applies its filter. It writes the error response itself
// and returns ok=false when the caller should bail out.
func resolveDataset(store *DatasetStore, w http.ResponseWriter, req *dashboardRequest) (*Dataset, FilterResult, bool) {
	if req.DatasetID == "" {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingDatasetID)
		return nil, FilterResult{}, false
	}
	ds, ok := store.Get(req.DatasetID)
	if !ok {
		api.RespondWithError(w, http.StatusNotFound, constants.ErrDatasetNotFound)
		return nil, FilterResult{}, false
	}
	result, err := req.Filter.Apply(ds.Records)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return nil, FilterResult{}, false
	}
	return ds, result, true
}

// SummaryHandler returns the KPI summary for the filtered record set.
func SummaryHandler(store *DatasetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dashboardRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		ds, result, ok := resolveDataset(store, w, &req)
		if !ok {
			return
		}
		summary := Summarize(result.Records)
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"dataset_id":   ds.ID,
			"summary":      summary,
			"empty_result": result.EmptyResult,
		})
	}
}

// ChartsHandler returns every grouped aggregate the chart layer
// consumes, as plain maps and tables.
func ChartsHandler(store *DatasetStore) http.HandlerFunc {
	type chartsRequest struct {
		dashboardRequest
		HistogramBins int `json:"histogram_bins"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req chartsRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		ds, result, ok := resolveDataset(store, w, &req.dashboardRequest)
		if !ok {
			return
		}
		bins := req.HistogramBins
		if bins <= 0 {
			bins = 20
		}
		recs := result.Records
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"dataset_id":            ds.ID,
			"empty_result":          result.EmptyResult,
			"value_category_counts": GroupCounts(recs, func(r SalesRecord) string { return r.OrderValueCategory }),
			"fast_delivery_counts":  GroupCounts(recs, func(r SalesRecord) string { return r.FastDeliveryFlag }),
			"delivery_status_counts": GroupCounts(recs, func(r SalesRecord) string {
				return r.DeliveryStatus
			}),
			"sales_by_city":         GroupTotals(recs, func(r SalesRecord) string { return r.City }),
			"sales_by_category":     GroupTotals(recs, func(r SalesRecord) string { return r.ProductCategory }),
			"sales_by_payment_mode": GroupTotals(recs, func(r SalesRecord) string { return r.PaymentMode }),
			"sales_by_channel":      GroupTotals(recs, func(r SalesRecord) string { return r.SalesChannel }),
			"sales_by_day_of_week":  GroupTotals(temporalOnly(recs), func(r SalesRecord) string { return r.DayOfWeek }),
			"monthly_trend":         MonthlyTrend(recs),
			"sales_histogram":       SalesHistogram(recs, bins),
			"month_category_pivot":  PivotMonthCategory(recs),
		})
	}
}

// TopHandler ranks products or customers by final sales amount.
func TopHandler(store *DatasetStore) http.HandlerFunc {
	type topRequest struct {
		dashboardRequest
		Dimension string `json:"dimension"`
		N         int    `json:"n"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req topRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		ds, result, ok := resolveDataset(store, w, &req.dashboardRequest)
		if !ok {
			return
		}
		n := req.N
		if n <= 0 {
			n = 10
		}
		var key func(SalesRecord) string
		switch req.Dimension {
		case "customers":
			key = func(r SalesRecord) string { return r.CleanCustomerName }
		case "products", "":
			key = func(r SalesRecord) string { return r.ProductName }
		default:
			api.RespondWithError(w, http.StatusBadRequest, "dimension must be 'products' or 'customers'")
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"dataset_id":   ds.ID,
			"empty_result": result.EmptyResult,
			"top":          TopN(result.Records, n, key),
		})
	}
}

// RFMHandler returns the customer RFM segmentation.
func RFMHandler(store *DatasetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dashboardRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		ds, result, ok := resolveDataset(store, w, &req)
		if !ok {
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"dataset_id":   ds.ID,
			"empty_result": result.EmptyResult,
			"rfm":          RFMScores(result.Records),
		})
	}
}

// RecordsHandler returns one preview page of the filtered records.
func RecordsHandler(store *DatasetStore) http.HandlerFunc {
	type recordsRequest struct {
		dashboardRequest
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordsRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		ds, result, ok := resolveDataset(store, w, &req.dashboardRequest)
		if !ok {
			return
		}
		limit := req.Limit
		if limit <= 0 {
			limit = 50
		}
		offset := req.Offset
		if offset < 0 {
			offset = 0
		}
		recs := result.Records
		if offset > len(recs) {
			offset = len(recs)
		}
		end := offset + limit
		if end > len(recs) {
			end = len(recs)
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"dataset_id":   ds.ID,
			"empty_result": result.EmptyResult,
			"total":        len(recs),
			"offset":       offset,
			"rows":         recs[offset:end],
		})
	}
}

func temporalOnly(records []SalesRecord) []SalesRecord {
	out := make([]SalesRecord, 0, len(records))
	for _, rec := range records {
		if rec.HasOrderDate() {
			out = append(out, rec)
		}
	}
	return out
}
