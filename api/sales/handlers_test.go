package sales

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestCSV = `Order_ID,Order_Date,Customer_Name,City,Product_Category,Product_Name,Quantity,Unit_Price,Discount_Percent,Order_Status,Delivery_Days,Payment_Mode,Sales_Channel
1,05-01-2024,amit sharma,Pune,Electronics,Laptop,1,40000,0,Delivered,2,UPI,Online
2,20-02-2024,neha,Mumbai,Clothing,Jacket,2,6000,10,Delivered,5,Card,Retail
3,10-03-2024,ravi,Pune,Clothing,Shirt,1,1500,0,Returned,3,UPI,Online
`

func multipartUpload(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/sales/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func uploadDataset(t *testing.T, store *DatasetStore, csvBody string) string {
	t.Helper()
	rec := httptest.NewRecorder()
	UploadHandler(store)(rec, multipartUpload(t, "sales.csv", csvBody))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	id, _ := resp["dataset_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestUploadHandler_IngestsAndStores(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	rec := httptest.NewRecorder()
	UploadHandler(store)(rec, multipartUpload(t, "sales.csv", handlerTestCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(3), resp["total_records"])
	assert.Equal(t, float64(0), resp["invalid_dates"])

	ds, ok := store.Get(resp["dataset_id"].(string))
	require.True(t, ok)
	assert.Equal(t, "sales.csv", ds.FileName)
	assert.Len(t, ds.Records, 3)
	// derivation ran during ingest
	assert.Equal(t, ValueCategoryHigh, ds.Records[0].OrderValueCategory)
}

func TestUploadHandler_DuplicateBytesReturnExistingDataset(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	first := uploadDataset(t, store, handlerTestCSV)

	rec := httptest.NewRecorder()
	UploadHandler(store)(rec, multipartUpload(t, "renamed.csv", handlerTestCSV))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["duplicate"])
	assert.Equal(t, first, resp["dataset_id"])
	assert.Equal(t, 1, store.Len())
}

func TestUploadHandler_MissingColumnsIs400WithList(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	badCSV := "Order_Date,City\n05-01-2024,Pune\n"

	rec := httptest.NewRecorder()
	UploadHandler(store)(rec, multipartUpload(t, "bad.csv", badCSV))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	missing, ok := resp["missing_columns"].([]interface{})
	require.True(t, ok, "response must enumerate the missing columns")
	assert.Contains(t, missing, ColCustomerName)
	assert.Contains(t, missing, ColUnitPrice)
	assert.Zero(t, store.Len(), "invalid upload must not create a dataset")
}

func TestUploadHandler_UnsupportedExtension(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	rec := httptest.NewRecorder()
	UploadHandler(store)(rec, multipartUpload(t, "sales.pdf", handlerTestCSV))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadHandler_NoFileField(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/sales/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	UploadHandler(store)(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSummaryHandler_FilteredKPIs(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	id := uploadDataset(t, store, handlerTestCSV)

	rec := postJSON(t, SummaryHandler(store), "/sales/summary", map[string]interface{}{
		"dataset_id": id,
		"filter":     map[string]interface{}{"cities": []string{"Pune"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success     bool    `json:"success"`
		EmptyResult bool    `json:"empty_result"`
		Summary     Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.EmptyResult)
	assert.Equal(t, 2, resp.Summary.TotalOrders)
	assert.InDelta(t, 41500.0, resp.Summary.TotalSales, 0.001)
}

func TestSummaryHandler_UnknownDatasetIs404(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	rec := postJSON(t, SummaryHandler(store), "/sales/summary", map[string]interface{}{
		"dataset_id": "nope",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummaryHandler_MissingDatasetIDIs400(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	rec := postJSON(t, SummaryHandler(store), "/sales/summary", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryHandler_EmptyFilterResultFlagged(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	id := uploadDataset(t, store, handlerTestCSV)

	rec := postJSON(t, SummaryHandler(store), "/sales/summary", map[string]interface{}{
		"dataset_id": id,
		"filter":     map[string]interface{}{"cities": []string{"Chennai"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		EmptyResult bool    `json:"empty_result"`
		Summary     Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.EmptyResult)
	assert.Zero(t, resp.Summary.TotalOrders)
}

func TestChartsHandler_ReturnsEveryAggregate(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	id := uploadDataset(t, store, handlerTestCSV)

	rec := postJSON(t, ChartsHandler(store), "/sales/charts", map[string]interface{}{
		"dataset_id": id,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for _, key := range []string{
		"value_category_counts", "fast_delivery_counts", "delivery_status_counts",
		"sales_by_city", "sales_by_category", "sales_by_payment_mode",
		"sales_by_channel", "sales_by_day_of_week", "monthly_trend",
		"sales_histogram", "month_category_pivot",
	} {
		assert.Contains(t, resp, key)
	}
	byCity := resp["sales_by_city"].(map[string]interface{})
	assert.InDelta(t, 41500.0, byCity["Pune"].(float64), 0.001)
}

func TestChartsHandler_HonorsHistogramBins(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	id := uploadDataset(t, store, handlerTestCSV)

	rec := postJSON(t, ChartsHandler(store), "/sales/charts", map[string]interface{}{
		"dataset_id":     id,
		"histogram_bins": 4,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Histogram []HistBin `json:"sales_histogram"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Histogram, 4)
}

func TestTopHandler_RejectsUnknownDimension(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	id := uploadDataset(t, store, handlerTestCSV)

	rec := postJSON(t, TopHandler(store), "/sales/top", map[string]interface{}{
		"dataset_id": id,
		"dimension":  "planets",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTopHandler_Customers(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	id := uploadDataset(t, store, handlerTestCSV)

	rec := postJSON(t, TopHandler(store), "/sales/top", map[string]interface{}{
		"dataset_id": id,
		"dimension":  "customers",
		"n":          1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Top []RankEntry `json:"top"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Top, 1)
	assert.Equal(t, "Amit Sharma", resp.Top[0].Key)
}

func TestRecordsHandler_Pagination(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	id := uploadDataset(t, store, handlerTestCSV)

	rec := postJSON(t, RecordsHandler(store), "/sales/records", map[string]interface{}{
		"dataset_id": id,
		"offset":     1,
		"limit":      1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total int           `json:"total"`
		Rows  []SalesRecord `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "neha", resp.Rows[0].CustomerName)
}

func TestRecordsHandler_OffsetPastEnd(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	id := uploadDataset(t, store, handlerTestCSV)

	rec := postJSON(t, RecordsHandler(store), "/sales/records", map[string]interface{}{
		"dataset_id": id,
		"offset":     99,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rows []SalesRecord `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Rows)
}

func TestExportHandler_CSVAttachment(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	id := uploadDataset(t, store, handlerTestCSV)

	rec := postJSON(t, ExportHandler(store), "/sales/export", map[string]interface{}{
		"dataset_id": id,
		"format":     "csv",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "processed_sales_data.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 4) // header + 3 rows
	assert.True(t, strings.HasPrefix(lines[0], ColOrderID+","))
}

func TestExportHandler_BadFormat(t *testing.T) {
	store := NewDatasetStore(time.Hour, 10)
	id := uploadDataset(t, store, handlerTestCSV)

	rec := postJSON(t, ExportHandler(store), "/sales/export", map[string]interface{}{
		"dataset_id": id,
		"format":     "parquet",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
