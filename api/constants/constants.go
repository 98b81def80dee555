package constants

// Common error messages
const (
	ErrInvalidJSON        = "invalid json or missing fields"
	ErrInvalidRequestBody = "Invalid request body"
	ErrMethodNotAllowed   = "Method Not Allowed"
	ErrMissingDatasetID   = "dataset_id is required in the request"
	ErrDatasetNotFound    = "Dataset not found or expired. Please upload the file again"
	ErrNoFileProvided     = "No file provided. Attach the spreadsheet under the 'file' form field"
	ErrUnsupportedFile    = "Unsupported file type. Upload a .csv, .xlsx or .xls file"
	ErrEmptyFile          = "The uploaded file has no data rows"
)

// Content Types
const (
	ContentTypeHeader = "Content-Type"
	ContentTypeJSON   = "application/json"
	ContentTypeCSV    = "text/csv"
	ContentTypeXLSX   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Date formats
const (
	DateTimeFormat     = "2006-01-02 15:04:05"
	DateFormat         = "2006-01-02"
	DateFormatDayFirst = "02-01-2006"
)
