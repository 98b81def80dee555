package sales

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"SalesOpsSaas/api"
	"SalesOpsSaas/api/constants"
	"SalesOpsSaas/internal/checksum"

	"github.com/google/uuid"
)

// UploadHandler ingests one spreadsheet (multipart field "file"),
// validates the columns, derives every calculated field and stores the
// dataset in memory. Re-uploading identical bytes returns the existing
// dataset instead of re-ingesting.
func UploadHandler(store *DatasetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		// 32MB cap, same as the other upload surfaces
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to parse form data")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrNoFileProvided)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read file: %v", err))
			return
		}

		fileHash := checksum.Digest(data)
		if existing, ok := store.FindByHash(fileHash); ok {
			api.RespondWithPayload(w, true, "", map[string]interface{}{
				"dataset_id":    existing.ID,
				"duplicate":     true,
				"total_records": len(existing.Records),
				"invalid_dates": existing.InvalidDates,
				"message":       "Duplicate upload detected - returning existing dataset",
			})
			return
		}

		table, err := ParseUpload(data, header.Filename)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := ValidateColumns(table.Headers); err != nil {
			var missing *MissingColumnsError
			if errors.As(err, &missing) {
				w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success":         false,
					"error":           err.Error(),
					"missing_columns": missing.Columns,
				})
				return
			}
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		records, invalidDates, report := BuildRecords(table)
		if len(records) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrEmptyFile)
			return
		}
		records = DeriveAll(records)

		ds := &Dataset{
			ID:           uuid.New().String(),
			FileName:     header.Filename,
			FileHash:     fileHash,
			CreatedAt:    time.Now(),
			Records:      records,
			InvalidDates: invalidDates,
			Coercions:    report,
		}
		store.Put(ds)

		api.LogInfo("Sales upload completed: %s, %d records (%d invalid dates) in %v",
			header.Filename, len(records), invalidDates, time.Since(startTime))

		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"dataset_id":      ds.ID,
			"file_name":       ds.FileName,
			"total_records":   len(records),
			"invalid_dates":   invalidDates,
			"coercions":       report,
			"processing_time": time.Since(startTime).String(),
		})
	}
}
