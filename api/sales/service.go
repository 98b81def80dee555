package sales

import (
	"fmt"
	"log"
	"net/http"

	"SalesOpsSaas/api"
	"SalesOpsSaas/internal/serviceiface"

	"github.com/gorilla/mux"
)

// SalesService runs the sales analytics HTTP surface on its own port,
// reading and writing the shared in-memory dataset store.
type SalesService struct {
	config map[string]interface{}
	store  *DatasetStore
}

func NewSalesService(cfg map[string]interface{}, store *DatasetStore) serviceiface.Service {
	return &SalesService{config: cfg, store: store}
}

func (s *SalesService) Name() string {
	return "sales"
}

func (s *SalesService) Start() error {
	port := 7143
	if s.config != nil {
		switch p := s.config["port"].(type) {
		case int:
			if p > 0 {
				port = p
			}
		case float64:
			if p > 0 {
				port = int(p)
			}
		}
	}
	go StartSalesService(s.store, port)
	return nil
}

func (s *SalesService) Stop() error {
	// Datasets live only in memory; nothing to flush.
	return nil
}

// StartSalesService wires the routes and serves until the process
// exits.
func StartSalesService(store *DatasetStore, port int) {
	router := mux.NewRouter()
	router.Use(api.RequestLogger)

	router.HandleFunc("/sales/upload", UploadHandler(store)).Methods("POST")
	router.HandleFunc("/sales/summary", SummaryHandler(store)).Methods("POST")
	router.HandleFunc("/sales/charts", ChartsHandler(store)).Methods("POST")
	router.HandleFunc("/sales/top", TopHandler(store)).Methods("POST")
	router.HandleFunc("/sales/rfm", RFMHandler(store)).Methods("POST")
	router.HandleFunc("/sales/records", RecordsHandler(store)).Methods("POST")
	router.HandleFunc("/sales/export", ExportHandler(store)).Methods("POST")

	router.HandleFunc("/sales/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Sales Service is healthy"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%d", port)
	log.Println("Sales Service started on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Sales Service failed: %v", err)
	}
}
