package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"SalesOpsSaas/api/sales"
	"SalesOpsSaas/internal/appmanager"
	"SalesOpsSaas/internal/config"
)

func datasetStoreFromEnv() *sales.DatasetStore {
	retention := config.DefaultRetentionMinutes
	if v := os.Getenv("DATASET_RETENTION_MINUTES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			retention = parsed
		}
	}
	maxDatasets := config.DefaultMaxDatasets
	if v := os.Getenv("DATASET_MAX_COUNT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxDatasets = parsed
		}
	}
	return sales.NewDatasetStore(time.Duration(retention)*time.Minute, maxDatasets)
}

func main() {
	// Load .env for local dev
	_ = godotenv.Load(".env")

	// The in-memory dataset store is shared by the sales service and
	// the retention janitor.
	appmanager.SetDatasetStore(datasetStoreFromEnv())

	manager := appmanager.NewAppManager()

	// Load service configs from YAML
	servicesCfg, err := appmanager.LoadServiceSequence("services.yaml")
	if err != nil {
		log.Fatal("failed to load service sequence:", err)
	}

	// Automatically register all services
	manager.AutoRegisterServices(servicesCfg)

	// Start all services
	if err := manager.StartAll(); err != nil {
		log.Fatal("failed to start:", err)
	}

	// Graceful shutdown handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	// Stop all services
	if err := manager.StopAll(); err != nil {
		log.Fatal("failed to stop:", err)
	}
}
