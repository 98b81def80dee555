package jobs

import (
	"fmt"
	"log"
	"time"

	"SalesOpsSaas/api/sales"
	"SalesOpsSaas/internal/config"
	"SalesOpsSaas/internal/logger"
	"SalesOpsSaas/internal/serviceiface"

	"github.com/robfig/cron/v3"
)

// CronService runs the periodic dataset janitor: uploaded record sets
// are ephemeral and get swept out of the in-memory store once they age
// past retention.
type CronService struct {
	cfg   map[string]interface{}
	store *sales.DatasetStore
	cron  *cron.Cron
}

func NewCronService(cfg map[string]interface{}, store *sales.DatasetStore) serviceiface.Service {
	return &CronService{cfg: cfg, store: store}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	schedule := config.DefaultSweepSchedule
	if s.cfg != nil {
		if v, ok := s.cfg["sweep_schedule"].(string); ok && v != "" {
			schedule = v
		}
	}

	loc, err := time.LoadLocation(config.DefaultTimeZone)
	if err != nil {
		loc = time.UTC
	}
	s.cron = cron.New(cron.WithLocation(loc))
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return fmt.Errorf("failed to schedule dataset sweep: %w", err)
	}
	s.cron.Start()

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("Cron service started, dataset retention sweep scheduled")
	}
	log.Printf("Cron service started, dataset sweep on %q", schedule)
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	log.Println("Cron service stopped.")
	return nil
}

func (s *CronService) sweep() {
	removed := s.store.SweepExpired()
	if removed > 0 {
		log.Printf("[INFO] Dataset sweep removed %d expired dataset(s), %d resident", removed, s.store.Len())
	}
}
