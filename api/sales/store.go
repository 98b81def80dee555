package sales

import (
	"sync"
	"time"
)

// Dataset is one processed upload: validated and derived records plus
// the ingest warnings. Records are immutable; handlers read them
// through filter views.
type Dataset struct {
	ID           string         `json:"dataset_id"`
	FileName     string         `json:"file_name"`
	FileHash     string         `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	Records      []SalesRecord  `json:"-"`
	InvalidDates int            `json:"invalid_dates"`
	Coercions    CoercionReport `json:"coercions,omitempty"`
}

// DatasetStore keeps uploaded datasets in memory. Each upload is
// processed synchronously and owns its record slice; the store only
// guards the dataset map. Datasets expire after the retention period
// (swept by the cron janitor) and the oldest is evicted when the cap
// is hit.
type DatasetStore struct {
	mu        sync.RWMutex
	byID      map[string]*Dataset
	byHash    map[string]string
	retention time.Duration
	maxCount  int
}

func NewDatasetStore(retention time.Duration, maxCount int) *DatasetStore {
	return &DatasetStore{
		byID:      make(map[string]*Dataset),
		byHash:    make(map[string]string),
		retention: retention,
		maxCount:  maxCount,
	}
}

func (s *DatasetStore) Put(ds *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxCount > 0 && len(s.byID) >= s.maxCount {
		s.evictOldestLocked()
	}
	s.byID[ds.ID] = ds
	if ds.FileHash != "" {
		s.byHash[ds.FileHash] = ds.ID
	}
}

func (s *DatasetStore) Get(id string) (*Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.byID[id]
	return ds, ok
}

// FindByHash returns an existing dataset for identical file bytes, for
// idempotent re-uploads.
func (s *DatasetStore) FindByHash(hash string) (*Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byHash[hash]
	if !ok {
		return nil, false
	}
	ds, ok := s.byID[id]
	return ds, ok
}

func (s *DatasetStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(id)
}

func (s *DatasetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// SweepExpired removes datasets past the retention window and returns
// how many were dropped. A zero retention disables expiry.
func (s *DatasetStore) SweepExpired() int {
	if s.retention <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-s.retention)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, ds := range s.byID {
		if ds.CreatedAt.Before(cutoff) {
			s.deleteLocked(id)
			removed++
		}
	}
	return removed
}

func (s *DatasetStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, ds := range s.byID {
		if oldestID == "" || ds.CreatedAt.Before(oldest) {
			oldestID = id
			oldest = ds.CreatedAt
		}
	}
	if oldestID != "" {
		s.deleteLocked(oldestID)
	}
}

func (s *DatasetStore) deleteLocked(id string) {
	if ds, ok := s.byID[id]; ok {
		if ds.FileHash != "" && s.byHash[ds.FileHash] == id {
			delete(s.byHash, ds.FileHash)
		}
		delete(s.byID, id)
	}
}
