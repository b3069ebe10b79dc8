package store

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-formpipe/pkg/fail"
)

// MemoryStore is an in-memory Store for tests and local runs.
type MemoryStore struct {
	mu      sync.Mutex
	forms   map[string]map[string]any
	pdfURLs map[string]string
	now     func() time.Time
}

// NewMemory builds an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		forms:   map[string]map[string]any{},
		pdfURLs: map[string]string{},
		now:     time.Now,
	}
}

// PutForm seeds a form record.
func (s *MemoryStore) PutForm(formID string, record map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms[formID] = record
}

// FormRecord returns a shallow copy of the stored record.
func (s *MemoryStore) FormRecord(_ context.Context, formID string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.forms[formID]
	if !ok {
		return nil, fail.NotFound("form does not exist", formID)
	}
	copied := make(map[string]any, len(record))
	for k, v := range record {
		copied[k] = v
	}
	return copied, nil
}

// IncrementSubmissionCount bumps the counter and stamps the time.
func (s *MemoryStore) IncrementSubmissionCount(_ context.Context, formID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.forms[formID]
	if !ok {
		return fail.NotFound("form does not exist", formID)
	}
	count, _ := record["submissionCount"].(int64)
	record["submissionCount"] = count + 1
	record["lastSubmissionAt"] = s.now()
	return nil
}

// RecordPDFURL stores the URL keyed by form and submission id.
func (s *MemoryStore) RecordPDFURL(_ context.Context, formID, submissionID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pdfURLs[formID+"/"+submissionID] = url
	return nil
}

// PDFURL reads back a recorded URL, for assertions.
func (s *MemoryStore) PDFURL(formID, submissionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pdfURLs[formID+"/"+submissionID]
}
