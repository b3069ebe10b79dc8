package store_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-formpipe/pkg/fail"
	"github.com/goliatone/go-formpipe/pkg/store"
)

func TestMemoryFormRecordNotFound(t *testing.T) {
	s := store.NewMemory()
	_, err := s.FormRecord(context.Background(), "missing")
	if !fail.IsKind(err, fail.KindNotFound) {
		t.Fatalf("FormRecord error = %v, want not-found", err)
	}
}

func TestMemoryFormRecordCopies(t *testing.T) {
	s := store.NewMemory()
	s.PutForm("form-1", map[string]any{"title": "Trip Form"})

	record, err := s.FormRecord(context.Background(), "form-1")
	if err != nil {
		t.Fatalf("FormRecord: %v", err)
	}
	record["title"] = "mutated"

	again, err := s.FormRecord(context.Background(), "form-1")
	if err != nil {
		t.Fatalf("FormRecord: %v", err)
	}
	if again["title"] != "Trip Form" {
		t.Fatalf("stored record mutated through returned copy: %v", again)
	}
}

func TestMemoryIncrementSubmissionCount(t *testing.T) {
	s := store.NewMemory()
	s.PutForm("form-1", map[string]any{"submissionCount": int64(2)})

	for i := 0; i < 3; i++ {
		if err := s.IncrementSubmissionCount(context.Background(), "form-1"); err != nil {
			t.Fatalf("IncrementSubmissionCount: %v", err)
		}
	}

	record, err := s.FormRecord(context.Background(), "form-1")
	if err != nil {
		t.Fatalf("FormRecord: %v", err)
	}
	if got := record["submissionCount"]; got != int64(5) {
		t.Fatalf("submissionCount = %v, want 5", got)
	}
	if record["lastSubmissionAt"] == nil {
		t.Fatal("lastSubmissionAt not stamped")
	}
}

func TestMemoryRecordPDFURL(t *testing.T) {
	s := store.NewMemory()
	if err := s.RecordPDFURL(context.Background(), "form-1", "sub-1", "https://example.com/a.pdf"); err != nil {
		t.Fatalf("RecordPDFURL: %v", err)
	}
	if got := s.PDFURL("form-1", "sub-1"); got != "https://example.com/a.pdf" {
		t.Fatalf("PDFURL = %q", got)
	}
}
