// Package store persists form records and submission bookkeeping. The
// production implementation sits on Firestore; an in-memory variant
// backs tests and the CLI dry-run path.
package store

import "context"

// Store is the form-record backend the pipeline reads and updates.
type Store interface {
	// FormRecord fetches the raw form document by id. Returns a
	// not-found error when no such form exists.
	FormRecord(ctx context.Context, formID string) (map[string]any, error)

	// IncrementSubmissionCount bumps the form's submission counter and
	// stamps the last-submission time.
	IncrementSubmissionCount(ctx context.Context, formID string) error

	// RecordPDFURL persists the artifact download URL on the submission
	// record, creating it when absent.
	RecordPDFURL(ctx context.Context, formID, submissionID, url string) error
}
