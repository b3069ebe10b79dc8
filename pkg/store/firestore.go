package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/goliatone/go-formpipe/pkg/fail"
)

const (
	formsCollection       = "forms"
	submissionsCollection = "submissions"
)

// FirestoreStore implements Store over a Firestore database.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestore wraps an existing Firestore client.
func NewFirestore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// FormRecord fetches the form document's raw data.
func (s *FirestoreStore) FormRecord(ctx context.Context, formID string) (map[string]any, error) {
	snap, err := s.client.Collection(formsCollection).Doc(formID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fail.NotFound("form does not exist", formID)
	}
	if err != nil {
		return nil, fail.Internal("fetch form record", err)
	}
	return snap.Data(), nil
}

// IncrementSubmissionCount applies an atomic server-side increment and
// stamps the last-submission time.
func (s *FirestoreStore) IncrementSubmissionCount(ctx context.Context, formID string) error {
	_, err := s.client.Collection(formsCollection).Doc(formID).Update(ctx, []firestore.Update{
		{Path: "submissionCount", Value: firestore.Increment(1)},
		{Path: "lastSubmissionAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fail.Internal("increment submission count", err)
	}
	return nil
}

// RecordPDFURL merges the download URL into the submission document.
func (s *FirestoreStore) RecordPDFURL(ctx context.Context, formID, submissionID, url string) error {
	_, err := s.client.Collection(formsCollection).Doc(formID).
		Collection(submissionsCollection).Doc(submissionID).
		Set(ctx, map[string]any{"pdfUrl": url}, firestore.MergeAll)
	if err != nil {
		return fail.Internal("record pdf url", err)
	}
	return nil
}
