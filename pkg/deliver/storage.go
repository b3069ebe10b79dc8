package deliver

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/fail"
)

// signedURLTTL bounds how long a production download link stays valid.
const signedURLTTL = 7 * 24 * time.Hour

// BlobStore abstracts the object-storage operations the channel needs.
// The production implementation wraps a GCS bucket handle.
type BlobStore interface {
	Upload(ctx context.Context, object string, data []byte, contentType string) error
	SignedURL(object string, expiry time.Duration) (string, error)
}

// URLRecorder persists the download URL on the submission record after
// upload, creating the field when it does not exist yet.
type URLRecorder interface {
	RecordPDFURL(ctx context.Context, formID, submissionID, url string) error
}

// StorageChannel uploads the artifact to object storage and returns a
// download URL: time-limited signed in production, emulator-addressable
// in development.
type StorageChannel struct {
	store        BlobStore
	bucket       string
	emulatorHost string
	recorder     URLRecorder
	now          func() time.Time
}

// StorageOption customises a StorageChannel.
type StorageOption func(*StorageChannel)

// WithURLRecorder persists pdfUrl on the submission record after upload.
func WithURLRecorder(recorder URLRecorder) StorageOption {
	return func(c *StorageChannel) {
		c.recorder = recorder
	}
}

// WithStorageClock injects the result timestamp clock.
func WithStorageClock(now func() time.Time) StorageOption {
	return func(c *StorageChannel) {
		if now != nil {
			c.now = now
		}
	}
}

// NewStorage constructs the channel over an existing BlobStore. The
// emulator host comes from the standard STORAGE_EMULATOR_HOST signal
// unless the configuration overrides it.
func NewStorage(store BlobStore, cfg config.Storage, options ...StorageOption) (*StorageChannel, error) {
	if err := (config.Config{Channel: config.ChannelStorage, Storage: cfg}).Validate(); err != nil {
		return nil, err
	}
	emulator := cfg.EmulatorHost
	if emulator == "" {
		emulator = strings.TrimSpace(os.Getenv(config.EnvStorageEmulator))
	}

	c := &StorageChannel{
		store:        store,
		bucket:       cfg.Bucket,
		emulatorHost: emulator,
		now:          time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Name reports the channel identity.
func (c *StorageChannel) Name() config.Channel {
	return config.ChannelStorage
}

// Deliver uploads the artifact under a path namespaced by form and
// submission id, resolves the download URL, and records it on the
// submission.
func (c *StorageChannel) Deliver(ctx context.Context, delivery Delivery) (Result, error) {
	object := fmt.Sprintf("forms/%s/submissions/%s.pdf", delivery.FormID, delivery.SubmissionID)

	if err := c.store.Upload(ctx, object, delivery.Artifact, "application/pdf"); err != nil {
		return Result{}, fail.Internal("upload artifact", err)
	}

	var locator string
	if c.emulatorHost != "" {
		locator = c.emulatorURL(object)
	} else {
		signed, err := c.store.SignedURL(object, signedURLTTL)
		if err != nil {
			return Result{}, fail.Internal("sign download url", err)
		}
		locator = signed
	}

	if c.recorder != nil {
		if err := c.recorder.RecordPDFURL(ctx, delivery.FormID, delivery.SubmissionID, locator); err != nil {
			return Result{}, fail.Internal("record pdf url", err)
		}
	}

	return Result{
		Channel:     config.ChannelStorage,
		Locator:     locator,
		Destination: c.bucket + "/" + object,
		Timestamp:   c.now(),
	}, nil
}

func (c *StorageChannel) emulatorURL(object string) string {
	host := c.emulatorHost
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", host, c.bucket, url.PathEscape(object))
}

// GCSBlobStore implements BlobStore over a Google Cloud Storage bucket.
type GCSBlobStore struct {
	client *storage.Client
	bucket string
}

// NewGCSBlobStore wraps an existing GCS client. The client uses
// application default credentials unless the caller configured it
// otherwise.
func NewGCSBlobStore(client *storage.Client, bucket string) *GCSBlobStore {
	return &GCSBlobStore{client: client, bucket: bucket}
}

// Upload writes the object, replacing any previous content.
func (s *GCSBlobStore) Upload(ctx context.Context, object string, data []byte, contentType string) error {
	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcs write %q: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %q: %w", object, err)
	}
	return nil
}

// SignedURL issues a V4 GET URL for the object.
func (s *GCSBlobStore) SignedURL(object string, expiry time.Duration) (string, error) {
	return s.client.Bucket(s.bucket).SignedURL(object, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	})
}
