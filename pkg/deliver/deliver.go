// Package deliver routes a compiled submission artifact through exactly
// one configured delivery channel: email attachment, object-storage
// upload, or a hierarchical drive upload.
package deliver

import (
	"context"
	"time"

	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/render"
	"github.com/goliatone/go-formpipe/pkg/schema"
)

// Delivery carries everything a channel needs to place one artifact.
type Delivery struct {
	FormID       string
	SubmissionID string
	Form         schema.FormDefinition
	Document     render.Result
	Artifact     []byte
}

// Result reports where the artifact went. It is the only pipeline value
// echoed back to the caller.
type Result struct {
	Channel     config.Channel
	Locator     string
	Recipients  []string
	Destination string
	Timestamp   time.Time
}

// Channel is one delivery mechanism. Implementations validate their own
// per-delivery inputs (recipients, destinations) and classify transport
// failures as internal errors; retries are the caller's concern.
type Channel interface {
	Name() config.Channel
	Deliver(ctx context.Context, delivery Delivery) (Result, error)
}
