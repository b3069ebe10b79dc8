// Package formpipe renders form submissions into PDF documents and
// delivers them through a configured channel. It re-exports the
// pipeline entry points so most callers only import the root package.
package formpipe

import (
	"context"

	"github.com/goliatone/go-formpipe/pkg/assets"
	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/deliver"
	"github.com/goliatone/go-formpipe/pkg/pdf"
	"github.com/goliatone/go-formpipe/pkg/pipeline"
	"github.com/goliatone/go-formpipe/pkg/store"
)

// Request is one submission to process.
type Request = pipeline.Request

// Result reports where the compiled artifact went.
type Result = deliver.Result

// Option customises the pipeline.
type Option = pipeline.Option

// WithLogger attaches a structured logger to the pipeline.
var WithLogger = pipeline.WithLogger

// New wires a pipeline from explicit stage implementations. Most
// callers use NewFromEnv instead.
func New(st store.Store, loader assets.Loader, compiler pipeline.Compiler, channel deliver.Channel, options ...Option) *pipeline.Pipeline {
	return pipeline.New(st, loader, compiler, channel, options...)
}

// NewFromEnv resolves the deployment configuration, selects the
// delivery channel it names, and wires a pipeline over the given store.
// Channel misconfiguration surfaces here, before the first submission.
func NewFromEnv(ctx context.Context, st store.Store, options ...Option) (*pipeline.Pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	channel, err := deliver.Select(ctx, cfg, st)
	if err != nil {
		return nil, err
	}
	compiler := pdf.New(pdf.ProfileFromEnv())
	loader := assets.NewLoader(cfg.AssetsDir)
	return pipeline.New(st, loader, compiler, channel, options...), nil
}

// Submit processes one submission through a pipeline built from the
// environment. It is the simplest entry point for callers that just
// want a delivered PDF.
func Submit(ctx context.Context, st store.Store, req Request, options ...Option) (Result, error) {
	p, err := NewFromEnv(ctx, st, options...)
	if err != nil {
		return Result{}, err
	}
	return p.Submit(ctx, req)
}
