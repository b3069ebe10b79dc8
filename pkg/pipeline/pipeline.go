// Package pipeline orchestrates one submission end to end: load the
// form, normalize its schema, render the document, compile the
// artifact, deliver it, and record the submission.
package pipeline

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formpipe/pkg/assets"
	"github.com/goliatone/go-formpipe/pkg/deliver"
	"github.com/goliatone/go-formpipe/pkg/fail"
	"github.com/goliatone/go-formpipe/pkg/render"
	"github.com/goliatone/go-formpipe/pkg/schema"
	"github.com/goliatone/go-formpipe/pkg/store"
)

// Request is one submission to process.
type Request struct {
	FormID           string
	Answers          render.AnswerSet
	SignatureDataURL string
}

// Compiler turns a rendered HTML document into PDF bytes.
type Compiler interface {
	Compile(ctx context.Context, document string) ([]byte, error)
}

// Pipeline runs submissions through the fixed stage sequence.
type Pipeline struct {
	store     store.Store
	assets    assets.Loader
	compiler  Compiler
	channel   deliver.Channel
	logger    *zap.Logger
	newID     func() string
	renderOps []render.Option
}

// New wires a pipeline from its stage implementations.
func New(st store.Store, loader assets.Loader, compiler Compiler, channel deliver.Channel, options ...Option) *Pipeline {
	p := &Pipeline{
		store:    st,
		assets:   loader,
		compiler: compiler,
		channel:  channel,
		logger:   zap.NewNop(),
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Submit processes one submission and reports where the artifact went.
// Validation failures, unknown forms, and missing deployment assets
// surface as typed errors before the rendering engine ever launches.
// Ledger failures after successful delivery are logged and swallowed.
func (p *Pipeline) Submit(ctx context.Context, req Request) (deliver.Result, error) {
	formID := strings.TrimSpace(req.FormID)
	if formID == "" {
		return deliver.Result{}, fail.InvalidArgument("formId is required")
	}
	if req.Answers == nil {
		return deliver.Result{}, fail.InvalidArgument("answers are required")
	}

	record, err := p.store.FormRecord(ctx, formID)
	if err != nil {
		return deliver.Result{}, err
	}
	form := schema.FormFromRecord(formID, record)

	loaded, err := p.assets.Load()
	if err != nil {
		return deliver.Result{}, err
	}

	renderer := render.New(loaded, p.renderOps...)
	document, err := renderer.Render(form, req.Answers, req.SignatureDataURL)
	if err != nil {
		return deliver.Result{}, err
	}

	artifact, err := p.compiler.Compile(ctx, document.HTML)
	if err != nil {
		return deliver.Result{}, err
	}

	submissionID := p.newID()
	result, err := p.channel.Deliver(ctx, deliver.Delivery{
		FormID:       formID,
		SubmissionID: submissionID,
		Form:         form,
		Document:     document,
		Artifact:     artifact,
	})
	if err != nil {
		return deliver.Result{}, err
	}
	p.logger.Info("submission delivered",
		zap.String("formId", formID),
		zap.String("submissionId", submissionID),
		zap.String("channel", string(result.Channel)),
		zap.String("locator", result.Locator),
	)

	p.recordSubmission(ctx, formID)

	return result, nil
}

// recordSubmission bumps the form's submission counter after a
// successful delivery. Bookkeeping never fails a delivered submission;
// errors are logged and swallowed.
func (p *Pipeline) recordSubmission(ctx context.Context, formID string) {
	if err := p.store.IncrementSubmissionCount(ctx, formID); err != nil {
		p.logger.Warn("submission count increment failed",
			zap.String("formId", formID),
			zap.Error(err),
		)
	}
}
