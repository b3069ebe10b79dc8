package pipeline

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formpipe/pkg/render"
)

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithLogger attaches a structured logger. The default discards
// everything.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRenderOptions forwards options to the document renderer, such as
// alternate leading-row labels or a fixed clock.
func WithRenderOptions(options ...render.Option) Option {
	return func(p *Pipeline) {
		p.renderOps = append(p.renderOps, options...)
	}
}

// WithIDGenerator replaces the submission id generator.
func WithIDGenerator(newID func() string) Option {
	return func(p *Pipeline) {
		if newID != nil {
			p.newID = newID
		}
	}
}
