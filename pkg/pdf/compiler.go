package pdf

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/goliatone/go-formpipe/pkg/fail"
)

// A4 output with the product's print margins, in inches.
const (
	paperWidthIn   = 8.27
	paperHeightIn  = 11.69
	marginTopIn    = 0.79 // 20mm
	marginBottomIn = 0.79
	marginLeftIn   = 0.59 // 15mm
	marginRightIn  = 0.59
)

// settleTimeout bounds how long Compile waits for the loaded document to
// go idle before printing.
const settleTimeout = 10 * time.Second

// Session is one scoped engine acquisition: load content, print, close.
// Close must be safe to call after a failed step and is called exactly
// once per compilation.
type Session interface {
	SetContent(html string) error
	PDF() ([]byte, error)
	Close() error
}

// SessionFactory opens a Session. The default factory launches a
// Chromium process per the compiler's profile; tests substitute fakes.
type SessionFactory func(ctx context.Context) (Session, error)

// Compiler turns rendered documents into PDF artifacts.
type Compiler struct {
	profile Profile
	open    SessionFactory
}

// Option customises a Compiler.
type Option func(*Compiler)

// WithSessionFactory replaces the engine launcher. Used by tests and by
// deployments that keep a warm browser.
func WithSessionFactory(factory SessionFactory) Option {
	return func(c *Compiler) {
		if factory != nil {
			c.open = factory
		}
	}
}

// New constructs a Compiler for the given launch profile.
func New(profile Profile, options ...Option) *Compiler {
	c := &Compiler{profile: profile}
	c.open = c.launchSession
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Compile loads the document into a fresh engine session, waits for it
// to settle, and prints it as A4 with backgrounds enabled and CSS page
// size honored. The session is closed on success and failure alike.
func (c *Compiler) Compile(ctx context.Context, document string) ([]byte, error) {
	if strings.TrimSpace(document) == "" {
		return nil, fail.InvalidArgument("document is empty")
	}

	session, err := c.open(ctx)
	if err != nil {
		return nil, fail.Internal("launch rendering engine", err)
	}
	defer func() {
		_ = session.Close()
	}()

	if err := session.SetContent(document); err != nil {
		return nil, fail.Internal("load document into rendering engine", err)
	}
	artifact, err := session.PDF()
	if err != nil {
		return nil, fail.Internal("print document", err)
	}
	if len(artifact) == 0 {
		return nil, fail.Internalf("rendering engine produced an empty artifact")
	}
	return artifact, nil
}

// chromeSession owns the launched process, the DevTools connection, and
// the single page used for printing.
type chromeSession struct {
	launch  *launcher.Launcher
	browser *rod.Browser
	page    *rod.Page
	profile Profile
}

func (c *Compiler) launchSession(ctx context.Context) (Session, error) {
	launch := launcher.New().Headless(true)
	if c.profile.ExecutablePath != "" {
		launch = launch.Bin(c.profile.ExecutablePath)
	}
	for _, rawFlag := range c.profile.Flags {
		flagStr := strings.TrimLeft(rawFlag, "-")
		name, value, hasValue := strings.Cut(flagStr, "=")
		if hasValue {
			launch = launch.Set(flags.Flag(name), value)
		} else {
			launch = launch.Set(flags.Flag(name))
		}
	}

	controlURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		launch.Cleanup()
		return nil, fmt.Errorf("connect to chromium: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		launch.Cleanup()
		return nil, fmt.Errorf("open page: %w", err)
	}
	if c.profile.ViewportWidth > 0 && c.profile.ViewportHeight > 0 {
		if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             c.profile.ViewportWidth,
			Height:            c.profile.ViewportHeight,
			DeviceScaleFactor: 1,
		}); err != nil {
			_ = page.Close()
			_ = browser.Close()
			launch.Cleanup()
			return nil, fmt.Errorf("set viewport: %w", err)
		}
	}

	return &chromeSession{launch: launch, browser: browser, page: page, profile: c.profile}, nil
}

// SetContent loads the document and waits for layout and network
// activity to settle before the caller prints.
func (s *chromeSession) SetContent(html string) error {
	if err := s.page.SetDocumentContent(html); err != nil {
		return fmt.Errorf("set document content: %w", err)
	}
	if err := s.page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for load: %w", err)
	}
	if err := s.page.WaitIdle(settleTimeout); err != nil {
		return fmt.Errorf("wait for idle: %w", err)
	}
	return nil
}

// PDF prints the settled page.
func (s *chromeSession) PDF() ([]byte, error) {
	stream, err := s.page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
		PaperWidth:        ptr(paperWidthIn),
		PaperHeight:       ptr(paperHeightIn),
		MarginTop:         ptr(marginTopIn),
		MarginBottom:      ptr(marginBottomIn),
		MarginLeft:        ptr(marginLeftIn),
		MarginRight:       ptr(marginRightIn),
	})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return io.ReadAll(stream)
}

// Close releases the page, the DevTools connection, and the launched
// process. Errors from individual steps do not stop the others.
func (s *chromeSession) Close() error {
	if s.page != nil {
		_ = s.page.Close()
	}
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launch != nil {
		s.launch.Cleanup()
	}
	return err
}

func ptr(v float64) *float64 {
	return &v
}
