package pdf_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-formpipe/pkg/fail"
	"github.com/goliatone/go-formpipe/pkg/pdf"
)

type fakeSession struct {
	setContentErr error
	pdfErr        error
	pdfBytes      []byte

	contentLoaded string
	closeCount    int
}

func (f *fakeSession) SetContent(html string) error {
	f.contentLoaded = html
	return f.setContentErr
}

func (f *fakeSession) PDF() ([]byte, error) {
	if f.pdfErr != nil {
		return nil, f.pdfErr
	}
	return f.pdfBytes, nil
}

func (f *fakeSession) Close() error {
	f.closeCount++
	return nil
}

func newCompiler(session *fakeSession, launchErr error, launches *int) *pdf.Compiler {
	return pdf.New(pdf.LocalProfile(), pdf.WithSessionFactory(func(ctx context.Context) (pdf.Session, error) {
		if launches != nil {
			*launches++
		}
		if launchErr != nil {
			return nil, launchErr
		}
		return session, nil
	}))
}

func TestCompileSuccess(t *testing.T) {
	session := &fakeSession{pdfBytes: []byte("%PDF-1.7 fake")}
	compiler := newCompiler(session, nil, nil)

	artifact, err := compiler.Compile(context.Background(), "<html>doc</html>")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if string(artifact) != "%PDF-1.7 fake" {
		t.Fatalf("artifact = %q", artifact)
	}
	if session.contentLoaded != "<html>doc</html>" {
		t.Fatalf("content loaded = %q", session.contentLoaded)
	}
	if session.closeCount != 1 {
		t.Fatalf("close count = %d, want 1", session.closeCount)
	}
}

func TestCompileClosesSessionOnPrintFailure(t *testing.T) {
	session := &fakeSession{pdfErr: errors.New("target crashed")}
	compiler := newCompiler(session, nil, nil)

	_, err := compiler.Compile(context.Background(), "<html>doc</html>")
	if err == nil {
		t.Fatal("expected print failure")
	}
	if got := fail.KindOf(err); got != fail.KindInternal {
		t.Fatalf("KindOf = %q, want internal", got)
	}
	if session.closeCount != 1 {
		t.Fatalf("close count = %d, want exactly 1", session.closeCount)
	}
}

func TestCompileClosesSessionOnLoadFailure(t *testing.T) {
	session := &fakeSession{setContentErr: errors.New("frame detached")}
	compiler := newCompiler(session, nil, nil)

	if _, err := compiler.Compile(context.Background(), "<html>doc</html>"); err == nil {
		t.Fatal("expected load failure")
	}
	if session.closeCount != 1 {
		t.Fatalf("close count = %d, want exactly 1", session.closeCount)
	}
}

func TestCompileEmptyDocumentNeverLaunches(t *testing.T) {
	launches := 0
	compiler := newCompiler(&fakeSession{}, nil, &launches)

	_, err := compiler.Compile(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected invalid-argument")
	}
	if got := fail.KindOf(err); got != fail.KindInvalidArgument {
		t.Fatalf("KindOf = %q, want invalid-argument", got)
	}
	if launches != 0 {
		t.Fatalf("engine launched %d times for an empty document", launches)
	}
}

func TestCompileEmptyArtifactIsInternal(t *testing.T) {
	session := &fakeSession{pdfBytes: nil}
	compiler := newCompiler(session, nil, nil)

	if _, err := compiler.Compile(context.Background(), "<html>doc</html>"); fail.KindOf(err) != fail.KindInternal {
		t.Fatalf("empty artifact should be internal, got %v", err)
	}
}

func TestProfileSelection(t *testing.T) {
	local := pdf.LocalProfile()
	if local.ExecutablePath != "" {
		t.Fatal("local profile must use default executable resolution")
	}

	cloud := pdf.CloudProfile("/opt/chromium/chrome")
	if cloud.ExecutablePath != "/opt/chromium/chrome" {
		t.Fatalf("cloud executable = %q", cloud.ExecutablePath)
	}
	if len(cloud.Flags) <= len(local.Flags) {
		t.Fatal("cloud profile must carry the locked-down flag set")
	}

	t.Setenv("FORMPIPE_RENDER_PROFILE", "cloud")
	t.Setenv("FORMPIPE_CHROMIUM_PATH", "/opt/chromium/chrome")
	fromEnv := pdf.ProfileFromEnv()
	if fromEnv.ExecutablePath != "/opt/chromium/chrome" {
		t.Fatalf("env profile executable = %q", fromEnv.ExecutablePath)
	}

	t.Setenv("FORMPIPE_RENDER_PROFILE", "")
	t.Setenv("FORMPIPE_CHROMIUM_PATH", "")
	if got := pdf.ProfileFromEnv(); got.ExecutablePath != "" {
		t.Fatalf("default env profile should be local, got %+v", got)
	}
}
