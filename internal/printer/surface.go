package printer

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// Surface is one exclusive rendering target for a single print run. A
// surface is created per invocation and never reused.
type Surface interface {
	// Render writes the document into the surface, replacing any prior
	// content.
	Render(ctx context.Context, doc []byte) error

	// Ready resolves once fonts and layout have had a chance to settle.
	// Implementations may fail or block past their deadline; the
	// orchestrator's fallback timer still guarantees printing.
	Ready(ctx context.Context) error

	// Print triggers the surface's print path. The orchestrator calls it
	// at most once per invocation.
	Print(ctx context.Context) error

	// Done is closed when the surface reports print completion. Surfaces
	// that cannot observe completion return a channel that never closes;
	// cleanup then happens on the fallback timeout.
	Done() <-chan struct{}

	// Close releases the surface. Called at most once.
	Close() error
}

// SurfaceConfig describes how concrete surfaces reach the outside world.
type SurfaceConfig struct {
	// Mode is "spool", "viewer" or "auto". Auto picks spool when the
	// spool command is resolvable, mirroring the silent-print path, and
	// falls back to a viewer window otherwise.
	Mode string

	// SpoolCommand submits a rendered document to the printer without
	// user interaction (e.g. lp). Arguments are appended before the
	// document path.
	SpoolCommand []string

	// ViewerCommand opens the rendered document in a transient viewer
	// window whose print dialog takes over (the popup strategy).
	ViewerCommand []string

	// FontURL is fetched before printing so the renderer finds the
	// typeface warm; failures degrade to the fallback timing.
	FontURL string

	// FontTimeout bounds the font warm-up fetch.
	FontTimeout time.Duration
}

// NewSurfaceFactory returns a factory creating one fresh surface per print
// invocation according to the configured mode.
func NewSurfaceFactory(cfg SurfaceConfig) func(context.Context) (Surface, error) {
	return func(ctx context.Context) (Surface, error) {
		switch resolveMode(cfg) {
		case "spool":
			if len(cfg.SpoolCommand) == 0 {
				return nil, fmt.Errorf("no spool command configured")
			}
			if _, err := exec.LookPath(cfg.SpoolCommand[0]); err != nil {
				return nil, fmt.Errorf("spool command %q: %w", cfg.SpoolCommand[0], err)
			}
			return newCommandSurface(cfg, cfg.SpoolCommand, true), nil
		case "viewer":
			if len(cfg.ViewerCommand) == 0 {
				return nil, fmt.Errorf("no viewer command configured")
			}
			if _, err := exec.LookPath(cfg.ViewerCommand[0]); err != nil {
				return nil, fmt.Errorf("viewer command %q: %w", cfg.ViewerCommand[0], err)
			}
			return newCommandSurface(cfg, cfg.ViewerCommand, false), nil
		default:
			return nil, fmt.Errorf("unknown print mode %q", cfg.Mode)
		}
	}
}

func resolveMode(cfg SurfaceConfig) string {
	if cfg.Mode != "" && cfg.Mode != "auto" {
		return cfg.Mode
	}
	if len(cfg.SpoolCommand) > 0 {
		if _, err := exec.LookPath(cfg.SpoolCommand[0]); err == nil {
			return "spool"
		}
	}
	return "viewer"
}

// DefaultSurfaceConfig returns platform defaults: CUPS spooling where a
// spooler exists, otherwise the platform opener as viewer.
func DefaultSurfaceConfig() SurfaceConfig {
	opener := []string{"xdg-open"}
	if runtime.GOOS == "darwin" {
		opener = []string{"open"}
	}
	return SurfaceConfig{
		Mode:          "auto",
		SpoolCommand:  []string{"lp", "-s"},
		ViewerCommand: opener,
		FontTimeout:   3 * time.Second,
	}
}

// commandSurface hosts the document in a temp file and hands it to an
// external command. In spool mode the command's exit is the completion
// signal; in viewer mode completion is unobservable and cleanup relies on
// the orchestrator's fallback timeout.
type commandSurface struct {
	cfg     SurfaceConfig
	command []string
	spool   bool
	path    string
	done    chan struct{}
}

func newCommandSurface(cfg SurfaceConfig, command []string, spool bool) *commandSurface {
	return &commandSurface{
		cfg:     cfg,
		command: command,
		spool:   spool,
		done:    make(chan struct{}),
	}
}

func (s *commandSurface) Render(ctx context.Context, doc []byte) error {
	if s.path == "" {
		f, err := os.CreateTemp("", "khazana-report-*.html")
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		s.path = f.Name()
		f.Close()
	}
	if err := os.WriteFile(s.path, doc, 0o600); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}

// Ready warms the report typeface so the renderer does not fall back to a
// substitute font on first paint.
func (s *commandSurface) Ready(ctx context.Context) error {
	if s.cfg.FontURL == "" {
		return nil
	}
	timeout := s.cfg.FontTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.FontURL, nil)
	if err != nil {
		return fmt.Errorf("font request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("warm font: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("warm font: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (s *commandSurface) Print(ctx context.Context) error {
	if s.path == "" {
		return fmt.Errorf("print before render")
	}
	args := append(append([]string(nil), s.command[1:]...), s.path)
	cmd := exec.CommandContext(ctx, s.command[0], args...)

	if s.spool {
		// Spool submission is synchronous; its exit means the job was
		// accepted, which is the closest thing to an afterprint signal.
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("spool %s: %w", filepath.Base(s.path), err)
		}
		close(s.done)
		return nil
	}

	// Viewer windows outlive the command; start and let the fallback
	// timeout drive cleanup.
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open viewer: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Rendered reports whether a document has been written, serving as the
// orchestrator's redundant readiness probe.
func (s *commandSurface) Rendered() bool {
	return s.path != ""
}

func (s *commandSurface) Done() <-chan struct{} {
	return s.done
}

func (s *commandSurface) Close() error {
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove report file: %w", err)
	}
	return nil
}
