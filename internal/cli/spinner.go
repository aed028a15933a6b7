package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vitrinhq/vitrin/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// renderSpinner draws a one-line status for a catalog render. It is
// registered as the pipeline hooks for the duration of the render, so the
// line follows the pipeline: "composing modern-grid for export", then
// "rendering html, pdf" while those formats are in flight.
type renderSpinner struct {
	w       io.Writer
	catalog string
	parent  context.Context

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu       sync.Mutex
	started  bool
	stage    string
	inflight []string
	width    int
}

// newRenderSpinner creates a spinner for the named catalog. It stops by
// itself when ctx ends.
func newRenderSpinner(ctx context.Context, w io.Writer, catalogName string) *renderSpinner {
	sctx, cancel := context.WithCancel(ctx)
	return &renderSpinner{
		w:       w,
		catalog: catalogName,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		stage:   "loading",
	}
}

// Start begins the animation.
func (s *renderSpinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Stop ends the animation and clears the line. It may be called more than
// once.
func (s *renderSpinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
		s.clearLine()
	})
}

// StopWithError stops the spinner and reports the stage that failed.
func (s *renderSpinner) StopWithError(msg string) {
	stage := s.Message()
	s.Stop()
	printError("%s while %s", msg, stage)
}

// Cancelled reports whether the render context ended, as opposed to an
// explicit Stop.
func (s *renderSpinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// Message returns the current status line without the frame.
func (s *renderSpinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog + ": " + s.stage
}

func (s *renderSpinner) draw(frame string) {
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.Message())
	s.mu.Lock()
	defer s.mu.Unlock()
	pad := max(s.width-lipgloss.Width(line), 0)
	fmt.Fprintf(s.w, "\r%s%s", line, strings.Repeat(" ", pad))
	s.width = lipgloss.Width(line)
}

func (s *renderSpinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	s.width = 0
}

func (s *renderSpinner) setStage(stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = stage
}

func (s *renderSpinner) OnComposeStart(_ context.Context, surface, template string) {
	s.setStage(fmt.Sprintf("composing %s for %s", template, surface))
}

func (s *renderSpinner) OnComposeComplete(_ context.Context, surface, _ string, pages int, _ time.Duration, err error) {
	if err != nil {
		return
	}
	s.setStage(fmt.Sprintf("composed %d pages for %s", pages, surface))
}

func (s *renderSpinner) OnRenderStart(_ context.Context, _, format string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight = append(s.inflight, format)
	s.stage = "rendering " + strings.Join(s.inflight, ", ")
}

func (s *renderSpinner) OnRenderComplete(_ context.Context, _, format string, _ int, _ time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.inflight, format); i >= 0 {
		s.inflight = slices.Delete(s.inflight, i, i+1)
	}
	switch {
	case err != nil:
		s.stage = format + " failed"
	case len(s.inflight) > 0:
		s.stage = "rendering " + strings.Join(s.inflight, ", ")
	default:
		s.stage = "writing"
	}
}

// track installs s as the pipeline hooks and returns a func restoring the
// previous ones.
func (s *renderSpinner) track() (restore func()) {
	prev := observability.Pipeline()
	observability.SetPipelineHooks(s)
	return func() { observability.SetPipelineHooks(prev) }
}

var _ observability.PipelineHooks = (*renderSpinner)(nil)
