// Package automation runs the capture, OCR, match and click loop until every
// configured step has been clicked.
package automation

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/mj1618/novelclick/internal/capture"
	"github.com/mj1618/novelclick/internal/config"
	"github.com/mj1618/novelclick/internal/model"
	"github.com/mj1618/novelclick/internal/ocr"
	"github.com/mj1618/novelclick/internal/platform"
	"github.com/sirupsen/logrus"
)

// WindowSystem is the subset of platform.WindowSystem the loop needs.
type WindowSystem interface {
	FindByTitle(partial string) (model.WindowInfo, error)
	BringToForeground(w model.WindowInfo) error
	GetRect(w model.WindowInfo) (model.WindowInfo, error)
	ClickAt(x, y int, button platform.MouseButton) error
}

// Capturer saves a screen region to disk.
type Capturer interface {
	Capture(rect image.Rectangle) (*capture.Shot, error)
}

// OCR analyzes a saved capture.
type OCR interface {
	AnalyzeFile(ctx context.Context, path string) (*ocr.Document, error)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Stats summarizes a run.
type Stats struct {
	Iterations  int
	Clicks      int
	OCRFailures int
	Skipped     int
}

// Runner drives the automation loop. It is single-use and not safe for
// concurrent calls to Run.
type Runner struct {
	Config   *config.Config
	Windows  WindowSystem
	Capturer Capturer
	OCR      OCR
	Log      *logrus.Logger

	// Sleep defaults to the package Sleep.
	Sleep SleepFunc
	// Observer, if set, receives every state transition.
	Observer Observer
	// Changes enables skipping OCR on unchanged screens when non-nil.
	Changes *capture.ChangeDetector

	steps *model.StepQueue
	stats Stats
}

// NewRunner wires a runner for cfg. Skip-unchanged detection follows
// cfg.SkipUnchanged.
func NewRunner(cfg *config.Config, windows WindowSystem, capturer Capturer, client OCR, log *logrus.Logger) *Runner {
	r := &Runner{
		Config:   cfg,
		Windows:  windows,
		Capturer: capturer,
		OCR:      client,
		Log:      log,
		Sleep:    Sleep,
	}
	if cfg.SkipUnchanged {
		r.Changes = capture.NewChangeDetector()
	}
	return r
}

// Stats returns counters for the run so far.
func (r *Runner) Stats() Stats {
	return r.stats
}

// Remaining returns the steps not clicked yet.
func (r *Runner) Remaining() []string {
	if r.steps == nil {
		return append([]string(nil), r.Config.Steps...)
	}
	return r.steps.Remaining()
}

// Run loops until the step queue is empty. Window lookup, capture and click
// failures end the run with an error; OCR failures are logged and retried
// after the interval. A cancelled ctx ends the run with ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	if r.Sleep == nil {
		r.Sleep = Sleep
	}
	cfg := r.Config
	r.steps = model.NewStepQueue(cfg.Steps)
	interval := cfg.IntervalDuration()

	r.Log.Infof("start: title=%q interval=%d steps=%q ocr_api_endpoint=%q keep_height=%d",
		cfg.Title, cfg.Interval, r.steps.Remaining(), cfg.OCREndpoint, cfg.CaptureKeepHeight)

	for !r.steps.Empty() {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.stats.Iterations++

		if err := r.iterate(ctx); err != nil {
			return err
		}

		r.emit(Event{State: StateWaiting})
		if err := r.Sleep(ctx, interval); err != nil {
			return err
		}
	}

	r.emit(Event{State: StateDone})
	r.Log.Infof("all steps done (%d clicks, %d iterations)", r.stats.Clicks, r.stats.Iterations)
	return nil
}

// iterate performs one resolve, capture, OCR, match and maybe click pass.
// A nil error with no click means the loop should wait and try again.
func (r *Runner) iterate(ctx context.Context) error {
	win, err := r.resolveWindow()
	if err != nil {
		return err
	}

	r.emit(Event{State: StateCapturing, Window: win})
	shot, err := r.Capturer.Capture(win.Rect())
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}
	r.Log.Debugf("captured %s (%dx%d)", shot.Path, shot.Region.Dx(), shot.Region.Dy())

	hash := r.hashShot(shot)
	if hash != nil && r.Changes.ShouldSkip(hash) {
		r.stats.Skipped++
		r.Log.Debugf("screen unchanged since last miss, skipping OCR")
		return nil
	}

	r.emit(Event{State: StateCallingOCR, Window: win})
	doc, err := r.OCR.AnalyzeFile(ctx, shot.Path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		r.stats.OCRFailures++
		r.Log.Errorf("OCR request failed: %v", err)
		return nil
	}

	candidates := ocr.ExtractCandidates(doc)
	r.logCandidates(candidates)

	step, _ := r.steps.Current()
	r.emit(Event{State: StateMatching, Window: win, Step: step, Candidates: len(candidates)})
	match, ok := ocr.FindMatch(step, candidates)

	if r.Config.Annotate {
		r.annotate(shot, candidates, match, ok)
	}

	if !ok {
		r.Log.Debugf("no match for %q", step)
		if hash != nil {
			r.Changes.Remember(hash)
		}
		return nil
	}
	if r.Changes != nil {
		r.Changes.Reset()
	}

	cx, cy := match.Box.Center()
	x, y := win.ToScreen(cx, cy)
	r.Log.Infof("match %q -> %q box=%s click=(%d,%d)", step, match.Text, match.Box, x, y)

	r.emit(Event{State: StateClicking, Window: win, Step: step, Point: image.Pt(x, y)})
	if err := r.Windows.BringToForeground(win); err != nil {
		r.Log.Warnf("could not raise window before click: %v", err)
	}
	if err := r.Windows.ClickAt(x, y, platform.MouseLeft); err != nil {
		return fmt.Errorf("click at (%d,%d) failed: %w", x, y, err)
	}
	r.stats.Clicks++
	r.steps.Pop()
	r.Log.Infof("step done: %q (%d left)", step, r.steps.Len())
	return nil
}

// resolveWindow looks the window up again, raises it and reads its rectangle.
func (r *Runner) resolveWindow() (model.WindowInfo, error) {
	r.emit(Event{State: StateResolvingWindow})
	win, err := r.Windows.FindByTitle(r.Config.Title)
	if err != nil {
		return win, fmt.Errorf("resolving window %q: %w", r.Config.Title, err)
	}
	if err := r.Windows.BringToForeground(win); err != nil {
		r.Log.Warnf("could not raise window %q: %v", win.Title, err)
	}
	win, err = r.Windows.GetRect(win)
	if err != nil {
		if !errors.Is(err, platform.ErrWindowNotFound) {
			err = fmt.Errorf("%w: %v", platform.ErrWindowNotFound, err)
		}
		return win, fmt.Errorf("reading rectangle of %q: %w", r.Config.Title, err)
	}
	r.Log.Debugf("window %q at (%d,%d)-(%d,%d)", win.Title, win.Left, win.Top, win.Right, win.Bottom)
	return win, nil
}

func (r *Runner) logCandidates(candidates []model.Candidate) {
	r.Log.Infof("OCR candidates: %d", len(candidates))
	for i, c := range candidates {
		r.Log.Infof("  [%d] %q box=%s", i, c.Text, c.Box)
	}
}
