package automation

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mj1618/novelclick/internal/capture"
	"github.com/mj1618/novelclick/internal/config"
	"github.com/mj1618/novelclick/internal/logging"
	"github.com/mj1618/novelclick/internal/model"
	"github.com/mj1618/novelclick/internal/ocr"
	"github.com/mj1618/novelclick/internal/platform"
)

type fakeWindows struct {
	win      model.WindowInfo
	findErr  error
	rectErr  error
	clickErr error
	finds    int
	raises   int
	clicks   []image.Point
}

func (f *fakeWindows) FindByTitle(partial string) (model.WindowInfo, error) {
	f.finds++
	if f.findErr != nil {
		return model.WindowInfo{}, f.findErr
	}
	return model.WindowInfo{Handle: f.win.Handle, Title: f.win.Title}, nil
}

func (f *fakeWindows) BringToForeground(w model.WindowInfo) error {
	f.raises++
	return nil
}

func (f *fakeWindows) GetRect(w model.WindowInfo) (model.WindowInfo, error) {
	if f.rectErr != nil {
		return w, f.rectErr
	}
	return f.win, nil
}

func (f *fakeWindows) ClickAt(x, y int, button platform.MouseButton) error {
	if f.clickErr != nil {
		return f.clickErr
	}
	f.clicks = append(f.clicks, image.Pt(x, y))
	return nil
}

type fakeCapturer struct {
	dir string
	img *image.RGBA
	// frames, when set, are returned in order; the last one repeats.
	frames []*image.RGBA
	err    error
	rects  []image.Rectangle
}

func (f *fakeCapturer) Capture(rect image.Rectangle) (*capture.Shot, error) {
	f.rects = append(f.rects, rect)
	if f.err != nil {
		return nil, f.err
	}
	img := f.img
	if len(f.frames) > 0 {
		img = f.frames[min(len(f.rects), len(f.frames))-1]
	}
	path := filepath.Join(f.dir, fmt.Sprintf("shot-%d.png", len(f.rects)))
	return &capture.Shot{Path: path, Image: img, Region: rect}, nil
}

type ocrResult struct {
	body string
	err  error
}

type fakeOCR struct {
	results []ocrResult
	paths   []string
}

func (f *fakeOCR) AnalyzeFile(ctx context.Context, path string) (*ocr.Document, error) {
	f.paths = append(f.paths, path)
	i := min(len(f.paths)-1, len(f.results)-1)
	if i < 0 {
		return &ocr.Document{}, nil
	}
	res := f.results[i]
	if res.err != nil {
		return nil, res.err
	}
	return ocr.ParseDocument([]byte(res.body))
}

func words(ws ...string) string {
	body := `{"content":[{"words":[`
	for i, w := range ws {
		if i > 0 {
			body += ","
		}
		body += w
	}
	return body + `]}]}`
}

type harness struct {
	windows  *fakeWindows
	capturer *fakeCapturer
	ocr      *fakeOCR
	sleeps   []time.Duration
	events   []Event
	runner   *Runner
}

func newHarness(t *testing.T, steps []string, results ...ocrResult) *harness {
	t.Helper()
	h := &harness{
		windows: &fakeWindows{win: model.WindowInfo{
			Handle: 42, Title: "MyNovel - Chapter 1",
			Left: 100, Top: 200, Right: 900, Bottom: 800,
		}},
		capturer: &fakeCapturer{dir: t.TempDir()},
		ocr:      &fakeOCR{results: results},
	}
	cfg := &config.Config{
		Title:       "MyNovel",
		Interval:    5,
		Steps:       steps,
		OCREndpoint: "http://ocr.test",
	}
	h.runner = NewRunner(cfg, h.windows, h.capturer, h.ocr, logging.Discard())
	h.runner.Sleep = func(ctx context.Context, d time.Duration) error {
		h.sleeps = append(h.sleeps, d)
		return ctx.Err()
	}
	h.runner.Observer = func(e Event) { h.events = append(h.events, e) }
	return h
}

func TestRun_EndToEndThreeIterations(t *testing.T) {
	h := newHarness(t, []string{"はじめる", "続ける"},
		ocrResult{body: words(`{"content":"はじめる","box":[10,20,110,60]}`)},
		ocrResult{body: words(`{"content":"ログ","box":[0,0,5,5]}`)},
		ocrResult{body: words(`{"content":"ログ","box":[0,0,5,5]}`, `{"content":"続ける","box":[0,0,20,10]}`)},
	)

	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []image.Point{{160, 240}, {110, 205}}
	if len(h.windows.clicks) != len(want) {
		t.Fatalf("clicks: got %v, want %v", h.windows.clicks, want)
	}
	for i := range want {
		if h.windows.clicks[i] != want[i] {
			t.Errorf("click %d: got %v, want %v", i, h.windows.clicks[i], want[i])
		}
	}
	if len(h.capturer.rects) != 3 || len(h.ocr.paths) != 3 {
		t.Errorf("captures=%d ocr=%d, want 3 each", len(h.capturer.rects), len(h.ocr.paths))
	}
	if h.windows.finds != 3 {
		t.Errorf("window resolved %d times, want once per iteration", h.windows.finds)
	}
	if len(h.sleeps) != 3 {
		t.Errorf("sleeps: got %d, want 3", len(h.sleeps))
	}
	for _, d := range h.sleeps {
		if d != 5*time.Second {
			t.Errorf("sleep: got %v, want 5s", d)
		}
	}
	if h.capturer.rects[0] != image.Rect(100, 200, 900, 800) {
		t.Errorf("capture rect: got %v", h.capturer.rects[0])
	}

	stats := h.runner.Stats()
	if stats.Iterations != 3 || stats.Clicks != 2 || stats.OCRFailures != 0 {
		t.Errorf("stats: %+v", stats)
	}
	if len(h.runner.Remaining()) != 0 {
		t.Errorf("remaining: %v", h.runner.Remaining())
	}
	if last := h.events[len(h.events)-1]; last.State != StateDone {
		t.Errorf("last event: got %v, want done", last.State)
	}
}

func TestRun_StopsAfterLastStep(t *testing.T) {
	h := newHarness(t, []string{"OK"},
		ocrResult{body: words(`{"content":"OK","box":[0,0,10,10]}`)},
	)
	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.capturer.rects) != 1 || len(h.ocr.paths) != 1 {
		t.Errorf("expected no calls after the queue emptied: captures=%d ocr=%d",
			len(h.capturer.rects), len(h.ocr.paths))
	}
}

func TestRun_EmptySteps(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.windows.finds != 0 || len(h.capturer.rects) != 0 || len(h.ocr.paths) != 0 {
		t.Errorf("expected no work for empty steps")
	}
}

func TestRun_WindowNotFoundIsFatal(t *testing.T) {
	h := newHarness(t, []string{"はじめる"})
	h.windows.findErr = fmt.Errorf("%w: nothing", platform.ErrWindowNotFound)

	err := h.runner.Run(context.Background())
	if !errors.Is(err, platform.ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
	if len(h.capturer.rects) != 0 {
		t.Errorf("no capture expected after lookup failure")
	}
}

func TestRun_RectFailureIsWindowNotFound(t *testing.T) {
	h := newHarness(t, []string{"はじめる"})
	h.windows.rectErr = errors.New("bad window")

	err := h.runner.Run(context.Background())
	if !errors.Is(err, platform.ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
}

func TestRun_CaptureFailureIsFatal(t *testing.T) {
	h := newHarness(t, []string{"はじめる"})
	h.capturer.err = errors.New("grab failed")

	if err := h.runner.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(h.ocr.paths) != 0 {
		t.Errorf("OCR should not be called after capture failure")
	}
}

func TestRun_OCRFailureIsRetried(t *testing.T) {
	h := newHarness(t, []string{"はじめる"},
		ocrResult{err: errors.New("connection refused")},
		ocrResult{body: words(`{"content":"はじめる","box":[0,0,20,10]}`)},
	)

	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	stats := h.runner.Stats()
	if stats.OCRFailures != 1 || stats.Clicks != 1 || stats.Iterations != 2 {
		t.Errorf("stats: %+v", stats)
	}
	if len(h.sleeps) != 2 {
		t.Errorf("sleeps: got %d, want 2 (after failure and after click)", len(h.sleeps))
	}
}

func TestRun_NoMatchLeavesQueue(t *testing.T) {
	h := newHarness(t, []string{"はじめる"},
		ocrResult{body: words(`{"content":"ログ","box":[0,0,5,5]}`)},
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.runner.Sleep = func(ctx context.Context, d time.Duration) error {
		h.sleeps = append(h.sleeps, d)
		if len(h.sleeps) == 3 {
			cancel()
		}
		return ctx.Err()
	}

	err := h.runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(h.windows.clicks) != 0 {
		t.Errorf("unexpected clicks: %v", h.windows.clicks)
	}
	if got := h.runner.Remaining(); len(got) != 1 || got[0] != "はじめる" {
		t.Errorf("remaining: %v", got)
	}
	if len(h.ocr.paths) != 3 {
		t.Errorf("ocr calls: got %d, want 3", len(h.ocr.paths))
	}
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	h := newHarness(t, []string{"a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.runner.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if h.windows.finds != 0 {
		t.Error("no work expected after cancellation")
	}
}

func TestRun_ClickFailureIsFatal(t *testing.T) {
	h := newHarness(t, []string{"はじめる"},
		ocrResult{body: words(`{"content":"はじめる","box":[0,0,20,10]}`)},
	)
	h.windows.clickErr = errors.New("input blocked")

	if err := h.runner.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := h.runner.Remaining(); len(got) != 1 {
		t.Errorf("step should stay queued after a failed click: %v", got)
	}
}

func TestRun_SkipUnchangedScreen(t *testing.T) {
	h := newHarness(t, []string{"はじめる"},
		ocrResult{body: words(`{"content":"ログ","box":[0,0,5,5]}`)},
	)
	h.capturer.img = image.NewRGBA(image.Rect(0, 0, 64, 64))
	h.runner.Changes = capture.NewChangeDetector()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.runner.Sleep = func(ctx context.Context, d time.Duration) error {
		h.sleeps = append(h.sleeps, d)
		if len(h.sleeps) == 3 {
			cancel()
		}
		return ctx.Err()
	}

	if err := h.runner.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(h.ocr.paths) != 1 {
		t.Errorf("ocr calls: got %d, want 1", len(h.ocr.paths))
	}
	if got := h.runner.Stats().Skipped; got != 2 {
		t.Errorf("skipped: got %d, want 2", got)
	}
}

func whiteFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1280, 720))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func TestRun_SkipUnchangedSeesNewLabel(t *testing.T) {
	h := newHarness(t, []string{"はじめる"},
		ocrResult{body: words(`{"content":"ログ","box":[0,0,5,5]}`)},
		ocrResult{body: words(`{"content":"はじめる","box":[100,600,160,624]}`)},
	)
	labelled := whiteFrame()
	draw.Draw(labelled, image.Rect(100, 600, 160, 624),
		image.NewUniform(color.RGBA{R: 128, G: 128, B: 128, A: 255}), image.Point{}, draw.Src)
	h.capturer.frames = []*image.RGBA{whiteFrame(), labelled}
	h.runner.Changes = capture.NewChangeDetector()

	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.ocr.paths) != 2 {
		t.Errorf("ocr calls: got %d, want 2", len(h.ocr.paths))
	}
	if got := h.runner.Stats().Skipped; got != 0 {
		t.Errorf("skipped: got %d, want 0", got)
	}
	if len(h.windows.clicks) != 1 {
		t.Errorf("clicks: got %d, want 1", len(h.windows.clicks))
	}
}

func TestRun_SkipUnchangedIsCapped(t *testing.T) {
	h := newHarness(t, []string{"はじめる"},
		ocrResult{body: words(`{"content":"ログ","box":[0,0,5,5]}`)},
		ocrResult{body: words(`{"content":"はじめる","box":[0,0,20,10]}`)},
	)
	h.capturer.img = whiteFrame()
	h.runner.Changes = capture.NewChangeDetector()
	h.runner.Changes.MaxSkips = 2

	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := h.runner.Stats().Skipped; got != 2 {
		t.Errorf("skipped: got %d, want 2", got)
	}
	if len(h.ocr.paths) != 2 || len(h.windows.clicks) != 1 {
		t.Errorf("ocr=%d clicks=%d, want 2 and 1", len(h.ocr.paths), len(h.windows.clicks))
	}
	if h.runner.Stats().Iterations != 4 {
		t.Errorf("iterations: got %d, want 4", h.runner.Stats().Iterations)
	}
}

func TestRun_AnnotateWritesFile(t *testing.T) {
	h := newHarness(t, []string{"はじめる"},
		ocrResult{body: words(`{"content":"はじめる","box":[0,0,20,10]}`)},
	)
	h.capturer.img = image.NewRGBA(image.Rect(0, 0, 40, 20))
	h.runner.Config.Annotate = true

	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	path := capture.AnnotatedPath(filepath.Join(h.capturer.dir, "shot-1.png"))
	if _, err := os.Stat(path); err != nil {
		t.Errorf("annotated capture missing: %v", err)
	}
}

func TestRun_EventSequence(t *testing.T) {
	h := newHarness(t, []string{"はじめる"},
		ocrResult{body: words(`{"content":"はじめる","box":[0,0,20,10]}`)},
	)
	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []State{
		StateResolvingWindow, StateCapturing, StateCallingOCR,
		StateMatching, StateClicking, StateWaiting, StateDone,
	}
	if len(h.events) != len(want) {
		t.Fatalf("events: got %d, want %d", len(h.events), len(want))
	}
	for i, s := range want {
		if h.events[i].State != s {
			t.Errorf("event %d: got %v, want %v", i, h.events[i].State, s)
		}
	}
	if p := h.events[4].Point; p != image.Pt(110, 205) {
		t.Errorf("click point: got %v", p)
	}
}

func TestSleep(t *testing.T) {
	if err := Sleep(context.Background(), 0); err != nil {
		t.Errorf("zero sleep: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled sleep should return immediately")
	}
}

func TestStateString(t *testing.T) {
	if StateCallingOCR.String() != "calling_ocr" {
		t.Errorf("got %q", StateCallingOCR.String())
	}
	if State(99).String() != "unknown" {
		t.Errorf("got %q", State(99).String())
	}
}
