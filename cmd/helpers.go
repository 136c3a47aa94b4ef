package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mj1618/novelclick/internal/capture"
	"github.com/mj1618/novelclick/internal/config"
	"github.com/mj1618/novelclick/internal/model"
	"github.com/mj1618/novelclick/internal/ocr"
	"github.com/mj1618/novelclick/internal/output"
	"github.com/mj1618/novelclick/internal/platform"
	"github.com/spf13/cobra"
)

// baseDir returns --base-dir, or the working directory.
func baseDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("base-dir")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	return filepath.Abs(dir)
}

// loadConfig loads --config after applying base-dir/.env. A missing --config
// returns (nil, nil) unless required.
func loadConfig(cmd *cobra.Command, required bool) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if required {
			return nil, fmt.Errorf("--config is required")
		}
		return nil, nil
	}
	dir, err := baseDir(cmd)
	if err != nil {
		return nil, err
	}
	if err := config.LoadDotEnv(dir); err != nil {
		return nil, err
	}
	return config.Load(path)
}

// settings are the inspection-command inputs: explicit flags win over the
// config file.
type settings struct {
	Title      string
	Endpoint   string
	KeepHeight int
	BaseDir    string
}

func resolveSettings(cmd *cobra.Command) (settings, error) {
	var s settings
	dir, err := baseDir(cmd)
	if err != nil {
		return s, err
	}
	s.BaseDir = dir

	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return s, &ExitError{Code: ExitConfig, Err: err}
	}
	if cfg != nil {
		s.Title = cfg.Title
		s.Endpoint = cfg.OCREndpoint
		s.KeepHeight = cfg.CaptureKeepHeight
	}
	if f := cmd.Flags().Lookup("title"); f != nil && f.Changed {
		s.Title = f.Value.String()
	}
	if f := cmd.Flags().Lookup("endpoint"); f != nil && f.Changed {
		s.Endpoint = f.Value.String()
	}
	if f := cmd.Flags().Lookup("keep-height"); f != nil && f.Changed {
		s.KeepHeight, _ = cmd.Flags().GetInt("keep-height")
	}
	return s, nil
}

// resolveWindow finds the window by title, raises it and reads its rectangle.
func resolveWindow(ws platform.WindowSystem, title string) (model.WindowInfo, error) {
	if title == "" {
		return model.WindowInfo{}, fmt.Errorf("specify --title or a --config with a title")
	}
	win, err := ws.FindByTitle(title)
	if err != nil {
		return win, err
	}
	_ = ws.BringToForeground(win)
	return ws.GetRect(win)
}

// scan is one capture of a window, optionally recognized.
type scan struct {
	Window     model.WindowInfo
	Shot       *capture.Shot
	Candidates []model.Candidate
	Annotated  string
}

// scanWindow captures the titled window and, when client is non-nil, runs OCR
// on the capture.
func scanWindow(ctx context.Context, p *platform.Provider, client *ocr.Client, s settings) (*scan, error) {
	win, err := resolveWindow(p.Windows, s.Title)
	if err != nil {
		return nil, err
	}
	return scanRect(ctx, p, client, s, win)
}

// scanRect captures win's rectangle without looking the window up.
func scanRect(ctx context.Context, p *platform.Provider, client *ocr.Client, s settings, win model.WindowInfo) (*scan, error) {
	shot, err := capture.New(p.Grabber, s.BaseDir, s.KeepHeight).Capture(win.Rect())
	if err != nil {
		return nil, err
	}
	res := &scan{Window: win, Shot: shot}
	if client == nil {
		return res, nil
	}
	doc, err := client.AnalyzeFile(ctx, shot.Path)
	if err != nil {
		return nil, err
	}
	res.Candidates = ocr.ExtractCandidates(doc)
	return res, nil
}

// writeAnnotated saves the annotated copy of a scan, highlighting matched.
func (sc *scan) writeAnnotated(matched int) error {
	path := capture.AnnotatedPath(sc.Shot.Path)
	if err := capture.SavePNG(path, capture.Annotate(sc.Shot.Image, sc.Candidates, matched)); err != nil {
		return err
	}
	sc.Annotated = path
	return nil
}

func (sc *scan) captureResult() output.CaptureResult {
	return output.CaptureResult{
		Window:     output.NewWindowResult(sc.Window),
		Path:       sc.Shot.Path,
		Annotated:  sc.Annotated,
		Candidates: sc.Candidates,
	}
}

// matchScan runs the matcher against a scan and builds the result.
func matchScan(sc *scan, text string) (output.MatchResult, int) {
	res := output.MatchResult{
		Step:   text,
		Window: output.NewWindowResult(sc.Window),
		Path:   sc.Shot.Path,
	}
	c, ok := ocr.FindMatch(text, sc.Candidates)
	if !ok {
		res.Seen = sc.Candidates
		return res, -1
	}
	cx, cy := c.Box.Center()
	x, y := sc.Window.ToScreen(cx, cy)
	box := c.Box
	res.Matched = true
	res.Text = c.Text
	res.Box = &box
	res.Point = &[2]int{x, y}
	for i := range sc.Candidates {
		if sc.Candidates[i] == c {
			return res, i
		}
	}
	return res, -1
}
