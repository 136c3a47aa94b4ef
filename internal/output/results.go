package output

import "github.com/mj1618/novelclick/internal/model"

// HealthResult is the output of `health`.
type HealthResult struct {
	OK       bool   `yaml:"ok"       json:"ok"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
}

// WindowsResult is the output of `windows`.
type WindowsResult struct {
	Windows []model.Window `yaml:"windows" json:"windows"`
}

// WindowResult describes a resolved window.
type WindowResult struct {
	Handle uintptr `yaml:"handle" json:"handle"`
	Title  string  `yaml:"title"  json:"title"`
	Bounds [4]int  `yaml:"bounds" json:"bounds"` // [left, top, right, bottom]
}

// NewWindowResult converts a resolved window.
func NewWindowResult(w model.WindowInfo) WindowResult {
	return WindowResult{
		Handle: w.Handle,
		Title:  w.Title,
		Bounds: [4]int{w.Left, w.Top, w.Right, w.Bottom},
	}
}

// CaptureResult is the output of `capture` and the capture_text tool.
type CaptureResult struct {
	Window     WindowResult      `yaml:"window"               json:"window"`
	Path       string            `yaml:"path"                 json:"path"`
	Annotated  string            `yaml:"annotated,omitempty"  json:"annotated,omitempty"`
	Candidates []model.Candidate `yaml:"candidates,omitempty" json:"candidates,omitempty"`
}

// MatchResult is the output of `match` and the match/click_text tools.
type MatchResult struct {
	Step    string            `yaml:"step"              json:"step"`
	Matched bool              `yaml:"matched"           json:"matched"`
	Text    string            `yaml:"text,omitempty"    json:"text,omitempty"`
	Box     *model.Box        `yaml:"box,omitempty"     json:"box,omitempty"`
	Point   *[2]int           `yaml:"point,omitempty"   json:"point,omitempty"` // screen x, y
	Clicked bool              `yaml:"clicked,omitempty" json:"clicked,omitempty"`
	Path    string            `yaml:"path,omitempty"    json:"path,omitempty"`
	Window  WindowResult      `yaml:"window"            json:"window"`
	Seen    []model.Candidate `yaml:"seen,omitempty"    json:"seen,omitempty"`
}

// ClickResult is the output of `click`.
type ClickResult struct {
	X      int    `yaml:"x"      json:"x"`
	Y      int    `yaml:"y"      json:"y"`
	Button string `yaml:"button" json:"button"`
}

// RunResult summarizes a finished or interrupted `run`.
type RunResult struct {
	Completed   bool     `yaml:"completed"           json:"completed"`
	Iterations  int      `yaml:"iterations"          json:"iterations"`
	Clicks      int      `yaml:"clicks"              json:"clicks"`
	OCRFailures int      `yaml:"ocr_failures"        json:"ocr_failures"`
	Remaining   []string `yaml:"remaining,omitempty" json:"remaining,omitempty"`
	Log         string   `yaml:"log"                 json:"log"`
}
