package automation

import (
	"image"

	"github.com/mj1618/novelclick/internal/model"
)

// State is a phase of the automation loop.
type State int

const (
	StateResolvingWindow State = iota
	StateCapturing
	StateCallingOCR
	StateMatching
	StateClicking
	StateWaiting
	StateDone
)

var stateNames = [...]string{
	StateResolvingWindow: "resolving_window",
	StateCapturing:       "capturing",
	StateCallingOCR:      "calling_ocr",
	StateMatching:        "matching",
	StateClicking:        "clicking",
	StateWaiting:         "waiting",
	StateDone:            "done",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Event describes a state transition. Fields not relevant to State are zero.
type Event struct {
	State      State
	Window     model.WindowInfo
	Step       string
	Candidates int
	Point      image.Point
}

// Observer receives loop events synchronously.
type Observer func(Event)

func (r *Runner) emit(e Event) {
	if r.Observer != nil {
		r.Observer(e)
	}
}
