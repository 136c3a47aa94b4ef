package automation

import (
	"github.com/corona10/goimagehash"
	"github.com/mj1618/novelclick/internal/capture"
	"github.com/mj1618/novelclick/internal/model"
)

// hashShot returns the capture's perceptual hash, or nil when change
// detection is off or hashing fails.
func (r *Runner) hashShot(shot *capture.Shot) *goimagehash.ExtImageHash {
	if r.Changes == nil || shot.Image == nil {
		return nil
	}
	h, err := r.Changes.Hash(shot.Image)
	if err != nil {
		r.Log.Warnf("change detection disabled for this capture: %v", err)
		return nil
	}
	return h
}

// annotate writes <capture>-annotated.png next to the capture.
func (r *Runner) annotate(shot *capture.Shot, candidates []model.Candidate, match model.Candidate, ok bool) {
	if shot.Image == nil {
		return
	}
	matched := -1
	if ok {
		for i, c := range candidates {
			if c == match {
				matched = i
				break
			}
		}
	}
	path := capture.AnnotatedPath(shot.Path)
	if err := capture.SavePNG(path, capture.Annotate(shot.Image, candidates, matched)); err != nil {
		r.Log.Warnf("writing annotated capture: %v", err)
		return
	}
	r.Log.Debugf("annotated capture: %s", path)
}
