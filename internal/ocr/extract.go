package ocr

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/mj1618/novelclick/internal/model"
)

// ExtractCandidates flattens a document into candidates in page, then word,
// order. Words without text or without a resolvable box are skipped.
func ExtractCandidates(doc *Document) []model.Candidate {
	if doc == nil {
		return nil
	}
	var out []model.Candidate
	for _, page := range doc.Content {
		for _, w := range page.Words {
			c, ok := candidateFromWord(w)
			if !ok {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

func candidateFromWord(w Word) (model.Candidate, bool) {
	text := rawText(w.Content)
	if text == "" {
		text = rawText(w.Contents)
	}
	if text == "" {
		return model.Candidate{}, false
	}
	box, ok := boxFromRaw(w.Box)
	if !ok {
		box, ok = boxFromPoints(w.Points)
	}
	if !ok {
		return model.Candidate{}, false
	}
	return model.Candidate{Text: text, Box: box}, true
}

// rawText accepts a JSON string, or a number rendered as its literal.
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// boxFromRaw reads a direct [x1, y1, x2, y2] box.
func boxFromRaw(raw json.RawMessage) (model.Box, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return model.Box{}, false
	}
	var vals []json.Number
	if err := json.Unmarshal(raw, &vals); err != nil || len(vals) != 4 {
		return model.Box{}, false
	}
	var n [4]int
	for i, v := range vals {
		iv, ok := toInt(v)
		if !ok {
			return model.Box{}, false
		}
		n[i] = iv
	}
	return model.NewBox(n[0], n[1], n[2], n[3]), true
}

// boxFromPoints returns the axis-aligned bounding rectangle of a polygon
// given as [[x, y], ...]. Malformed points are ignored.
func boxFromPoints(raw json.RawMessage) (model.Box, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return model.Box{}, false
	}
	var pts []json.RawMessage
	if err := json.Unmarshal(raw, &pts); err != nil {
		return model.Box{}, false
	}
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	found := false
	for _, p := range pts {
		var xy []json.Number
		if err := json.Unmarshal(p, &xy); err != nil || len(xy) < 2 {
			continue
		}
		x, okX := toInt(xy[0])
		y, okY := toInt(xy[1])
		if !okX || !okY {
			continue
		}
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
		found = true
	}
	if !found {
		return model.Box{}, false
	}
	return model.NewBox(minX, minY, maxX, maxY), true
}

// toInt truncates a JSON number toward zero.
func toInt(n json.Number) (int, bool) {
	if i, err := strconv.Atoi(n.String()); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
