package ocr

import "encoding/json"

// Document is the JSON body returned by the analyze endpoint.
//
//	{"content": [{"words": [{"content": "...", "box": [x1, y1, x2, y2]}, ...]}, ...]}
//
// Word fields are kept raw because OCR output is noisy: a malformed word must
// not fail the whole document.
type Document struct {
	Content []Page `json:"content"`
}

// Page is one analyzed page of the document.
type Page struct {
	Words []Word `json:"words"`
}

// Word is a recognized text fragment with either a box or a polygon.
type Word struct {
	Content  json.RawMessage `json:"content,omitempty"`
	Contents json.RawMessage `json:"contents,omitempty"`
	Box      json.RawMessage `json:"box,omitempty"`
	Points   json.RawMessage `json:"points,omitempty"`
}

// ParseDocument decodes an analyze response body.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
