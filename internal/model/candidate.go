package model

// Candidate is a single OCR-recognized text region.
type Candidate struct {
	Text string `yaml:"text" json:"text"`
	Box  Box    `yaml:"box"  json:"box"`
}
