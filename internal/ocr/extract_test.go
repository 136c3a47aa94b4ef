package ocr

import (
	"testing"

	"github.com/mj1618/novelclick/internal/model"
)

func mustParse(t *testing.T, body string) *Document {
	t.Helper()
	doc, err := ParseDocument([]byte(body))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	return doc
}

func TestExtractCandidates(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []model.Candidate
	}{
		{
			name: "direct box",
			body: `{"content":[{"words":[{"content":"はじめる","box":[10,20,110,60]}]}]}`,
			want: []model.Candidate{{Text: "はじめる", Box: model.Box{X1: 10, Y1: 20, X2: 110, Y2: 60}}},
		},
		{
			name: "polygon points",
			body: `{"content":[{"words":[{"content":"続ける","points":[[5,5],[15,5],[15,20],[5,20]]}]}]}`,
			want: []model.Candidate{{Text: "続ける", Box: model.Box{X1: 5, Y1: 5, X2: 15, Y2: 20}}},
		},
		{
			name: "contents fallback",
			body: `{"content":[{"words":[{"contents":"ログ","box":[1,2,3,4]}]}]}`,
			want: []model.Candidate{{Text: "ログ", Box: model.Box{X1: 1, Y1: 2, X2: 3, Y2: 4}}},
		},
		{
			name: "empty content falls back to contents",
			body: `{"content":[{"words":[{"content":"","contents":"ログ","box":[1,2,3,4]}]}]}`,
			want: []model.Candidate{{Text: "ログ", Box: model.Box{X1: 1, Y1: 2, X2: 3, Y2: 4}}},
		},
		{
			name: "empty text dropped",
			body: `{"content":[{"words":[{"content":"","box":[1,2,3,4]}]}]}`,
			want: nil,
		},
		{
			name: "three element box dropped",
			body: `{"content":[{"words":[{"content":"x","box":[1,2,3]}]}]}`,
			want: nil,
		},
		{
			name: "no box and no points dropped",
			body: `{"content":[{"words":[{"content":"x"}]}]}`,
			want: nil,
		},
		{
			name: "floats truncated and negatives clamped",
			body: `{"content":[{"words":[{"content":"a","box":[-3.7,2.9,40.5,18.99]}]}]}`,
			want: []model.Candidate{{Text: "a", Box: model.Box{X1: 0, Y1: 2, X2: 40, Y2: 18}}},
		},
		{
			name: "swapped corners normalized",
			body: `{"content":[{"words":[{"content":"a","box":[50,60,10,20]}]}]}`,
			want: []model.Candidate{{Text: "a", Box: model.Box{X1: 10, Y1: 20, X2: 50, Y2: 60}}},
		},
		{
			name: "malformed points ignored",
			body: `{"content":[{"words":[{"content":"a","points":[[5],["x",1],[7,8],[9,2]]}]}]}`,
			want: []model.Candidate{{Text: "a", Box: model.Box{X1: 7, Y1: 2, X2: 9, Y2: 8}}},
		},
		{
			name: "no usable points dropped",
			body: `{"content":[{"words":[{"content":"a","points":[[5]]}]}]}`,
			want: nil,
		},
		{
			name: "page then word order",
			body: `{"content":[
				{"words":[{"content":"p1w1","box":[0,0,1,1]},{"content":"p1w2","box":[0,0,2,2]}]},
				{"words":[{"content":"p2w1","box":[0,0,3,3]}]}
			]}`,
			want: []model.Candidate{
				{Text: "p1w1", Box: model.Box{X2: 1, Y2: 1}},
				{Text: "p1w2", Box: model.Box{X2: 2, Y2: 2}},
				{Text: "p2w1", Box: model.Box{X2: 3, Y2: 3}},
			},
		},
		{
			name: "paragraphs ignored",
			body: `{"content":[{"paragraphs":[{"contents":"para","box":[0,0,5,5]}],"words":[]}]}`,
			want: nil,
		},
		{
			name: "numeric text kept",
			body: `{"content":[{"words":[{"content":2025,"box":[0,0,5,5]}]}]}`,
			want: []model.Candidate{{Text: "2025", Box: model.Box{X2: 5, Y2: 5}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCandidates(mustParse(t, tt.body))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d candidates %+v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("candidate %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractCandidates_Nil(t *testing.T) {
	if got := ExtractCandidates(nil); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestParseDocument_Invalid(t *testing.T) {
	if _, err := ParseDocument([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
