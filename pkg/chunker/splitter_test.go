package chunker

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
		wantLen   int
	}{
		{"short text single chunk", "hello world", 400, 50, 1},
		{"exact size single chunk", strings.Repeat("a", 400), 400, 50, 1},
		{"two chunks", strings.Repeat("a", 500), 400, 50, 2},
		{"overlap larger than size falls back", strings.Repeat("a", 900), 400, 400, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitText(tt.text, tt.chunkSize, tt.overlap)
			if len(got) != tt.wantLen {
				t.Fatalf("SplitText() chunks = %d, want %d", len(got), tt.wantLen)
			}
			for i, c := range got {
				if len([]rune(c)) > tt.chunkSize {
					t.Errorf("chunk %d length %d exceeds %d", i, len([]rune(c)), tt.chunkSize)
				}
			}
		})
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 100) // 1000 chars
	chunks := SplitText(text, 400, 50)

	// Each chunk after the first must start with the tail of its
	// predecessor.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-50:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Fatalf("chunk %d does not overlap its predecessor", i)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "terminators kept with sentences",
			text: "First one. Second one! Third one?",
			want: []string{"First one.", "Second one!", "Third one?"},
		},
		{
			name: "trailing fragment preserved",
			text: "Complete sentence. Trailing fragment without terminator",
			want: []string{"Complete sentence.", "Trailing fragment without terminator"},
		},
		{
			name: "no terminator at all",
			text: "  just a fragment  ",
			want: []string{"just a fragment"},
		},
		{
			name: "empty input",
			text: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
