package grading

import (
	"testing"

	"wordquest/internal/models"
)

func TestWord(t *testing.T) {
	tests := []struct {
		name      string
		submitted string
		expected  string
		want      bool
	}{
		{"exact match", "elephant", "elephant", true},
		{"case insensitive", "ELEPHANT", "elephant", true},
		{"mixed case", "ElePhant", "elephant", true},
		{"surrounding whitespace", "  cat ", "cat", true},
		{"wrong word", "dog", "cat", false},
		{"prefix only", "ele", "elephant", false},
		{"empty submission", "", "cat", false},
		{"both empty", "", "", true},
		{"internal whitespace differs", "po lar", "polar", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Word(tt.submitted, tt.expected); got != tt.want {
				t.Errorf("Word(%q, %q) = %v, want %v", tt.submitted, tt.expected, got, tt.want)
			}
		})
	}
}

func TestLetterOrder(t *testing.T) {
	tests := []struct {
		name     string
		letters  []string
		expected string
		want     bool
	}{
		{"solved order", []string{"c", "a", "t"}, "cat", true},
		{"scrambled", []string{"t", "a", "c"}, "cat", false},
		{"case insensitive", []string{"C", "a", "T"}, "cat", true},
		{"missing letter", []string{"c", "a"}, "cat", false},
		{"no letters", nil, "cat", false},
		{"multi-rune tokens", []string{"ca", "t"}, "cat", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LetterOrder(tt.letters, tt.expected); got != tt.want {
				t.Errorf("LetterOrder(%v, %q) = %v, want %v", tt.letters, tt.expected, got, tt.want)
			}
		})
	}
}

func TestSlotWord(t *testing.T) {
	if !SlotWord("Zebra", "zebra") {
		t.Error("expected case-insensitive slot match")
	}
	if SlotWord("zebra", "lion") {
		t.Error("word must be graded against the targeted slot's word only")
	}
}

func TestPairMatch(t *testing.T) {
	wordCard := models.Card{ID: "7-a", PairID: 7, ContentType: models.CardWord, Content: "fox"}
	imageCard := models.Card{ID: "7-b", PairID: 7, ContentType: models.CardImage, Content: "/img/fox.png"}
	otherCard := models.Card{ID: "9-a", PairID: 9, ContentType: models.CardWord, Content: "owl"}

	tests := []struct {
		name string
		a, b models.Card
		want bool
	}{
		{"same pair different facets", wordCard, imageCard, true},
		{"order does not matter", imageCard, wordCard, true},
		{"different pairs", wordCard, otherCard, false},
		{"card against itself", wordCard, wordCard, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PairMatch(tt.a, tt.b); got != tt.want {
				t.Errorf("PairMatch(%s, %s) = %v, want %v", tt.a.ID, tt.b.ID, got, tt.want)
			}
		})
	}
}

func TestFullLength(t *testing.T) {
	tests := []struct {
		name        string
		typed       string
		expected    string
		wantReady   bool
		wantCorrect bool
	}{
		{"too short", "ca", "cat", false, false},
		{"full and correct", "cat", "cat", true, true},
		{"full but wrong", "cot", "cat", true, false},
		{"case insensitive", "CAT", "cat", true, true},
		{"longer than target", "cats", "cat", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ready, correct := FullLength(tt.typed, tt.expected)
			if ready != tt.wantReady || correct != tt.wantCorrect {
				t.Errorf("FullLength(%q, %q) = (%v, %v), want (%v, %v)",
					tt.typed, tt.expected, ready, correct, tt.wantReady, tt.wantCorrect)
			}
		})
	}
}
