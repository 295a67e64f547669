package models

import "testing"

func TestParseGameType(t *testing.T) {
	tests := []struct {
		input   string
		want    GameType
		wantErr bool
	}{
		{"anagram", GameAnagram, false},
		{"matchup", GameMatchUp, false},
		{"memory", GameMemory, false},
		{"spellingbee", GameSpellingBee, false},
		{"SpellingBee", GameSpellingBee, false},
		{" memory ", GameMemory, false},
		{"hangman", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGameType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGameType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseGameType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input   string
		want    Difficulty
		wantErr bool
	}{
		{"EASY", DifficultyEasy, false},
		{"easy", DifficultyEasy, false},
		{"Medium", DifficultyMedium, false},
		{"HARD", DifficultyHard, false},
		{"impossible", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDifficulty(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDifficulty(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDifficulty(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestQuestionAssets(t *testing.T) {
	q := Question{Word: "fox"}
	if q.HasImage() || q.HasAudio() {
		t.Error("bare question must report no assets")
	}
	q.ImageSrc = "/img/fox.png"
	if !q.HasImage() {
		t.Error("expected HasImage")
	}
	q.AudioSrc = "/audio/fox.mp3"
	if !q.HasAudio() {
		t.Error("expected HasAudio")
	}
}
