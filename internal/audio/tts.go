// Package audio generates spoken prompts for spelling-bee questions.
// The engine treats the resulting file paths as opaque media refs.
package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TTSService provides text-to-speech functionality
type TTSService struct {
	audioDir string
}

const ttsRequestTimeout = 10 * time.Second

// NewTTSService creates a new TTS service writing MP3 files to audioDir
func NewTTSService(audioDir string) *TTSService {
	return &TTSService{
		audioDir: audioDir,
	}
}

// GenerateAudioFile converts a word to speech and saves it as MP3.
// Returns the filename (not full path); an existing file is reused.
func (s *TTSService) GenerateAudioFile(word string) (string, error) {
	sanitized := strings.ToLower(strings.TrimSpace(word))
	sanitized = strings.ReplaceAll(sanitized, " ", "_")

	filename := fmt.Sprintf("word_%s.mp3", sanitized)
	path := filepath.Join(s.audioDir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := s.generateUsingGoogleTTS(word, path); err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}

	return filename, nil
}

// generateUsingGoogleTTS uses Google Translate's text-to-speech API,
// a simple free option that doesn't require API keys.
func (s *TTSService) generateUsingGoogleTTS(text, outputPath string) error {
	baseURL := "https://translate.google.com/translate_tts"

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", "en")
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))

	fullURL := baseURL + "?" + params.Encode()

	ctx, cancel := context.WithTimeout(context.Background(), ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Required by Google
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	client := &http.Client{Timeout: ttsRequestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	return nil
}
