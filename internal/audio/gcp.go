package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-trainer/internal/logger"
)

// DefaultLanguageCode is the Mandarin voice locale.
const DefaultLanguageCode = "cmn-CN"

// DefaultVoiceName is used when no voice is configured.
const DefaultVoiceName = "cmn-CN-Wavenet-A"

// synthesizeTimeout bounds a single Text-to-Speech request.
const synthesizeTimeout = 15 * time.Second

// Synthesizer turns text into mp3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice *texttospeechpb.VoiceSelectionParams) ([]byte, error)
}

// GCPConfig configures the Cloud Text-to-Speech speaker.
type GCPConfig struct {
	CacheDir     string
	LanguageCode string
	VoiceName    string
}

// GCPSpeaker synthesizes speech with Cloud Text-to-Speech and caches the mp3
// files by content hash. Each request runs in its own goroutine.
type GCPSpeaker struct {
	synth    Synthesizer
	voice    *texttospeechpb.VoiceSelectionParams
	cacheDir string
	log      *zap.Logger

	mu       sync.Mutex
	inflight map[string]bool
	wg       sync.WaitGroup
}

// NewGCPSpeaker creates a speaker on top of synth. Empty config values fall
// back to the Mandarin defaults.
func NewGCPSpeaker(synth Synthesizer, cfg GCPConfig) *GCPSpeaker {
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = DefaultLanguageCode
	}
	if cfg.VoiceName == "" {
		cfg.VoiceName = DefaultVoiceName
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(os.TempDir(), "chinese-trainer-audio")
	}
	return &GCPSpeaker{
		synth: synth,
		voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: cfg.LanguageCode,
			Name:         cfg.VoiceName,
		},
		cacheDir: cfg.CacheDir,
		log:      logger.Named("audio"),
		inflight: make(map[string]bool),
	}
}

// Speak synthesizes text in the background unless it is cached already.
// The request outlives ctx cancellation of the caller.
func (s *GCPSpeaker) Speak(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	name := Filename(s.voice.Name, text)
	s.mu.Lock()
	if s.inflight[name] {
		s.mu.Unlock()
		return
	}
	s.inflight[name] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inflight, name)
			s.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), synthesizeTimeout)
		defer cancel()

		if _, err := s.Fetch(ctx, text); err != nil {
			s.log.Debug("Speech request failed", zap.String("text", text), zap.Error(err))
		}
	}()
}

// Fetch returns the path of the cached mp3 for text, synthesizing it first
// when missing.
func (s *GCPSpeaker) Fetch(ctx context.Context, text string) (string, error) {
	path := s.Path(text)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(s.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio dir: %w", err)
	}

	audio, err := s.synth.Synthesize(ctx, text, s.voice)
	if err != nil {
		return "", fmt.Errorf("failed to synthesize speech: %w", err)
	}
	if len(audio) == 0 {
		return "", errors.New("empty audio content")
	}

	// Write to a temp file first so readers never see a partial mp3
	tmp, err := os.CreateTemp(s.cacheDir, "*.part")
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}
	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close audio file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store audio file: %w", err)
	}

	s.log.Debug("Cached speech", zap.String("path", path))
	return path, nil
}

// Path returns where the mp3 for text is cached.
func (s *GCPSpeaker) Path(text string) string {
	return filepath.Join(s.cacheDir, Filename(s.voice.Name, strings.TrimSpace(text)))
}

// Wait blocks until every pending request has finished.
func (s *GCPSpeaker) Wait() {
	s.wg.Wait()
}

// CloudSynthesizer calls the Cloud Text-to-Speech API.
type CloudSynthesizer struct {
	client *texttospeech.Client
}

// NewCloudSynthesizer dials Cloud Text-to-Speech with application default credentials.
func NewCloudSynthesizer(ctx context.Context) (*CloudSynthesizer, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}
	return &CloudSynthesizer{client: client}, nil
}

func (c *CloudSynthesizer) Synthesize(ctx context.Context, text string, voice *texttospeechpb.VoiceSelectionParams) ([]byte, error) {
	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: voice,
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  1,
		},
	}
	resp, err := c.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.AudioContent, nil
}

// Close releases the API connection.
func (c *CloudSynthesizer) Close() error {
	return c.client.Close()
}
