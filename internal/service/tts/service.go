// Package tts proxies text-to-speech synthesis so vendor API keys stay on the
// server. ElevenLabs is the primary vendor with OpenAI as the single fallback.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/config"
)

const (
	defaultElevenLabsBaseURL = "https://api.elevenlabs.io"
	defaultOpenAIBaseURL     = "https://api.openai.com"
	defaultElevenLabsVoice   = "21m00Tcm4TlvDq8ikWAM"
	defaultOpenAIModel       = "tts-1"
	defaultOpenAIVoice       = "alloy"

	requestTimeout = 30 * time.Second
	maxTextLength  = 2000
)

// ErrNoVendor is returned when every configured vendor failed or none is
// configured at all.
var ErrNoVendor = errors.New("no tts vendor succeeded")

// Audio is one synthesized clip.
type Audio struct {
	Data        []byte
	ContentType string
	Vendor      string
}

// Service synthesizes speech through external vendors. Base URLs are
// overridable so tests can point at local fakes.
type Service struct {
	client *http.Client

	elevenKey     string
	elevenVoice   string
	elevenBaseURL string

	openaiKey     string
	openaiModel   string
	openaiVoice   string
	openaiBaseURL string
}

func NewService(cfg config.TTSConfig) *Service {
	s := &Service{
		client:        &http.Client{Timeout: requestTimeout},
		elevenKey:     cfg.ElevenLabsAPIKey,
		elevenVoice:   cfg.ElevenLabsVoice,
		elevenBaseURL: defaultElevenLabsBaseURL,
		openaiKey:     cfg.OpenAIAPIKey,
		openaiModel:   cfg.OpenAIModel,
		openaiVoice:   cfg.OpenAIVoice,
		openaiBaseURL: defaultOpenAIBaseURL,
	}
	if s.elevenVoice == "" {
		s.elevenVoice = defaultElevenLabsVoice
	}
	if s.openaiModel == "" {
		s.openaiModel = defaultOpenAIModel
	}
	if s.openaiVoice == "" {
		s.openaiVoice = defaultOpenAIVoice
	}
	return s
}

// Synthesize converts text to audio, trying ElevenLabs first and OpenAI once
// as a fallback.
func (s *Service) Synthesize(ctx context.Context, text string) (*Audio, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text must not be empty")
	}
	if len(text) > maxTextLength {
		// Walk back to a rune boundary so the cut never ships a split rune.
		cut := maxTextLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	var lastErr error
	if s.elevenKey != "" {
		audio, err := s.synthesizeElevenLabs(ctx, text)
		if err == nil {
			return audio, nil
		}
		zap.L().Warn("elevenlabs synthesis failed", zap.Error(err))
		lastErr = err
	}
	if s.openaiKey != "" {
		audio, err := s.synthesizeOpenAI(ctx, text)
		if err == nil {
			return audio, nil
		}
		zap.L().Warn("openai synthesis failed", zap.Error(err))
		lastErr = err
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoVendor, lastErr)
	}
	return nil, ErrNoVendor
}

func (s *Service) synthesizeElevenLabs(ctx context.Context, text string) (*Audio, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"text":     text,
		"model_id": "eleven_multilingual_v2",
		"voice_settings": map[string]float64{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", s.elevenBaseURL, s.elevenVoice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.elevenKey)
	req.Header.Set("Accept", "audio/mpeg")

	data, contentType, err := s.do(req)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return &Audio{Data: data, ContentType: contentType, Vendor: "elevenlabs"}, nil
}

func (s *Service) synthesizeOpenAI(ctx context.Context, text string) (*Audio, error) {
	payload, err := json.Marshal(map[string]string{
		"model": s.openaiModel,
		"voice": s.openaiVoice,
		"input": text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.openaiBaseURL+"/v1/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.openaiKey)

	data, contentType, err := s.do(req)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return &Audio{Data: data, ContentType: contentType, Vendor: "openai"}, nil
}

func (s *Service) do(req *http.Request) ([]byte, string, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", fmt.Errorf("vendor returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, "", errors.New("vendor returned empty audio")
	}
	return data, resp.Header.Get("Content-Type"), nil
}
