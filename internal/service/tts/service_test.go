package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/config"
)

func newVendorServer(t *testing.T, status int, body, contentType string, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSynthesizePrimaryVendor(t *testing.T) {
	var elevenHits int
	eleven := newVendorServer(t, http.StatusOK, "MP3DATA", "audio/mpeg", &elevenHits)

	svc := NewService(config.TTSConfig{ElevenLabsAPIKey: "k1", OpenAIAPIKey: "k2"})
	svc.elevenBaseURL = eleven.URL
	svc.openaiBaseURL = "http://127.0.0.1:1" // must not be reached

	audio, err := svc.Synthesize(context.Background(), "Hello, visitor.")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if audio.Vendor != "elevenlabs" {
		t.Fatalf("vendor = %q", audio.Vendor)
	}
	if string(audio.Data) != "MP3DATA" || audio.ContentType != "audio/mpeg" {
		t.Fatalf("audio = %+v", audio)
	}
	if elevenHits != 1 {
		t.Fatalf("elevenlabs hits = %d, want 1", elevenHits)
	}
}

func TestSynthesizeFallsBackToOpenAI(t *testing.T) {
	eleven := newVendorServer(t, http.StatusTooManyRequests, "quota exceeded", "", nil)
	var openaiHits int
	openai := newVendorServer(t, http.StatusOK, "OGGDATA", "audio/ogg", &openaiHits)

	svc := NewService(config.TTSConfig{ElevenLabsAPIKey: "k1", OpenAIAPIKey: "k2"})
	svc.elevenBaseURL = eleven.URL
	svc.openaiBaseURL = openai.URL

	audio, err := svc.Synthesize(context.Background(), "Hello again.")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if audio.Vendor != "openai" {
		t.Fatalf("vendor = %q, want openai", audio.Vendor)
	}
	if openaiHits != 1 {
		t.Fatalf("openai hits = %d, want 1", openaiHits)
	}
}

func TestSynthesizeAllVendorsFail(t *testing.T) {
	eleven := newVendorServer(t, http.StatusInternalServerError, "boom", "", nil)
	openai := newVendorServer(t, http.StatusUnauthorized, "bad key", "", nil)

	svc := NewService(config.TTSConfig{ElevenLabsAPIKey: "k1", OpenAIAPIKey: "k2"})
	svc.elevenBaseURL = eleven.URL
	svc.openaiBaseURL = openai.URL

	if _, err := svc.Synthesize(context.Background(), "anyone there"); !errors.Is(err, ErrNoVendor) {
		t.Fatalf("err = %v, want ErrNoVendor", err)
	}
}

func TestSynthesizeSkipsUnconfiguredVendors(t *testing.T) {
	var openaiHits int
	openai := newVendorServer(t, http.StatusOK, "DATA", "audio/mpeg", &openaiHits)

	svc := NewService(config.TTSConfig{OpenAIAPIKey: "k2"})
	svc.openaiBaseURL = openai.URL

	audio, err := svc.Synthesize(context.Background(), "no elevenlabs key")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if audio.Vendor != "openai" {
		t.Fatalf("vendor = %q", audio.Vendor)
	}
}

func TestSynthesizeValidation(t *testing.T) {
	svc := NewService(config.TTSConfig{})
	if _, err := svc.Synthesize(context.Background(), "  "); err == nil {
		t.Fatal("blank text should be rejected")
	}
	if _, err := svc.Synthesize(context.Background(), "hi"); !errors.Is(err, ErrNoVendor) {
		t.Fatalf("no vendors configured: err = %v, want ErrNoVendor", err)
	}
}

func TestSynthesizeTruncatesLongText(t *testing.T) {
	var gotLen int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64*1024)
		n, _ := r.Body.Read(buf)
		gotLen = n
		w.Write([]byte("DATA"))
	}))
	t.Cleanup(srv.Close)

	svc := NewService(config.TTSConfig{ElevenLabsAPIKey: "k1"})
	svc.elevenBaseURL = srv.URL

	long := strings.Repeat("a", 3*maxTextLength)
	if _, err := svc.Synthesize(context.Background(), long); err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if gotLen == 0 || gotLen > maxTextLength+512 {
		t.Fatalf("request body length = %d, want <= %d plus envelope", gotLen, maxTextLength)
	}
}

func TestSynthesizeTruncatesOnRuneBoundary(t *testing.T) {
	var gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotText = body.Text
		w.Write([]byte("DATA"))
	}))
	t.Cleanup(srv.Close)

	svc := NewService(config.TTSConfig{ElevenLabsAPIKey: "k1"})
	svc.elevenBaseURL = srv.URL

	// Three-byte runes, so a byte-based cut at the cap would land mid-rune.
	long := strings.Repeat("न", maxTextLength)
	if _, err := svc.Synthesize(context.Background(), long); err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if gotText == "" || len(gotText) > maxTextLength {
		t.Fatalf("vendor text length = %d", len(gotText))
	}
	if !utf8.ValidString(gotText) {
		t.Fatal("vendor received invalid utf-8")
	}
}
