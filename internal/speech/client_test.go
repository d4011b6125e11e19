package speech

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpeechToText(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/speech-to-text", r.URL.Path)

		file, header, err := r.FormFile("audio")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "clip.wav", header.Filename)
		require.Equal(t, "audio/wav", header.Header.Get("Content-Type"))

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, "fake-audio-bytes", string(data))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"hello world"}`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)
	raw, err := client.SpeechToText(context.Background(), "clip.wav", "audio/wav", strings.NewReader("fake-audio-bytes"))
	require.NoError(t, err)
	require.JSONEq(t, `{"text":"hello world"}`, string(raw))
}

func TestAnalyzeTextOnly(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/analyze", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "I has a apple", r.FormValue("text"))

		// Text-only analysis carries no audio part.
		_, _, err := r.FormFile("audio")
		require.Error(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"corrected":"I have an apple"}`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)
	raw, err := client.Analyze(context.Background(), "I has a apple", "", "", nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"corrected":"I have an apple"}`, string(raw))
}

func TestUpstreamErrorStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model is down", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)
	_, err := client.SpeechToText(context.Background(), "clip.wav", "audio/wav", strings.NewReader("x"))
	require.ErrorContains(t, err, "503")
}

func TestUpstreamNonJSONPayload(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)
	_, err := client.SpeechToText(context.Background(), "clip.wav", "audio/wav", strings.NewReader("x"))
	require.ErrorContains(t, err, "non-JSON")
}
