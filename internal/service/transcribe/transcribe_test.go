package transcribe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proposalgen/internal/config"
)

func writeAudioFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTranscribeMissingFileIsPreconditionFailure(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewGroqClient(config.ProviderConfig{BaseURL: server.URL, APIKey: "key"})
	_, err := client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio file not found")
	assert.False(t, called, "no remote call should be made for a missing file")
}

func TestTranscribeSuccess(t *testing.T) {
	var gotAuth, gotModel, gotFormat, gotFile string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/audio/transcriptions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		raw, err := io.ReadAll(file)
		require.NoError(t, err)
		gotFile = string(raw)
		io.WriteString(w, "the transcript\n")
	}))
	defer server.Close()

	client := NewGroqClient(config.ProviderConfig{BaseURL: server.URL, APIKey: "secret", Model: "distil-whisper-large-v3-en"})
	path := writeAudioFile(t, "call.mp3", "fake-audio")

	transcript, err := client.Transcribe(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "the transcript", transcript)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "distil-whisper-large-v3-en", gotModel)
	assert.Equal(t, "text", gotFormat)
	assert.Equal(t, "fake-audio", gotFile)
}

func TestTranscribeRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewGroqClient(config.ProviderConfig{BaseURL: server.URL, APIKey: "key"})
	path := writeAudioFile(t, "call.wav", "fake-audio")

	_, err := client.Transcribe(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestFixedTranscriberIsDeterministic(t *testing.T) {
	fixed := NewFixed()
	got, err := fixed.Transcribe(context.Background(), "whatever.mp3")
	require.NoError(t, err)
	assert.Equal(t, MockTranscript, got)
	assert.True(t, strings.Contains(got, "Sales Sniper"))
}
