package health_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaplan/synaplan-tts/internal/health"
	"github.com/synaplan/synaplan-tts/internal/voice"
)

func loadRegistry(t *testing.T, withVoice bool) *voice.Registry {
	t.Helper()

	dir := t.TempDir()
	if withVoice {
		model := filepath.Join(dir, "en_US-lessac-medium.onnx")
		require.NoError(t, os.WriteFile(model, []byte("onnx"), 0o644))
		require.NoError(t, os.WriteFile(model+".json", []byte(`{"audio":{"sample_rate":22050}}`), 0o644))
	}

	reg, err := voice.Load(dir)
	require.NoError(t, err)
	return reg
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	s := health.New(0, loadRegistry(t, true))
	handler := s.Handler()

	rr := get(handler, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code, "not ready before SetReady")

	s.SetReady(true)
	rr = get(handler, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestReadyz_DegradedWithoutVoices(t *testing.T) {
	t.Parallel()

	s := health.New(0, loadRegistry(t, false))
	s.SetReady(true)

	rr := get(s.Handler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "no_voices")
}

func TestReadyz_OKWithVoices(t *testing.T) {
	t.Parallel()

	s := health.New(0, loadRegistry(t, true))
	s.SetReady(true)

	rr := get(s.Handler(), "/readyz")
	assert.Equal(t, http.StatusOK, rr.Code)
}
