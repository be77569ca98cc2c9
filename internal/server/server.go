// Package server implements the HTTP API for synaplan-tts.
//
// It exposes a readiness document, the voice catalogue, and the
// synthesis endpoint in both JSON-body and query-parameter form. The
// handlers validate input, resolve a voice, hand the job to the
// scheduler and package the resulting samples as WAV.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/synaplan/synaplan-tts/docs" // swagger document registration
	"github.com/synaplan/synaplan-tts/internal/audio"
	"github.com/synaplan/synaplan-tts/internal/synth"
	"github.com/synaplan/synaplan-tts/internal/voice"
)

// Server is the HTTP API front-end.
type Server struct {
	port         int
	registry     *voice.Registry
	scheduler    *synth.Scheduler
	defaultVoice string
	maxTextLen   int

	server *http.Server
}

// New creates the API server. The registry and scheduler are shared,
// already-constructed process state; the server never mutates them.
func New(port int, reg *voice.Registry, sched *synth.Scheduler, defaultVoice string, maxTextLen int) *Server {
	return &Server{
		port:         port,
		registry:     reg,
		scheduler:    sched,
		defaultVoice: defaultVoice,
		maxTextLen:   maxTextLen,
	}
}

// Handler builds the full route table, including the swagger UI and the
// CORS wrapper.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/voices", s.handleVoices)
	mux.HandleFunc("POST /api/tts", s.handleTTSPost)
	mux.HandleFunc("GET /api/tts", s.handleTTSGet)

	// Swagger UI — serves the generated OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return cors(mux)
}

// ListenAndServe starts the API server and blocks until ctx is
// cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("api server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		slog.Info("api server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("api listen: %w", err)
	}
	return nil
}

// Close gracefully shuts down the API server.
func (s *Server) Close() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// cors allows cross-origin access from any origin, matching the
// browser-facing deployments this API serves.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HealthResponse is the readiness document returned by GET /health.
type HealthResponse struct {
	Status          string   `json:"status"`
	VoicesLoaded    int      `json:"voices_loaded"`
	AvailableVoices []string `json:"available_voices"`
	DefaultVoice    string   `json:"default_voice"`
}

// VoiceInfo describes one loaded voice in GET /api/voices.
type VoiceInfo struct {
	Key          string `json:"key"`
	Locale       string `json:"locale"`
	Language     string `json:"language"`
	LanguageName string `json:"language_name"`
	Speaker      string `json:"speaker"`
	Quality      string `json:"quality"`
	SampleRate   int    `json:"sample_rate"`
}

// TTSRequest is the JSON body for POST /api/tts.
type TTSRequest struct {
	Text            string   `json:"text"`
	Voice           string   `json:"voice,omitempty"`
	Language        string   `json:"language,omitempty"`
	SpeakerID       *int     `json:"speaker_id,omitempty"`
	LengthScale     *float64 `json:"length_scale,omitempty"`
	NoiseScale      *float64 `json:"noise_scale,omitempty"`
	NoiseWScale     *float64 `json:"noise_w_scale,omitempty"`
	SentenceSilence *float64 `json:"sentence_silence,omitempty"`
	Volume          *float64 `json:"volume,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleHealth reports process status and loaded voices.
//
// @Summary     Health check
// @Description Returns process status, the loaded voice count and keys, and the configured default voice.
// @Tags        health
// @Produce     json
// @Success     200  {object}  server.HealthResponse
// @Router      /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := "ok"
	if s.registry.IsEmpty() {
		status = "no_voices"
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:          status,
		VoicesLoaded:    s.registry.Len(),
		AvailableVoices: s.registry.IDs(),
		DefaultVoice:    s.defaultVoice,
	})
}

// handleVoices lists every loaded voice.
//
// @Summary     List voices
// @Description Returns metadata for every loaded voice, in discovery order.
// @Tags        voices
// @Produce     json
// @Success     200  {array}  server.VoiceInfo
// @Router      /api/voices [get]
func (s *Server) handleVoices(w http.ResponseWriter, _ *http.Request) {
	voices := make([]VoiceInfo, 0, s.registry.Len())
	for _, v := range s.registry.List() {
		voices = append(voices, VoiceInfo{
			Key:          v.ID,
			Locale:       v.Locale,
			Language:     v.Language,
			LanguageName: v.LanguageName,
			Speaker:      v.Speaker,
			Quality:      v.Quality,
			SampleRate:   v.SampleRate,
		})
	}
	writeJSON(w, http.StatusOK, voices)
}

// handleTTSPost synthesizes speech from a JSON body.
//
// @Summary     Synthesize speech
// @Description Converts text to a WAV audio file using the resolved voice.
// @Tags        tts
// @Accept      json
// @Produce     audio/wav
// @Param       request  body  server.TTSRequest  true  "Synthesis request"
// @Success     200  {file}    file    "WAV audio"
// @Failure     400  {object}  server.errorResponse  "Invalid text or parameters"
// @Failure     404  {object}  server.errorResponse  "Voice or language not found"
// @Failure     503  {object}  server.errorResponse  "No voices loaded, or synthesis queue full"
// @Failure     504  {object}  server.errorResponse  "Synthesis timed out"
// @Router      /api/tts [post]
func (s *Server) handleTTSPost(w http.ResponseWriter, r *http.Request) {
	var req TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	s.synthesize(w, r, req)
}

// handleTTSGet synthesizes speech from query parameters. Handy for
// quick browser testing: /api/tts?text=Hallo+Welt&language=de
//
// @Summary     Synthesize speech (query form)
// @Description Converts text to a WAV audio file. Accepts a subset of the JSON parameters as query values.
// @Tags        tts
// @Produce     audio/wav
// @Param       text          query  string  true   "Text to synthesize"
// @Param       voice         query  string  false  "Exact voice key, e.g. de_DE-thorsten-medium"
// @Param       language      query  string  false  "Language shortcode: de, en, es, tr, ru"
// @Param       length_scale  query  number  false  "Speed — <1.0 faster, >1.0 slower"
// @Param       volume        query  number  false  "Output volume multiplier in [0, 5]"
// @Success     200  {file}    file    "WAV audio"
// @Failure     400  {object}  server.errorResponse
// @Failure     404  {object}  server.errorResponse
// @Failure     503  {object}  server.errorResponse
// @Failure     504  {object}  server.errorResponse
// @Router      /api/tts [get]
func (s *Server) handleTTSGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := TTSRequest{
		Text:     q.Get("text"),
		Voice:    q.Get("voice"),
		Language: q.Get("language"),
	}

	for name, dst := range map[string]**float64{
		"length_scale": &req.LengthScale,
		"volume":       &req.Volume,
	} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: %q", name, raw))
			return
		}
		*dst = &f
	}

	s.synthesize(w, r, req)
}

// synthesize is the shared path behind both /api/tts forms: validate,
// resolve, schedule, package, respond.
func (s *Server) synthesize(w http.ResponseWriter, r *http.Request, req TTSRequest) {
	logger := slog.With("request_id", uuid.NewString())

	// Text validation happens before any resolution or scheduling work.
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if n := utf8.RuneCountInString(req.Text); n > s.maxTextLen {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("text length %d exceeds maximum %d", n, s.maxTextLen))
		return
	}

	if s.registry.IsEmpty() {
		writeError(w, http.StatusServiceUnavailable, "no voices loaded on server")
		return
	}

	v, err := voice.Resolve(s.registry, req.Voice, req.Language, s.defaultVoice)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	pcm, err := s.scheduler.Submit(r.Context(), synth.Job{
		Voice: v,
		Text:  req.Text,
		Params: synth.Params{
			SpeakerID:       req.SpeakerID,
			LengthScale:     req.LengthScale,
			NoiseScale:      req.NoiseScale,
			NoiseWScale:     req.NoiseWScale,
			SentenceSilence: req.SentenceSilence,
			Volume:          req.Volume,
		},
	})
	if err != nil {
		status := statusForError(err)
		logger.Error("synthesis request failed",
			"voice", v.ID, "text_length", len(req.Text), "status", status, "error", err)
		if status == http.StatusServiceUnavailable {
			w.Header().Set("Retry-After", "1")
		}
		writeError(w, status, err.Error())
		return
	}

	wav := audio.WAV(pcm, v.SampleRate)
	logger.Info("synthesis complete", "voice", v.ID, "wav_bytes", len(wav))

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(wav)))
	w.Header().Set("X-Voice", v.ID)
	w.Header().Set("Content-Disposition", `inline; filename="tts.wav"`)
	_, _ = w.Write(wav)
}

// statusForError maps the synthesis error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, synth.ErrInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, synth.ErrOverloaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, synth.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		// Client went away mid-request.
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
