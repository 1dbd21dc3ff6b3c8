package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/validationly/signalscan/internal/digest"
	"github.com/validationly/signalscan/internal/pain"
	"github.com/validationly/signalscan/internal/scan"
	"github.com/validationly/signalscan/internal/score"
	"github.com/validationly/signalscan/internal/textgen"
)

// Server exposes the scan, pain, and digest pipelines over HTTP.
type Server struct {
	scanner   *scan.Scanner
	extractor *pain.Extractor
	builder   *digest.Builder
	gen       textgen.Generator
	router    *mux.Router
}

// NewServer wires the pipelines behind the API routes. gen may be nil to
// disable digest prose.
func NewServer(scanner *scan.Scanner, extractor *pain.Extractor, builder *digest.Builder, gen textgen.Generator) *Server {
	s := &Server{
		scanner:   scanner,
		extractor: extractor,
		builder:   builder,
		gen:       gen,
		router:    mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/v1/scan", s.handleScan).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/pain", s.handlePain).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/digest", s.handleDigest).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

type scanResponse struct {
	scan.Result
	Score score.Result `json:"score"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scan.Request
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.scanner.Scan(r.Context(), req)
	if err != nil {
		writeScanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scanResponse{
		Result: result,
		Score:  score.Score(result.Signals),
	})
}

type painRequest struct {
	scan.Request
	Persona pain.Persona `json:"persona"`
}

func (s *Server) handlePain(w http.ResponseWriter, r *http.Request) {
	var req painRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !pain.ValidPersona(req.Persona) {
		writeError(w, http.StatusBadRequest, "unknown persona")
		return
	}

	result, err := s.scanner.Scan(r.Context(), req.Request)
	if err != nil {
		writeScanError(w, err)
		return
	}
	extraction, err := s.extractor.Extract(result.Signals, req.Query, req.Persona)
	if err != nil {
		log.Error().Err(err).Msg("pain extraction failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, extraction)
}

type digestRequest struct {
	scan.Request
	Category string `json:"category"`
	Prose    bool   `json:"prose"`
}

type digestResponse struct {
	digest.Digest
	ShareText string `json:"share_text,omitempty"`
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	var req digestRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Category == "" {
		req.Category = req.Query
	}
	if req.Query == "" {
		req.Query = req.Category
	}

	result, err := s.scanner.Scan(r.Context(), req.Request)
	if err != nil {
		writeScanError(w, err)
		return
	}

	resp := digestResponse{Digest: s.builder.Build(result.Signals, req.Category)}
	if req.Prose && s.gen != nil {
		text, err := digest.ShareText(r.Context(), s.gen, resp.Digest)
		if err != nil {
			log.Warn().Err(err).Msg("digest prose generation failed")
		} else {
			resp.ShareText = text
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decode(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return errors.New("malformed request body")
	}
	return nil
}

// writeScanError maps validation failures to 400 and hides everything else
// behind a generic 500.
func writeScanError(w http.ResponseWriter, err error) {
	if errors.Is(err, scan.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Error().Err(err).Msg("scan failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("response encode failed")
	}
}
