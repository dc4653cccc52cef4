package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/xerrors"

	"github.com/sambabib/dependency-dashboard/pkg/aggregate"
	"github.com/sambabib/dependency-dashboard/pkg/dashboard"
	"github.com/sambabib/dependency-dashboard/pkg/filter"
	"github.com/sambabib/dependency-dashboard/pkg/license"
	"github.com/sambabib/dependency-dashboard/pkg/logger"
	"github.com/sambabib/dependency-dashboard/pkg/source"
)

// Uploaded manifests larger than this are rejected.
const maxManifestSize = 1 << 20

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Policy       license.Policy
	ReportsDir   string
	DashboardDir string
}

// Server serves the dashboard API over one loaded data set. The data is read
// once at start-up and never changes, so handlers share it without locking.
type Server struct {
	data *source.Data
	base dashboard.State
	opts Options
	mux  *http.ServeMux
}

// New builds a server over data.
func New(data *source.Data, opts Options) *Server {
	s := &Server{
		data: data,
		base: dashboard.New(data.Records, opts.Policy),
		opts: opts,
		mux:  http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/dependencies", s.handleDependencies)
	s.mux.HandleFunc("GET /api/summary", s.handleSummary)
	s.mux.HandleFunc("GET /api/high-risk", s.handleHighRisk)
	s.mux.HandleFunc("GET /api/projects", s.handleProjects)
	s.mux.HandleFunc("GET /api/licenses", s.handleLicenses)
	s.mux.HandleFunc("GET /api/alerts", s.handleAlerts)
	s.mux.HandleFunc("GET /api/report", s.handleReport)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("POST /api/manifest", s.handleManifest)

	if s.opts.ReportsDir != "" {
		s.mux.Handle("GET /reports/", http.StripPrefix("/reports/", http.FileServer(http.Dir(s.opts.ReportsDir))))
	}
	if s.opts.DashboardDir != "" {
		s.mux.Handle("GET /", http.FileServer(http.Dir(s.opts.DashboardDir)))
	}
}

// Handler returns the gzip-compressing root handler.
func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(logRequests(s.mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Serving dependency dashboard on http://localhost%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return xerrors.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return xerrors.Errorf("server shutdown failed: %w", err)
		}
		return nil
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debugf("HTTP: %s %s (%s)", r.Method, r.URL.RequestURI(), time.Since(start))
	})
}

// view applies the project and filter query parameters to the base state.
func (s *Server) view(r *http.Request) (dashboard.State, error) {
	q := r.URL.Query()
	f, err := filter.ParseState(filter.Values{
		Status:   q.Get("status"),
		Risk:     q.Get("risk"),
		Security: q.Get("security"),
		Search:   q.Get("search"),
	})
	if err != nil {
		return dashboard.State{}, err
	}
	state := s.base.WithProject(q.Get("project"))
	if f.IsDefault() {
		return state, nil
	}
	return state.WithFilters(f), nil
}

func (s *Server) handleDependencies(w http.ResponseWriter, r *http.Request) {
	state, err := s.view(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, state.Rows())
}

func (s *Server) handleHighRisk(w http.ResponseWriter, r *http.Request) {
	state, err := s.view(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, state.HighRiskRows())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	state, err := s.view(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, state.Result)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.base.Projects)
}

func (s *Server) handleLicenses(w http.ResponseWriter, r *http.Request) {
	state, err := s.view(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, state.Licenses)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alert, ok := aggregate.CheckIssues(s.data.Records)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, s.data.ReportHTML)
}

type status struct {
	*source.Data
	Count       int    `json:"count"`
	ReportTitle string `json:"report_title,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, status{
		Data:        s.data,
		Count:       len(s.data.Records),
		ReportTitle: source.Title(s.data.ReportHTML),
	})
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxManifestSize)

	filename, content, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := dashboard.ImportManifest(r.URL.Query().Get("project"), filename, content)
	if err != nil {
		var notice *dashboard.Notice
		if errors.As(err, &notice) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": notice.Message})
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// readUpload returns the manifest from a multipart "file" field or, for any
// other content type, the raw body named by the "filename" query parameter.
// A missing upload yields a nil content slice.
func readUpload(r *http.Request) (string, []byte, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, nil
		}
		if err != nil {
			return "", nil, xerrors.Errorf("invalid upload: %w", err)
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			return "", nil, xerrors.Errorf("failed to read upload: %w", err)
		}
		return header.Filename, content, nil
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, xerrors.Errorf("failed to read request body: %w", err)
	}
	if len(content) == 0 {
		return "", nil, nil
	}
	return r.URL.Query().Get("filename"), content, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": fmt.Sprint(err)})
}
