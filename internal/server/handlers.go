package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/geco/pkg/buildinfo"
	gerrors "github.com/matzehuels/geco/pkg/errors"
	"github.com/matzehuels/geco/pkg/fetch"
	"github.com/matzehuels/geco/pkg/notation"
	"github.com/matzehuels/geco/pkg/pipeline"
)

// Response headers describing a rendered artifact.
const (
	headerCache    = "X-Geco-Cache"
	headerWarnings = "X-Geco-Warnings"
)

// headerClient names the caller of a request. A newer request of the same
// client for the same query makes a running one fail as stale.
const headerClient = "X-Geco-Client"

// levelsNotation is listed when a levels request names no notation.
const levelsNotation = "eggNOG"

var contentTypes = map[string]string{
	pipeline.FormatSVG:     "image/svg+xml",
	pipeline.FormatTreeSVG: "image/svg+xml",
	pipeline.FormatPNG:     "image/png",
	pipeline.FormatJSON:    "application/json",
	pipeline.FormatDOT:     "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleRender renders posted options in the format of the format
// parameter, else the first requested format, else SVG.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := decodeOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
		if len(opts.Formats) > 0 {
			format = opts.Formats[0]
		}
	}
	s.render(w, r, opts, format)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := decodeOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, opts, pipeline.FormatJSON)
}

type levelsResponse struct {
	Notation string           `json:"notation"`
	Levels   []pipeline.Level `json:"levels"`
}

// handleLevels lists the levels of a hierarchical notation. GET requests
// name the dataset by query; POST requests carry options, usually with an
// inline dataset.
func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	v := r.URL.Query()
	if r.Method == http.MethodPost {
		var err error
		if opts, err = decodeOptions(w, r); err != nil {
			s.writeError(w, r, err)
			return
		}
	} else {
		q, err := queryFromValues(v.Get("query"), v)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Query = q
		opts.Refresh, err = boolParam(v, "refresh")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	name := v.Get("notation")
	if name == "" {
		name = opts.Params.Notation
	}
	if name == "" {
		name = levelsNotation
	}
	if err := gerrors.ValidateNotation(name); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts.Labels = true
	opts.Params.Options.ShowTree = false
	opts.Caller = callerOf(r)
	b, _, err := s.runner.Load(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, levelsResponse{
		Notation: name,
		Levels:   pipeline.LevelsOf(b.Dataset, name, b.Labels),
	})
}

// handleContext renders a query against the configured source. Layout
// parameters come from the URL: kind, cutoff, notation, nside, taxlevel,
// seed, style, legend, tree and refresh.
func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	q, err := queryFromValues(chi.URLParam(r, "query"), v)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := pipeline.Options{Query: q, Labels: true}
	if err := contextOptions(v, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, opts, chi.URLParam(r, "format"))
}

func contextOptions(v url.Values, opts *pipeline.Options) error {
	opts.Params.Notation = v.Get("notation")
	opts.Params.TaxLevel = v.Get("taxlevel")
	opts.Style = v.Get("style")
	if n := v.Get("nside"); n != "" {
		side, err := strconv.Atoi(n)
		if err != nil || side < 0 {
			return gerrors.New(gerrors.ErrCodeInvalidInput, "invalid nside %q", n)
		}
		opts.Params.NSide = notation.Window{Upstream: side, Downstream: side}
	}
	if seed := v.Get("seed"); seed != "" {
		n, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return gerrors.New(gerrors.ErrCodeInvalidInput, "invalid seed %q", seed)
		}
		opts.Seed = n
	}
	var err error
	if opts.Legend, err = boolParam(v, "legend"); err != nil {
		return err
	}
	if opts.Params.Options.ShowTree, err = boolParam(v, "tree"); err != nil {
		return err
	}
	opts.Refresh, err = boolParam(v, "refresh")
	return err
}

// render runs the pipeline for a single format and writes the artifact.
func (s *Server) render(w http.ResponseWriter, r *http.Request, opts pipeline.Options, format string) {
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	opts.Caller = callerOf(r)
	if format == pipeline.FormatDOT || format == pipeline.FormatTreeSVG {
		opts.Params.Options.ShowTree = true
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	cache := "miss"
	if res.CacheInfo.RenderHit {
		cache = "hit"
	}
	h.Set(headerCache, cache)
	if len(res.Warnings) > 0 {
		h.Set(headerWarnings, strconv.Itoa(len(res.Warnings)))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Artifacts[format]); err != nil {
		s.logger.Debug("write response", "err", err)
	}
}

// callerOf returns the client id of r, or its request id for anonymous
// callers, so that unrelated requests never supersede each other.
func callerOf(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(headerClient)); id != "" {
		return "client:" + id
	}
	return "request:" + middleware.GetReqID(r.Context())
}

// decodeOptions reads the posted pipeline options.
func decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(&opts); err != nil {
		return opts, gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "decode request body")
	}
	return opts, nil
}

// queryFromValues builds a query from comma-separated ids and the kind and
// cutoff parameters. Several ids without a kind form a list query.
func queryFromValues(ids string, v url.Values) (fetch.Query, error) {
	q := fetch.Query{Kind: v.Get("kind")}
	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			q.IDs = append(q.IDs, id)
		}
	}
	if len(q.IDs) == 0 {
		return q, gerrors.New(gerrors.ErrCodeInvalidInput, "query is required")
	}
	if q.Kind == "" {
		q.Kind = fetch.KindCluster
		if len(q.IDs) > 1 {
			q.Kind = fetch.KindList
		}
	}
	if c := v.Get("cutoff"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil {
			return q, gerrors.New(gerrors.ErrCodeInvalidQuery, "invalid cutoff %q", c)
		}
		q.Cutoff = n
	}
	return q, q.Validate()
}

func boolParam(v url.Values, key string) (bool, error) {
	s := v.Get(key)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, gerrors.New(gerrors.ErrCodeInvalidInput, "invalid %s %q", key, s)
	}
	return b, nil
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	code := gerrors.GetCode(err)
	if code == "" {
		code = gerrors.ErrCodeInternal
	}
	id := middleware.GetReqID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "err", err, "id", id)
	} else {
		s.logger.Warn("request rejected", "path", r.URL.Path, "status", status, "err", err, "id", id)
	}
	writeJSON(w, status, errorResponse{
		Error:     gerrors.UserMessage(err),
		Code:      string(code),
		RequestID: id,
	})
}

// statusOf maps an error to its HTTP status.
func statusOf(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch {
	case gerrors.IsInvalid(err):
		return http.StatusBadRequest
	case gerrors.IsNotFound(err):
		return http.StatusNotFound
	}
	switch gerrors.GetCode(err) {
	case gerrors.ErrCodeStale:
		return http.StatusConflict
	case gerrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case gerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case gerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
