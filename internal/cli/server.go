package cli

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gogpu/psdcomp"
)

// server serves previews of one document from a shared compositor.
type server struct {
	doc    *psdcomp.Document
	comp   *psdcomp.Compositor
	render RenderConfig
	logger *log.Logger
}

func newServer(doc *psdcomp.Document, cfg *Config, logger *log.Logger) *server {
	return &server{
		doc:    doc,
		comp:   cfg.newCompositor(),
		render: cfg.Render,
		logger: logger,
	}
}

// routes registers the preview endpoints:
//
//	GET  /composite      whole document
//	GET  /layers/{id}    one layer at its own size
//	GET  /modes          unsupported blend modes (JSON)
//	POST /cache/clear    drop cached composites
//	GET  /stats          cache statistics (JSON)
//
// Image endpoints accept format, quality, background and max query
// parameters; /composite also takes hide, show, viewport and blend.
func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/composite", s.handleComposite)
	r.Get("/layers/{id}", s.handleLayer)
	r.Get("/modes", s.handleModes)
	r.Post("/cache/clear", s.handleClearCache)
	r.Get("/stats", s.handleStats)
	return r
}

func (s *server) handleComposite(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	hide, err := parseIDs(q.Get("hide"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	show, err := parseIDs(q.Get("show"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	blendModes := *s.render.BlendModes
	if v := q.Get("blend"); v != "" {
		if blendModes, err = strconv.ParseBool(v); err != nil {
			http.Error(w, "invalid blend parameter", http.StatusBadRequest)
			return
		}
	}

	params := compositeParams{
		hide:       hide,
		show:       show,
		background: firstNonEmpty(q.Get("background"), s.render.Background),
		viewport:   q.Get("viewport"),
		blendModes: blendModes,
	}
	opts, err := params.options()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	out, err := s.comp.CompositePSD(s.doc, opts...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeImage(w, r, out)
}

func (s *server) handleLayer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid layer id", http.StatusBadRequest)
		return
	}
	l, ok := s.doc.FindLayer(id)
	if !ok {
		http.Error(w, "layer not found", http.StatusNotFound)
		return
	}

	background := firstNonEmpty(r.URL.Query().Get("background"), s.render.Background)
	out, err := psdcomp.CompositeSingleLayer(l, psdcomp.WithBackgroundString(background))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeImage(w, r, out)
}

func (s *server) handleModes(w http.ResponseWriter, r *http.Request) {
	modes := psdcomp.UnsupportedBlendModes(s.doc)
	if modes == nil {
		modes = []string{}
	}
	s.writeJSON(w, map[string][]string{"unsupported": modes})
}

func (s *server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.comp.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.comp.Stats())
}

// writeImage encodes out per the request's format, quality and max
// parameters.
func (s *server) writeImage(w http.ResponseWriter, r *http.Request, out *psdcomp.Surface) {
	q := r.URL.Query()

	format, err := psdcomp.ParseFormat(firstNonEmpty(q.Get("format"), s.render.Format))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	quality := *s.render.Quality
	if v := q.Get("quality"); v != "" {
		if quality, err = strconv.ParseFloat(v, 64); err != nil {
			http.Error(w, "invalid quality parameter", http.StatusBadRequest)
			return
		}
	}
	maxSize := s.render.MaxSize
	if v := q.Get("max"); v != "" {
		if maxSize, err = strconv.Atoi(v); err != nil {
			http.Error(w, "invalid max parameter", http.StatusBadRequest)
			return
		}
	}
	if maxSize > 0 {
		if out, err = out.Fit(maxSize); err != nil {
			s.writeError(w, err)
			return
		}
	}

	data, err := psdcomp.Encode(r.Context(), out, format, quality)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("Write response", "err", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, psdcomp.ErrInvalidColor), errors.Is(err, psdcomp.ErrAllocation):
		status = http.StatusBadRequest
	default:
		s.logger.Error("Request failed", "err", err)
	}
	http.Error(w, err.Error(), status)
}

func (s *server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Encode response", "err", err)
	}
}
