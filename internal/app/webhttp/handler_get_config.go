package webhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yourname/fileshare_lite/pkg/httperrors"
)

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := s.Files.Config(r.Context(), id, s.baseURL(r))
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", contentDisposition(id+".txt"))
	_, _ = w.Write(body)
}

// baseURL prefers the configured public URL; otherwise links point back at the
// host the client used to reach us.
func (s *Server) baseURL(r *http.Request) string {
	if s.Cfg.PublicURL != "" {
		return s.Cfg.PublicURL
	}
	return "http://" + r.Host
}
