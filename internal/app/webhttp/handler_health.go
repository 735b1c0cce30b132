package webhttp

import (
	"encoding/json"
	"net/http"
)

// healthStats - payload ответа /health.
type healthStats struct {
	OK               bool   `json:"ok"`
	Root             string `json:"root"`
	CachedSelections int    `json:"cached_selections"`
}

// health сообщает, что сервер жив, и сколько выборок сейчас в кэше.
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(healthStats{
		OK:               true,
		Root:             s.Cfg.Root,
		CachedSelections: s.Selections.Len(),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
