package webhttp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yourname/fileshare_lite/internal/models"
	"github.com/yourname/fileshare_lite/pkg/httperrors"
)

const maxSelectionBody = 8 << 20

// postSelection принимает JSON {"files": [...], "dirs": [...]} и возвращает id выборки.
func (s *Server) postSelection(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSelectionBody)).Decode(&req); err != nil {
		httperrors.Write(w, fmt.Errorf("decode selection: %w: %w", models.ErrBadRequest, err))
		return
	}

	sel, err := s.Files.Register(r.Context(), req)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(models.RegisterResponse{ID: sel.ID})
}
