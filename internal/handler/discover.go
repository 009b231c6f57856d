package handler

import (
	"net/http"

	"github.com/pkordes/prenoms/internal/domain"
)

// Discover handles GET /api/discover.
// Every parameter is optional and defaults to domain.DefaultDiscoverCriteria.
func (s *Server) Discover(w http.ResponseWriter, r *http.Request) {
	c := domain.DefaultDiscoverCriteria()
	params := []struct {
		name string
		dest any
	}{
		{"reference_year", &c.ReferenceYear},
		{"min", &c.MinCount},
		{"max", &c.MaxCount},
		{"window", &c.Window},
		{"start", &c.Start},
		{"end", &c.End},
		{"threshold", &c.Threshold},
		{"sample", &c.Sample},
	}
	for _, p := range params {
		if err := bindQuery(r, p.name, p.dest); err != nil {
			writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
			return
		}
	}

	stats, err := s.names.Discover(r.Context(), c)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
