package handler

import (
	"net/http"
)

// SearchNames handles GET /api/names/search.
// The q parameter is the typed prefix; fewer than two characters yields [].
func (s *Server) SearchNames(w http.ResponseWriter, r *http.Request) {
	var q string
	if err := bindQuery(r, "q", &q); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	matches, err := s.names.Search(r.Context(), q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// GetSeries handles GET /api/names/{name}/series.
// An unknown name yields [] rather than 404.
func (s *Server) GetSeries(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := bindPath(r, "name", &name); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	points, err := s.names.Series(r.Context(), name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// GetSeriesMultiple handles GET /api/series?names=A,B.
func (s *Server) GetSeriesMultiple(w http.ResponseWriter, r *http.Request) {
	names, err := bindNames(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	records, err := s.names.SeriesMultiple(r.Context(), names)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
