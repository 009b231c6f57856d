package handler

import (
	"fmt"
	"net/http"
)

// fillZero is the only accepted value of the fill parameter.
const fillZero = "zero"

// GetChart handles GET /api/chart?names=A,B[&fill=zero].
// Rows omit names absent in a year unless fill=zero is given.
func (s *Server) GetChart(w http.ResponseWriter, r *http.Request) {
	names, err := bindNames(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	var fill string
	if err := bindQuery(r, "fill", &fill); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	if fill != "" && fill != fillZero {
		writeJSON(w, http.StatusBadRequest, requestBody(fmt.Sprintf("fill must be %q, got %q", fillZero, fill)))
		return
	}

	c, err := s.names.Chart(r.Context(), names, fill == fillZero)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
