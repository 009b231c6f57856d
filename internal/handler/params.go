package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/prenoms/internal/selection"
)

// bindQuery decodes the optional form-style query parameter name into dest.
// dest is left untouched when the parameter is absent.
func bindQuery(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}

// bindPath decodes the simple-style path parameter name into dest.
func bindPath(r *http.Request, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}

// bindNames decodes the names selection parameter shared with the clients.
func bindNames(r *http.Request) ([]string, error) {
	sel, err := selection.FromQuery(r.URL.Query())
	if err != nil {
		return nil, fmt.Errorf("invalid format for parameter %s: %w", selection.Param, err)
	}
	return sel.Names(), nil
}
