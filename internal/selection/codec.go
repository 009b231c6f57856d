package selection

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// Param is the query parameter holding the selection.
const Param = "names"

// The parameter uses OpenAPI "form" style without explode, that is a single
// comma-delimited value: ?names=LÉA,NOA. Server and clients share this codec
// so a copied link reconstructs the same selection.
const (
	paramStyle   = "form"
	paramExplode = false
)

// FromQuery decodes the selection held by values. A missing or empty
// parameter yields the empty selection.
func FromQuery(values url.Values) (Selection, error) {
	var names []string
	if err := runtime.BindQueryParameter(paramStyle, paramExplode, false, Param, values, &names); err != nil {
		return Selection{}, fmt.Errorf("selection.FromQuery: %w", err)
	}
	return New(names...), nil
}

// Parse decodes a raw query string such as "names=LÉA,NOA&fill=zero".
func Parse(rawQuery string) (Selection, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Selection{}, fmt.Errorf("selection.Parse: %w", err)
	}
	return FromQuery(values)
}

// Encode renders s as a query string fragment ("names=L%C3%89A,NOA"), or ""
// for the empty selection.
func (s Selection) Encode() (string, error) {
	if s.Empty() {
		return "", nil
	}
	encoded, err := runtime.StyleParamWithLocation(paramStyle, paramExplode, Param, runtime.ParamLocationQuery, s.names)
	if err != nil {
		return "", fmt.Errorf("selection.Selection.Encode: %w", err)
	}
	return encoded, nil
}

// Apply writes s into values, deleting the parameter when s is empty.
func (s Selection) Apply(values url.Values) {
	if s.Empty() {
		values.Del(Param)
		return
	}
	values.Set(Param, strings.Join(s.names, ","))
}

// ShareURL returns base with its query rewritten to carry s, keeping any
// other parameters.
func (s Selection) ShareURL(base *url.URL) *url.URL {
	u := *base
	q := u.Query()
	s.Apply(q)
	u.RawQuery = q.Encode()
	return &u
}
