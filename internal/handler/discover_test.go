package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/prenoms/internal/domain"
)

func TestDiscover_Defaults(t *testing.T) {
	var captured domain.DiscoverCriteria
	svc := &mockNameServicer{
		discover: func(_ context.Context, c domain.DiscoverCriteria) ([]domain.GrowthStat, error) {
			captured = c
			return []domain.GrowthStat{}, nil
		},
	}

	rec := serve(newHTTPHandler(svc, mockPinger{}), "/api/discover")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.DefaultDiscoverCriteria(), captured)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestDiscover_Overrides(t *testing.T) {
	var captured domain.DiscoverCriteria
	svc := &mockNameServicer{
		discover: func(_ context.Context, c domain.DiscoverCriteria) ([]domain.GrowthStat, error) {
			captured = c
			return []domain.GrowthStat{{
				Name: "NOA", ReferenceCount: 500, StartAverage: 10, EndAverage: 30, GrowthPercent: 200,
			}}, nil
		},
	}

	rec := serve(newHTTPHandler(svc, mockPinger{}),
		"/api/discover?reference_year=2021&min=10&max=900&window=5&start=1990&end=2015&threshold=12.5&sample=3")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.DiscoverCriteria{
		ReferenceYear: 2021,
		MinCount:      10,
		MaxCount:      900,
		Window:        5,
		Start:         1990,
		End:           2015,
		Threshold:     12.5,
		Sample:        3,
	}, captured)
	assert.JSONEq(t,
		`[{"name":"NOA","reference_count":500,"start_average":10,"end_average":30,"growth_percent":200}]`,
		rec.Body.String())
}

func TestDiscover_MalformedParam_400(t *testing.T) {
	for _, param := range []string{"reference_year", "min", "max", "window", "start", "end", "threshold", "sample"} {
		t.Run(param, func(t *testing.T) {
			rec := serve(newHTTPHandler(&mockNameServicer{}, mockPinger{}), fmt.Sprintf("/api/discover?%s=abc", param))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			detail := decodeError(t, rec)
			assert.Equal(t, "bad_request", detail.Code)
			assert.Contains(t, detail.Message, param)
		})
	}
}

func TestDiscover_422(t *testing.T) {
	svc := &mockNameServicer{
		discover: func(_ context.Context, c domain.DiscoverCriteria) ([]domain.GrowthStat, error) {
			return nil, fmt.Errorf("%w: window must be at least 1 year", domain.ErrValidation)
		},
	}

	rec := serve(newHTTPHandler(svc, mockPinger{}), "/api/discover?window=0")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "validation_error", detail.Code)
	assert.Equal(t, "window must be at least 1 year", detail.Message)
}
