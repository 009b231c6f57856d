package selection_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/prenoms/internal/selection"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		sel  selection.Selection
		want string
	}{
		{"plain", selection.New("NOA", "JADE"), "names=NOA,JADE"},
		{"accented", selection.New("LÉA"), "names=L%C3%89A"},
		{"separators stay literal", selection.New("LÉA", "JEAN-PIERRE", "ZOÉ"), "names=L%C3%89A,JEAN-PIERRE,ZO%C3%89"},
		{"empty selection has no parameter", selection.Selection{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.sel.Encode()

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "%2C")
		})
	}
}

func TestParse(t *testing.T) {
	got, err := selection.Parse("names=L%C3%89A,NOA&fill=zero")

	require.NoError(t, err)
	assert.Equal(t, []string{"LÉA", "NOA"}, got.Names())
}

func TestParse_Missing(t *testing.T) {
	got, err := selection.Parse("fill=zero")

	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestParse_EmptyValue(t *testing.T) {
	got, err := selection.Parse("names=")

	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestParse_NormalizesAndDedupes(t *testing.T) {
	got, err := selection.Parse("names=noa,L%C3%A9a,NOA,")

	require.NoError(t, err)
	assert.Equal(t, []string{"NOA", "LÉA"}, got.Names())
}

func TestFromQuery_RepeatedParameterRejected(t *testing.T) {
	_, err := selection.FromQuery(url.Values{"names": {"LÉA", "NOA"}})

	assert.Error(t, err)
}

// TestRoundTrip encodes then decodes selections built through the reducer:
// order and de-duplication must survive the trip.
func TestRoundTrip(t *testing.T) {
	for _, s := range []selection.Selection{
		{},
		selection.New("LÉA"),
		selection.Selection{}.Add("LÉA").Add("NOA").Remove("LÉA"),
		selection.New("ZOÉ", "ADAM", "CHLOÉ", "JEAN-PIERRE", "MARIE-ÈVE"),
	} {
		encoded, err := s.Encode()
		require.NoError(t, err)

		got, err := selection.Parse(encoded)

		require.NoError(t, err)
		assert.True(t, s.Equal(got), "round trip of %v gave %v", s.Names(), got.Names())
	}
}

func TestApply(t *testing.T) {
	values := url.Values{"fill": {"zero"}, "names": {"OLD"}}

	selection.New("LÉA", "NOA").Apply(values)
	assert.Equal(t, "LÉA,NOA", values.Get("names"))
	assert.Equal(t, "zero", values.Get("fill"))

	selection.Selection{}.Apply(values)
	_, present := values["names"]
	assert.False(t, present, "empty selection removes the parameter")
}

func TestShareURL(t *testing.T) {
	base, err := url.Parse("https://prenoms.example/?theme=dark")
	require.NoError(t, err)

	shared := selection.New("LÉA", "NOA").ShareURL(base)

	back, err := selection.FromQuery(shared.Query())
	require.NoError(t, err)
	assert.Equal(t, []string{"LÉA", "NOA"}, back.Names())
	assert.Equal(t, "dark", shared.Query().Get("theme"))
	assert.Equal(t, "https://prenoms.example/?theme=dark", base.String(), "base is not modified")
}
