package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareZone() Polygon {
	return NewPolygon(
		Position{0, 0},
		Position{0, 2},
		Position{2, 2},
		Position{2, 0},
	)
}

func TestNewPolygon_ClosesRing(t *testing.T) {
	p := squareZone()

	ring := p.OuterRing()
	require.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4])
	assert.Equal(t, "Polygon", p.Type)
}

func TestClosePolygon_AlreadyClosed(t *testing.T) {
	p := ClosePolygon(squareZone())
	assert.Len(t, p.OuterRing(), 5)
}

func TestCalculateCenter_Square(t *testing.T) {
	center := CalculateCenter(squareZone())

	assert.InDelta(t, 1.0, center.Lat, 1e-9)
	assert.InDelta(t, 1.0, center.Lng, 1e-9)
}

func TestCalculateCenter_IsSimpleMean(t *testing.T) {
	// Triangle with a vertex far away: the mean moves with it.
	p := NewPolygon(Position{0, 0}, Position{3, 0}, Position{0, 9})
	center := CalculateCenter(p)

	assert.InDelta(t, 3.0, center.Lat, 1e-9)
	assert.InDelta(t, 1.0, center.Lng, 1e-9)
}

func TestCalculateCenter_Empty(t *testing.T) {
	assert.Equal(t, LatLng{}, CalculateCenter(Polygon{}))
}

func TestIsPointInPolygon(t *testing.T) {
	p := squareZone()

	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"center", 1, 1, true},
		{"far outside", 5, 5, false},
		{"just inside", 0.1, 1.9, true},
		{"negative side", -0.5, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPointInPolygon(tt.lat, tt.lng, p))
		})
	}
}

func TestIsPointInPolygon_IgnoresHoles(t *testing.T) {
	p := squareZone()
	p.Coordinates = append(p.Coordinates, []Position{{0.5, 0.5}, {0.5, 1.5}, {1.5, 1.5}, {1.5, 0.5}, {0.5, 0.5}})

	assert.True(t, IsPointInPolygon(1, 1, p))
}

func TestIsPointInPolygon_Degenerate(t *testing.T) {
	assert.False(t, IsPointInPolygon(0, 0, Polygon{}))
	assert.False(t, IsPointInPolygon(0, 0, NewPolygon(Position{0, 0}, Position{1, 1})))
}

func TestPolygonValidate(t *testing.T) {
	assert.NoError(t, squareZone().Validate())

	twoPoints := NewPolygon(Position{0, 0}, Position{1, 1}, Position{1, 1})
	assert.Error(t, twoPoints.Validate())

	outOfRange := NewPolygon(Position{0, 0}, Position{200, 0}, Position{0, 1})
	assert.Error(t, outOfRange.Validate())
}

func TestPolygonCodec(t *testing.T) {
	p := squareZone()

	raw := EncodePolygon(p)
	require.NotEmpty(t, raw)

	decoded := DecodePolygon(raw)
	require.NotNil(t, decoded)
	assert.Equal(t, p, *decoded)

	assert.Nil(t, DecodePolygon(""))
	assert.Nil(t, DecodePolygon("{not json"))
	assert.Nil(t, DecodePolygon(`{"type":"Polygon","coordinates":[]}`))
	assert.Equal(t, "", EncodePolygon(Polygon{}))
}

func TestLatLngCodec(t *testing.T) {
	c := &LatLng{Lat: 48.85, Lng: 2.35}

	decoded := DecodeLatLng(EncodeLatLng(c))
	require.NotNil(t, decoded)
	assert.Equal(t, *c, *decoded)

	assert.Equal(t, "", EncodeLatLng(nil))
	assert.Nil(t, DecodeLatLng("[1,2"))
}
