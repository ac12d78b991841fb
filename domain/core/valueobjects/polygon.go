package valueobjects

import (
	"encoding/json"
	"fmt"
	"strings"

	pkgerrors "ecnelisfly/pkg/errors"
)

// Position is a GeoJSON position: [lng, lat].
type Position [2]float64

// Lng returns the longitude component.
func (p Position) Lng() float64 { return p[0] }

// Lat returns the latitude component.
func (p Position) Lat() float64 { return p[1] }

// Polygon is a GeoJSON-like polygon. The first ring is the outer boundary;
// further rings are holes.
type Polygon struct {
	Type        string       `json:"type"`
	Coordinates [][]Position `json:"coordinates"`
}

// LatLng is a plain coordinate pair, used for zone centers.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewPolygon builds a single-ring polygon from [lng, lat] points. The ring is
// closed when the caller did not close it.
func NewPolygon(points ...Position) Polygon {
	ring := make([]Position, len(points))
	copy(ring, points)
	return ClosePolygon(Polygon{Type: "Polygon", Coordinates: [][]Position{ring}})
}

// OuterRing returns the first ring, or nil.
func (p Polygon) OuterRing() []Position {
	if len(p.Coordinates) == 0 {
		return nil
	}
	return p.Coordinates[0]
}

// IsEmpty reports whether the polygon has no outer ring points.
func (p Polygon) IsEmpty() bool {
	return len(p.OuterRing()) == 0
}

// ClosePolygon appends the first point of every ring whose last point differs.
func ClosePolygon(p Polygon) Polygon {
	if p.Type == "" {
		p.Type = "Polygon"
	}
	rings := make([][]Position, len(p.Coordinates))
	for i, ring := range p.Coordinates {
		r := make([]Position, len(ring), len(ring)+1)
		copy(r, ring)
		if len(r) > 0 && r[0] != r[len(r)-1] {
			r = append(r, r[0])
		}
		rings[i] = r
	}
	p.Coordinates = rings
	return p
}

// distinctPoints returns the outer ring without the closing duplicate.
func (p Polygon) distinctPoints() []Position {
	ring := p.OuterRing()
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		return ring[:len(ring)-1]
	}
	return ring
}

// Validate requires at least three distinct points before closing, with
// coordinates inside WGS84 bounds.
func (p Polygon) Validate() error {
	points := p.distinctPoints()
	seen := make(map[Position]struct{}, len(points))
	for _, pt := range points {
		if pt.Lat() < -90 || pt.Lat() > 90 || pt.Lng() < -180 || pt.Lng() > 180 {
			return pkgerrors.NewValidationError(fmt.Sprintf("polygon point out of range: [%g, %g]", pt.Lng(), pt.Lat()))
		}
		seen[pt] = struct{}{}
	}
	if len(seen) < 3 {
		return pkgerrors.NewValidationError("polygon must have at least 3 distinct points")
	}
	return nil
}

// CalculateCenter returns the arithmetic mean of the outer ring's vertices.
// The closing point is not counted twice. This is not an area-weighted
// centroid.
func CalculateCenter(p Polygon) LatLng {
	points := p.distinctPoints()
	if len(points) == 0 {
		return LatLng{}
	}
	var sumLat, sumLng float64
	for _, pt := range points {
		sumLat += pt.Lat()
		sumLng += pt.Lng()
	}
	n := float64(len(points))
	return LatLng{Lat: sumLat / n, Lng: sumLng / n}
}

// IsPointInPolygon runs a ray-casting test against the outer ring only.
// Holes are ignored.
func IsPointInPolygon(lat, lng float64, p Polygon) bool {
	ring := p.OuterRing()
	if len(ring) < 3 {
		return false
	}
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i].Lng(), ring[i].Lat()
		xj, yj := ring[j].Lng(), ring[j].Lat()
		if (yi > lat) != (yj > lat) && lng < (xj-xi)*(lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// EncodePolygon serializes the polygon for storage. Empty polygons encode to "".
func EncodePolygon(p Polygon) string {
	if p.IsEmpty() {
		return ""
	}
	if p.Type == "" {
		p.Type = "Polygon"
	}
	data, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodePolygon parses a stored polygon. Empty or malformed input yields nil.
func DecodePolygon(raw string) *Polygon {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var p Polygon
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil
	}
	if p.IsEmpty() {
		return nil
	}
	return &p
}

// EncodeLatLng serializes a center for storage. Nil encodes to "".
func EncodeLatLng(c *LatLng) string {
	if c == nil {
		return ""
	}
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeLatLng parses a stored center. Empty or malformed input yields nil.
func DecodeLatLng(raw string) *LatLng {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var c LatLng
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil
	}
	return &c
}
