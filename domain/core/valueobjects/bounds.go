package valueobjects

import pkgerrors "ecnelisfly/pkg/errors"

// Bounds is a lat/lng bounding box as sent by the map viewport.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

// Validate rejects inverted or out-of-range boxes.
func (b Bounds) Validate() error {
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		return pkgerrors.NewValidationError("bounding box min must not exceed max")
	}
	if b.MinLat < -90 || b.MaxLat > 90 || b.MinLng < -180 || b.MaxLng > 180 {
		return pkgerrors.NewValidationError("bounding box out of range")
	}
	return nil
}

// Contains reports whether the point lies inside the box, edges included.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}
