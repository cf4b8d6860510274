package models

// LatLng is a geographic position in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Midpoint returns the coordinate-wise average of two positions.
func Midpoint(a, b LatLng) LatLng {
	return LatLng{
		Lat: (a.Lat + b.Lat) / 2,
		Lng: (a.Lng + b.Lng) / 2,
	}
}

// Bounds is the bounding box of a set of positions.
type Bounds struct {
	MinLat  float64 `json:"minLat"`
	MinLng  float64 `json:"minLng"`
	MaxLat  float64 `json:"maxLat"`
	MaxLng  float64 `json:"maxLng"`
	Center  LatLng  `json:"center"`
	LatSpan float64 `json:"latSpan"`
	LngSpan float64 `json:"lngSpan"`
}

// MapView is the last-viewed map position, persisted under mapCenter and mapZoom.
type MapView struct {
	Center *LatLng `json:"center"`
	Zoom   float64 `json:"zoom"`
}
