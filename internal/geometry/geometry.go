package geometry

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"freightdesk/internal/models"
)

type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Derive maps stop coordinates to a polyline in input order. No path
// finding, no deduplication, no distance computation; total over any
// input including empty.
func Derive(coords []Coordinate) models.Polyline {
	line := make(models.Polyline, len(coords))
	for i, c := range coords {
		line[i] = [2]float64{c.Latitude, c.Longitude}
	}
	return line
}

// LineString converts a polyline into a line string with coordinate
// axes swapped to (longitude, latitude), the order geospatial
// consumers expect.
func LineString(p models.Polyline) *geom.LineString {
	flat := make([]float64, 0, len(p)*2)
	for _, pt := range p {
		flat = append(flat, pt[1], pt[0])
	}
	return geom.NewLineStringFlat(geom.XY, flat)
}

// ToGeoJSON renders a polyline as a GeoJSON LineString document.
func ToGeoJSON(p models.Polyline) ([]byte, error) {
	return geojson.Marshal(LineString(p))
}
