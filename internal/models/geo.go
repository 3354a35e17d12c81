package models

import "github.com/twpayne/go-polyline"

type CoordinatePoint struct {
	Lat float64
	Lon float64
}

type Polyline struct {
	Length int    `json:"length"`
	Levels string `json:"levels"`
	Points string `json:"points"`
}

// NewPolyline encodes the points with the Google polyline algorithm.
func NewPolyline(points []CoordinatePoint) Polyline {
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return Polyline{
		Length: len(points),
		Points: string(polyline.EncodeCoords(coords)),
	}
}
