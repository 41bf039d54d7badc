package entities

import "math"

// TileSize is the pixel size of one Web Mercator tile at zoom 0.
const TileSize = 256

// WorldPixel projects c to Web Mercator pixel space at zoom.
func WorldPixel(c Coordinates, zoom float64) (x, y float64) {
	scale := TileSize * math.Exp2(zoom)
	siny := math.Sin(c.Lat * math.Pi / 180)
	siny = math.Min(math.Max(siny, -0.9999), 0.9999)
	x = (c.Lng + 180) / 360 * scale
	y = (0.5 - math.Log((1+siny)/(1-siny))/(4*math.Pi)) * scale
	return x, y
}

// FitZoom returns the largest integer zoom at which b fits in a width x height viewport.
func FitZoom(b Bounds, width, height int, maxZoom int) int {
	for z := maxZoom; z > 0; z-- {
		x1, y1 := WorldPixel(b.SouthWest, float64(z))
		x2, y2 := WorldPixel(b.NorthEast, float64(z))
		if math.Abs(x2-x1) <= float64(width) && math.Abs(y2-y1) <= float64(height) {
			return z
		}
	}
	return 0
}
