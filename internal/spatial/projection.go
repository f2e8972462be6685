package spatial

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/jengzang/motion-profile-go/internal/models"
)

// Projector maps WGS84 longitude/latitude (degrees) to planar meters
type Projector interface {
	Project(lon, lat float64) (x, y float64)
}

// ProjectorFunc adapts a plain function to Projector
type ProjectorFunc func(lon, lat float64) (x, y float64)

// Project calls f(lon, lat)
func (f ProjectorFunc) Project(lon, lat float64) (float64, float64) {
	return f(lon, lat)
}

const (
	// WebMercatorRadius is the WGS84 semi-major axis used by EPSG:3857
	WebMercatorRadius = 6378137.0
	// WebMercatorMaxLat is the latitude where EPSG:3857 becomes square
	WebMercatorMaxLat = 85.05112878
)

// WebMercator projects to EPSG:3857. Scale grows with 1/cos(lat), so distances
// at high latitude are overstated; that distortion is accepted.
var WebMercator Projector = ProjectorFunc(webMercator)

func webMercator(lon, lat float64) (float64, float64) {
	lat = math.Max(-WebMercatorMaxLat, math.Min(WebMercatorMaxLat, lat))
	ll := s2.LatLngFromDegrees(lat, lon)

	x := WebMercatorRadius * ll.Lng.Radians()
	y := WebMercatorRadius * math.Log(math.Tan(math.Pi/4+ll.Lat.Radians()/2))
	return x, y
}

// ProjectFixes fills the planar position of every fix in place
func ProjectFixes(fixes []models.Fix, p Projector) {
	for i := range fixes {
		fixes[i].X, fixes[i].Y = p.Project(fixes[i].Longitude, fixes[i].Latitude)
	}
}
