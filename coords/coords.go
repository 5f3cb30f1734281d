// Package coords implements the coordinate representations of spec.md
// §4.10: Cartesian<->Spherical, Geodetic<->Geocentric (WGS84), and the
// topocentric Horizontal (RAZEL) transform.
package coords

import "math"

// WGS84 ellipsoid parameters (km).
const (
	WGS84A = 6378.137
	WGS84F = 1.0 / 298.257223563
)

var wgs84E2 = WGS84F * (2.0 - WGS84F)

// Spherical is a latitude/longitude/radius triple, radians and the same
// length unit as the Cartesian vector it was derived from.
type Spherical struct {
	Lat, Lon, R float64
}

// CartesianToSpherical converts (x,y,z) to Spherical. Returns the zero
// value if the input is the zero vector.
func CartesianToSpherical(x, y, z float64) Spherical {
	r := math.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Lat: math.Asin(z / r),
		Lon: math.Atan2(y, x),
		R:   r,
	}
}

// SphericalToCartesian converts a Spherical back to (x,y,z).
func SphericalToCartesian(s Spherical) (x, y, z float64) {
	sinLat, cosLat := math.Sincos(s.Lat)
	sinLon, cosLon := math.Sincos(s.Lon)
	x = s.R * cosLat * cosLon
	y = s.R * cosLat * sinLon
	z = s.R * sinLat
	return
}

// Geodetic is a WGS84 geodetic position: latitude/longitude in radians,
// height above the ellipsoid in km.
type Geodetic struct {
	Lat, Lon, HeightKm float64
}

// ToGeocentric converts geodetic coordinates to ECEF Cartesian (km), using
// the standard N-formula. The Z-component is deliberately written as
// (1-e^2)*N*sinLat + h*sinLat (two multiplies each against sinLat) rather
// than ((1-e^2)*N + h)*sinLat: the former preserves the last-digit result
// some compilers give under floating point reassociation.
func (g Geodetic) ToGeocentric() (x, y, z float64) {
	sinLat, cosLat := math.Sincos(g.Lat)
	sinLon, cosLon := math.Sincos(g.Lon)
	N := WGS84A / math.Sqrt(1.0-wgs84E2*sinLat*sinLat)

	x = (N + g.HeightKm) * cosLat * cosLon
	y = (N + g.HeightKm) * cosLat * sinLon
	z = (1.0-wgs84E2)*N*sinLat + g.HeightKm*sinLat
	return
}

// GeocentricToGeodetic converts ECEF Cartesian (km) to geodetic coordinates.
// Starts from Bowring's closed-form estimate and refines with a few
// Newton corrections on the ellipsoid normal, converging to sub-millimeter
// height accuracy; degenerate p (distance from the rotation axis) near zero
// falls through to the polar formula.
func GeocentricToGeodetic(x, y, z float64) Geodetic {
	lon := math.Atan2(y, x)

	a := WGS84A
	b := a * (1.0 - WGS84F)
	e2 := wgs84E2

	p := math.Sqrt(x*x + y*y)

	if p < 1e-18 {
		var lat float64
		if z >= 0 {
			lat = math.Pi / 2
		} else {
			lat = -math.Pi / 2
		}
		return Geodetic{Lat: lat, Lon: lon, HeightKm: math.Abs(z) - b}
	}

	theta := math.Atan2(z*a, p*b)
	sinTheta, cosTheta := math.Sincos(theta)
	lat := math.Atan2(
		z+e2/(1.0-WGS84F)*b*sinTheta*sinTheta*sinTheta,
		p-e2*a*cosTheta*cosTheta*cosTheta,
	)

	for range 4 {
		sinLat := math.Sin(lat)
		N := a / math.Sqrt(1.0-e2*sinLat*sinLat)
		lat = math.Atan2(z+e2*N*sinLat, p)
	}

	sinLat, cosLat := math.Sincos(lat)
	N := a / math.Sqrt(1.0-e2*sinLat*sinLat)

	var h float64
	if math.Abs(cosLat) > 1e-10 {
		h = p/cosLat - N
	} else {
		h = math.Abs(z)/math.Abs(sinLat) - N*(1.0-e2)
	}

	return Geodetic{Lat: lat, Lon: lon, HeightKm: h}
}

// Horizontal is a topocentric azimuth/elevation/range triple: radians,
// same length unit as the input vectors.
type Horizontal struct {
	AzRad, ElRad, RangeKm float64
}

// HorizontalFromITRF computes the topocentric azimuth/elevation/range of
// targetITRF as seen from siteITRF at siteGeodetic, using Vallado ALG-27
// (RAZEL): rho = target - site, rotated to the South-East-Zenith frame by
// ROT2(pi/2 - lat) . ROT3(lon).
func HorizontalFromITRF(targetITRF, siteITRF [3]float64, siteGeodetic Geodetic) Horizontal {
	rho := [3]float64{
		targetITRF[0] - siteITRF[0],
		targetITRF[1] - siteITRF[1],
		targetITRF[2] - siteITRF[2],
	}

	lat := siteGeodetic.Lat
	lon := siteGeodetic.Lon
	sinLat, cosLat := math.Sincos(math.Pi/2 - lat)
	sinLon, cosLon := math.Sincos(lon)

	// ROT3(lon): rotate rho into the meridian plane.
	x1 := cosLon*rho[0] + sinLon*rho[1]
	y1 := -sinLon*rho[0] + cosLon*rho[1]
	z1 := rho[2]

	// ROT2(pi/2-lat): tip into the South-East-Zenith frame.
	xSEZ := cosLat*x1 - sinLat*z1
	ySEZ := y1
	zSEZ := sinLat*x1 + cosLat*z1

	r := math.Sqrt(xSEZ*xSEZ + ySEZ*ySEZ + zSEZ*zSEZ)
	if r == 0 {
		return Horizontal{}
	}

	horiz := math.Hypot(xSEZ, ySEZ)
	elRad := math.Asin(zSEZ / r)

	var azRad float64
	if horiz > 1e-12 {
		azRad = math.Atan2(ySEZ, -xSEZ)
		if azRad < 0 {
			azRad += 2 * math.Pi
		}
	}

	return Horizontal{AzRad: azRad, ElRad: elRad, RangeKm: r}
}
