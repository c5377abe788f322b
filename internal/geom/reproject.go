package geom

import "math"

// Fixed parameters of EPSG:5070 (NAD83 / Conus Albers), per the CRS
// definition: GRS80 ellipsoid, standard parallels 29.5N/45.5N, origin
// 23N/96W, no false easting/northing.
const (
	albersLat1 = 29.5 * math.Pi / 180
	albersLat2 = 45.5 * math.Pi / 180
	albersLat0 = 23.0 * math.Pi / 180
	albersLon0 = -96.0 * math.Pi / 180

	grs80A  = 6378137.0
	grs80F  = 1 / 298.257222101
	grs80E2 = grs80F * (2 - grs80F)
)

// AlbersConusToLonLat converts a working-projection (EPSG:5070) coordinate
// to WGS-84 longitude/latitude degrees, using the closed-form inverse of the
// Albers Equal-Area Conic projection.
//
// Only Pluscode needs this: Open Location Code is defined over geographic
// coordinates, while every other kernel operator works directly in the
// planar EPSG:5070 units the conflation core assumes throughout (§6).
func AlbersConusToLonLat(x, y float64) (lon, lat float64) {
	e := math.Sqrt(grs80E2)

	m := func(phi float64) float64 {
		sinPhi := math.Sin(phi)
		return math.Cos(phi) / math.Sqrt(1-grs80E2*sinPhi*sinPhi)
	}
	q := func(phi float64) float64 {
		sinPhi := math.Sin(phi)
		return (1 - grs80E2) * (sinPhi/(1-grs80E2*sinPhi*sinPhi) -
			(1/(2*e))*math.Log((1-e*sinPhi)/(1+e*sinPhi)))
	}

	m1 := m(albersLat1)
	m2 := m(albersLat2)
	q0 := q(albersLat0)
	q1 := q(albersLat1)
	q2 := q(albersLat2)

	n := (m1*m1 - m2*m2) / (q2 - q1)
	c := m1*m1 + n*q1
	rho0 := grs80A * math.Sqrt(c-n*q0) / n

	rho := math.Sqrt(x*x + (rho0-y)*(rho0-y))
	theta := math.Atan2(x, rho0-y)
	if n < 0 {
		rho = -rho
		theta = -theta
	}

	qVal := (c - (rho*n/grs80A)*(rho*n/grs80A)) / n

	phi := math.Asin(qVal / 2)
	for i := 0; i < 5; i++ {
		sinPhi := math.Sin(phi)
		denom := 1 - grs80E2*sinPhi*sinPhi
		phi += denom * denom / (2 * math.Cos(phi)) *
			(qVal/(1-grs80E2) - sinPhi/denom +
				(1/(2*e))*math.Log((1-e*sinPhi)/(1+e*sinPhi)))
	}

	lonRad := albersLon0 + theta/n
	return lonRad * 180 / math.Pi, phi * 180 / math.Pi
}
