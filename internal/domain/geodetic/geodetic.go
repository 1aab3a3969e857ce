// Package geodetic converts between the Danish projected reference system
// (ETRS89 / UTM zone 32N, EPSG:25832) and geographic WGS84 coordinates, and
// classifies ambiguous coordinate pairs. The datum shift between ETRS89 and
// WGS84 is below the precision any consumer here needs, so the conversion is
// a plain transverse Mercator on the GRS80 ellipsoid.
package geodetic

import "math"

const (
	// GRS80 ellipsoid.
	semiMajor  = 6378137.0
	flattening = 1.0 / 298.257222101

	// UTM zone 32 north.
	scaleFactor     = 0.9996
	centralMeridian = 9.0 * math.Pi / 180.0
	falseEasting    = 500000.0
)

var (
	e2  = flattening * (2 - flattening) // first eccentricity squared
	ep2 = e2 / (1 - e2)                 // second eccentricity squared
	e1  = (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
)

// IsProjected classifies a coordinate pair: a magnitude strictly above 90 on
// either axis cannot be a latitude/longitude within Denmark's range, so the
// pair is assumed to be projected metric. Exactly 90 is geographic.
func IsProjected(x, y float64) bool {
	return math.Abs(x) > 90 || math.Abs(y) > 90
}

// ToGeographic converts a projected easting/northing to (lat, lon) degrees.
func ToGeographic(easting, northing float64) (lat, lon float64) {
	x := easting - falseEasting
	m := northing / scaleFactor

	mu := m / (semiMajor * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))
	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sinPhi1 := math.Sin(phi1)
	cosPhi1 := math.Cos(phi1)
	tanPhi1 := math.Tan(phi1)

	c1 := ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	n1 := semiMajor / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	r1 := semiMajor * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	d := x / (n1 * scaleFactor)

	phi := phi1 - (n1*tanPhi1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
	lambda := centralMeridian + (d-
		(1+2*t1+c1)*math.Pow(d, 3)/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120)/cosPhi1

	return phi * 180 / math.Pi, lambda * 180 / math.Pi
}

// ToProjected converts (lat, lon) degrees to projected easting/northing.
func ToProjected(lat, lon float64) (easting, northing float64) {
	phi := lat * math.Pi / 180
	lambda := lon * math.Pi / 180

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	tanPhi := math.Tan(phi)

	n := semiMajor / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := cosPhi * (lambda - centralMeridian)

	m := semiMajor * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*phi -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*phi) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*phi) -
		(35*e2*e2*e2/3072)*math.Sin(6*phi))

	easting = scaleFactor*n*(a+
		(1-t+c)*math.Pow(a, 3)/6+
		(5-18*t+t*t+72*c-58*ep2)*math.Pow(a, 5)/120) + falseEasting
	northing = scaleFactor * (m + n*tanPhi*(a*a/2+
		(5-t+9*c+4*c*c)*math.Pow(a, 4)/24+
		(61-58*t+t*t+600*c-330*ep2)*math.Pow(a, 6)/720))

	return easting, northing
}

// NormalizePoint returns the geographic form of a pair whose convention is
// unknown: projected pairs are converted, geographic pairs (given as x=lon,
// y=lat) are swapped into (lat, lon).
func NormalizePoint(x, y float64) (lat, lon float64) {
	if IsProjected(x, y) {
		return ToGeographic(x, y)
	}
	return y, x
}

// Denmark's geographic extent, used to route reverse lookups between the
// domestic and foreign services.
const (
	denmarkMinLat = 54.3
	denmarkMaxLat = 58.0
	denmarkMinLon = 7.5
	denmarkMaxLon = 15.5
)

// InDenmark reports whether a geographic point lies inside the Danish
// bounding box.
func InDenmark(lat, lon float64) bool {
	return lat >= denmarkMinLat && lat <= denmarkMaxLat &&
		lon >= denmarkMinLon && lon <= denmarkMaxLon
}
