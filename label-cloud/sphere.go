package cloud

import "math"

// GoldenAngle is π(3 - √5), the angular step between consecutive points of
// the spiral.
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))

// Point is a labelled position on the sphere.
type Point struct {
	X, Y, Z float64
	Label   string
}

// Norm returns the distance from the origin.
func (p Point) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Distribute spreads the labels evenly over a sphere of the given radius,
// from the top pole (y = radius) down to the bottom one.
func Distribute(labels []string, radius float64) []Point {
	n := len(labels)
	points := make([]Point, n)

	for i, label := range labels {
		y := 1.0
		if n > 1 {
			y = 1 - 2*float64(i)/float64(n-1)
		}
		ring := math.Sqrt(math.Max(0, 1-y*y))
		theta := GoldenAngle * float64(i)

		points[i] = Point{
			X:     math.Cos(theta) * ring * radius,
			Y:     y * radius,
			Z:     math.Sin(theta) * ring * radius,
			Label: label,
		}
	}
	return points
}

// Rotate turns p by ry around the vertical axis, then by rx around the
// horizontal one.
func Rotate(p Point, rx, ry float64) Point {
	sx, cx := math.Sincos(rx)
	sy, cy := math.Sincos(ry)
	return rotate(p, sx, cx, sy, cy)
}

func rotate(p Point, sx, cx, sy, cy float64) Point {
	// yaw
	x := p.X*cy - p.Z*sy
	z := p.Z*cy + p.X*sy
	y := p.Y

	// pitch
	y2 := y*cx - z*sx
	z2 := z*cx + y*sx

	return Point{X: x, Y: y2, Z: z2, Label: p.Label}
}

// mat3 is a row-major rotation matrix.
type mat3 [9]float64

func identity() mat3 {
	return mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// rotation returns the matrix of Rotate(·, rx, ry).
func rotation(rx, ry float64) mat3 {
	sx, cx := math.Sincos(rx)
	sy, cy := math.Sincos(ry)
	return mat3{
		cy, 0, -sy,
		-sx * sy, cx, -sx * cy,
		cx * sy, sx, cx * cy,
	}
}

func (m mat3) mul(n mat3) mat3 {
	var r mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i*3+j] = m[i*3]*n[j] + m[i*3+1]*n[3+j] + m[i*3+2]*n[6+j]
		}
	}
	return r
}

func (m mat3) apply(p Point) Point {
	return Point{
		X:     m[0]*p.X + m[1]*p.Y + m[2]*p.Z,
		Y:     m[3]*p.X + m[4]*p.Y + m[5]*p.Z,
		Z:     m[6]*p.X + m[7]*p.Y + m[8]*p.Z,
		Label: p.Label,
	}
}

// orthonormalize re-orthogonalises the rows (Gram-Schmidt) so that the
// accumulated product stays a pure rotation.
func (m mat3) orthonormalize() mat3 {
	r0 := [3]float64{m[0], m[1], m[2]}
	r1 := [3]float64{m[3], m[4], m[5]}

	r0 = normalize(r0)
	d := dot(r0, r1)
	r1 = normalize([3]float64{r1[0] - d*r0[0], r1[1] - d*r0[1], r1[2] - d*r0[2]})
	r2 := [3]float64{
		r0[1]*r1[2] - r0[2]*r1[1],
		r0[2]*r1[0] - r0[0]*r1[2],
		r0[0]*r1[1] - r0[1]*r1[0],
	}
	return mat3{r0[0], r0[1], r0[2], r1[0], r1[1], r1[2], r2[0], r2[1], r2[2]}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func normalize(v [3]float64) [3]float64 {
	n := math.Sqrt(dot(v, v))
	if n == 0 {
		return v
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}
