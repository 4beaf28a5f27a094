package ellipsoid

import (
	"errors"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// epsEigenvalue replaces non-positive eigenvalues so the fitted axes stay
// positive definite even for flat or duplicate-heavy clusters.
const epsEigenvalue = 1e-10

// ErrDegenerate is returned when the eigen-decomposition of a cluster
// covariance does not converge. Degenerate ellipsoids are excluded from
// the sampling union.
var ErrDegenerate = errors.New("degenerate ellipsoid")

// Ellipsoid is the enlarged covariance ellipsoid of a point cluster. The
// enlargement factor scales the squared semi-axes, so volume grows with
// its dim/2 power.
type Ellipsoid struct {
	dim          int
	center       []float64
	eigenvalues  []float64
	eigenvectors *mat.Dense
	enlargement  float64
	logVolume    float64
}

// FromPoints fits an ellipsoid to a point set: center at the mean, axes
// from the symmetric eigen-decomposition of the sample covariance.
// Non-positive eigenvalues are clamped to a small epsilon. The new
// ellipsoid carries enlargement 1.
func FromPoints(points [][]float64) (*Ellipsoid, error) {
	m := len(points)
	if m == 0 {
		return nil, errors.New("ellipsoid: no points")
	}

	dim := len(points[0])

	center := make([]float64, dim)
	for _, p := range points {
		for j, v := range p {
			center[j] += v
		}
	}
	for j := range center {
		center[j] /= float64(m)
	}

	cov := mat.NewSymDense(dim, nil)
	for a := 0; a < dim; a++ {
		for b := a; b < dim; b++ {
			sum := 0.0
			for _, p := range points {
				sum += (p[a] - center[a]) * (p[b] - center[b])
			}

			cov.SetSym(a, b, sum/float64(m))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return nil, ErrDegenerate
	}

	eigenvalues := eig.Values(nil)
	for j, ev := range eigenvalues {
		if ev <= 0 {
			eigenvalues[j] = epsEigenvalue
		}
	}

	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	e := &Ellipsoid{
		dim:          dim,
		center:       center,
		eigenvalues:  eigenvalues,
		eigenvectors: &vectors,
		enlargement:  1,
	}
	e.updateLogVolume()

	return e, nil
}

// Dimension returns the dimensionality of the ellipsoid.
func (e *Ellipsoid) Dimension() int {
	return e.dim
}

// Center returns a copy of the ellipsoid center.
func (e *Ellipsoid) Center() []float64 {
	return append([]float64(nil), e.center...)
}

// Enlargement returns the current enlargement factor.
func (e *Ellipsoid) Enlargement() float64 {
	return e.enlargement
}

// Enlarge sets the enlargement factor. Non-positive factors are clamped
// to a small epsilon.
func (e *Ellipsoid) Enlarge(f float64) {
	if f <= 0 {
		f = epsEigenvalue
	}

	e.enlargement = f
	e.updateLogVolume()
}

// LogVolume returns the log-volume of the enlarged ellipsoid.
func (e *Ellipsoid) LogVolume() float64 {
	return e.logVolume
}

// Contains reports whether theta lies inside the enlarged ellipsoid.
func (e *Ellipsoid) Contains(theta []float64) bool {
	sum := 0.0

	for j := 0; j < e.dim; j++ {
		// Component of theta-center along eigenvector j.
		u := 0.0
		for i := 0; i < e.dim; i++ {
			u += e.eigenvectors.At(i, j) * (theta[i] - e.center[i])
		}

		sum += u * u / (e.enlargement * e.eigenvalues[j])
		if sum > 1 {
			return false
		}
	}

	return true
}

// DrawUniform fills out with a point drawn uniformly from the enlarged
// ellipsoid interior: a uniform direction on the sphere, a radius with
// density r^(dim-1), mapped through the scaled eigen-basis.
func (e *Ellipsoid) DrawUniform(rng *rand.Rand, out []float64) {
	u := make([]float64, e.dim)

	norm := 0.0
	for norm == 0 {
		for j := range u {
			v := rng.NormFloat64()
			u[j] = v
			norm += v * v
		}
	}
	norm = math.Sqrt(norm)

	r := math.Pow(rng.Float64(), 1/float64(e.dim))
	scale := r / norm

	for j := range u {
		u[j] *= scale * math.Sqrt(e.enlargement*e.eigenvalues[j])
	}

	for i := 0; i < e.dim; i++ {
		s := e.center[i]
		for j := 0; j < e.dim; j++ {
			s += e.eigenvectors.At(i, j) * u[j]
		}

		out[i] = s
	}
}

func (e *Ellipsoid) updateLogVolume() {
	sum := 0.0
	for _, ev := range e.eigenvalues {
		sum += math.Log(ev)
	}

	d := float64(e.dim)
	e.logVolume = logUnitBallVolume(e.dim) + d/2*math.Log(e.enlargement) + sum/2
}

// logUnitBallVolume returns log(pi^(d/2) / Gamma(d/2+1)), the volume of
// the d-dimensional unit ball.
func logUnitBallVolume(dim int) float64 {
	lg, _ := math.Lgamma(float64(dim)/2 + 1)
	return float64(dim)/2*math.Log(math.Pi) - lg
}
