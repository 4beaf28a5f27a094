// Package projection provides dimensionality reduction applied to live
// points before clustering. Partitioning in a reduced feature space keeps
// clustering tractable when the sampled space has many dimensions.
package projection

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Projector maps points into a reduced feature space.
type Projector interface {
	// Project returns the reduced representation of points, one row per
	// input point, preserving order.
	Project(points [][]float64) ([][]float64, error)
}

// PrincipalComponent projects points onto their leading principal
// components via the thin SVD of the column-centered data matrix. The
// right singular vectors are the component directions, ordered by the
// variance they capture.
type PrincipalComponent struct {
	components int
}

// NewPrincipalComponent returns a projector that keeps the given number of
// leading components.
func NewPrincipalComponent(components int) *PrincipalComponent {
	return &PrincipalComponent{components: components}
}

// Project implements the Projector interface.
func (p *PrincipalComponent) Project(points [][]float64) ([][]float64, error) {
	n := len(points)
	if n == 0 {
		return nil, errors.New("projection: no points")
	}

	dim := len(points[0])
	if p.components <= 0 || p.components > dim {
		return nil, fmt.Errorf("projection: %d components out of range for dimension %d", p.components, dim)
	}

	if n < p.components {
		return nil, fmt.Errorf("projection: need at least %d points for %d components, got %d", p.components, p.components, n)
	}

	x := mat.NewDense(n, dim, nil)

	for i, pt := range points {
		if len(pt) != dim {
			return nil, fmt.Errorf("projection: point %d has dimension %d, want %d", i, len(pt), dim)
		}

		x.SetRow(i, pt)
	}

	// Center each column so the components measure spread, not location.
	col := make([]float64, n)

	for j := 0; j < dim; j++ {
		mat.Col(col, j, x)
		mean := stat.Mean(col, nil)

		for i := 0; i < n; i++ {
			x.Set(i, j, col[i]-mean)
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, errors.New("projection: SVD did not converge")
	}

	var v mat.Dense
	svd.VTo(&v)

	var projected mat.Dense
	projected.Mul(x, v.Slice(0, dim, 0, p.components))

	out := make([][]float64, n)
	for i := range out {
		out[i] = mat.Row(nil, i, &projected)
	}

	return out, nil
}
