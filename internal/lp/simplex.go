package lp

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// simplexBackend solves the arena through gonum's dense simplex. The arena's
// bounded maximization form is rewritten into gonum's general form (minimize
// c'x subject to Gx <= h, Ax = b) and converted to standard form from there.
type simplexBackend struct{}

func (simplexBackend) Name() string { return "simplex" }

func (simplexBackend) Solve(p *Problem) (Solution, error) {
	if err := p.validate(); err != nil {
		return Solution{Status: StatusError}, err
	}

	n := len(p.Vars)

	var gRows [][]float64
	var h []float64
	var aRows [][]float64
	var b []float64

	addG := func(coeffs []float64, bound float64) {
		gRows = append(gRows, coeffs)
		h = append(h, bound)
	}

	// Nonnegativity, plus variable upper bounds where present. The converted
	// form treats variables as free, so the zero lower bound must be explicit.
	for i, v := range p.Vars {
		neg := make([]float64, n)
		neg[i] = -1
		addG(neg, 0)
		if v.Upper != nil {
			pos := make([]float64, n)
			pos[i] = 1
			addG(pos, *v.Upper)
		}
	}

	for _, row := range p.Rows {
		coeffs := make([]float64, n)
		for _, term := range row.Terms {
			coeffs[term.Var] += term.Coeff
		}
		switch {
		case row.Lower != nil && row.Upper != nil && *row.Lower == *row.Upper:
			aRows = append(aRows, coeffs)
			b = append(b, *row.Lower)
		default:
			if row.Upper != nil {
				addG(coeffs, *row.Upper)
			}
			if row.Lower != nil {
				flipped := make([]float64, n)
				for i, c := range coeffs {
					flipped[i] = -c
				}
				addG(flipped, -*row.Lower)
			}
		}
	}

	c := make([]float64, n)
	for i, coeff := range p.Objective {
		c[i] = -coeff
	}

	g := denseFromRows(gRows, n)
	var a mat.Matrix
	if len(aRows) > 0 {
		a = denseFromRows(aRows, n)
	}

	cStd, aStd, bStd := lp.Convert(c, g, h, a, b)
	_, xStd, err := lp.Simplex(cStd, aStd, bStd, 0, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return Solution{Status: StatusInfeasible}, fmt.Errorf("simplex: %w", err)
		case errors.Is(err, lp.ErrUnbounded):
			return Solution{Status: StatusUnbounded}, fmt.Errorf("simplex: %w", err)
		default:
			return Solution{Status: StatusError}, fmt.Errorf("simplex: %w", err)
		}
	}

	// Convert splits each free variable into a positive and negative part.
	values := make([]float64, n)
	for i := range values {
		values[i] = xStd[i] - xStd[n+i]
	}

	return Solution{
		Status:    StatusOptimal,
		Objective: p.Value(values),
		Values:    values,
	}, nil
}

func denseFromRows(rows [][]float64, cols int) *mat.Dense {
	data := make([]float64, 0, len(rows)*cols)
	for _, row := range rows {
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data)
}
