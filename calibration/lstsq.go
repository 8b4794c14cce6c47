package calibration

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// solveLeastSquares solves the overdetermined system a*x = b by SVD and
// returns the solution along with the system's condition number. Using the
// singular values directly keeps the condition check meaningful, which a
// normal-equations solve would not.
func solveLeastSquares(a *mat.Dense, b *mat.VecDense, stage string, maxCond float64) (*mat.VecDense, float64, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, 0, errors.Errorf("SVD factorization of the %s system failed", stage)
	}
	vals := svd.Values(nil)

	cond := math.Inf(1)
	if smallest := vals[len(vals)-1]; smallest > 0 {
		cond = vals[0] / smallest
	}
	if cond > maxCond {
		return nil, cond, &IllConditionedSystemError{Stage: stage, ConditionNumber: cond, Limit: maxCond}
	}

	_, n := a.Dims()
	x := mat.NewVecDense(n, nil)
	svd.SolveVecTo(x, b, len(vals))
	return x, cond, nil
}
