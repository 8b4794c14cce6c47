package calibration

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/handeye/spatialmath"
)

// solveTranslation estimates the translation component of the hand-eye
// transform given an already-fixed rotation rx. Each motion pair contributes
//
//	(R_A - I) * t_X = R_X * t_B - t_A
//
// and the stacked system is solved by the same SVD least-squares path as the
// rotation stage. Solving translation separately, with the rotation held
// fixed, keeps both subproblems linear; they must not be solved jointly.
// Near-pure rotations with negligible translation leave this system close to
// singular.
func solveTranslation(pairs []MotionPair, rx *spatialmath.RotationMatrix, params AlgorithmParameters) (r3.Vector, float64, error) {
	n := len(pairs)
	a := mat.NewDense(3*n, 3, nil)
	b := mat.NewVecDense(3*n, nil)
	for i, pair := range pairs {
		ra := pair.A.Rotation()
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				v := ra.At(r, c)
				if r == c {
					v--
				}
				a.Set(3*i+r, c, v)
			}
		}
		rhs := rx.MulVec(pair.B.Point()).Sub(pair.A.Point())
		b.SetVec(3*i, rhs.X)
		b.SetVec(3*i+1, rhs.Y)
		b.SetVec(3*i+2, rhs.Z)
	}

	x, cond, err := solveLeastSquares(a, b, StageTranslation, params.MaxConditionNumber)
	if err != nil {
		return r3.Vector{}, cond, err
	}
	return r3.Vector{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)}, cond, nil
}
