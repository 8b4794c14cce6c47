package calibration

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/handeye/spatialmath"
)

// rodriguesVector returns the modified Rodrigues encoding of a rotation: its
// axis scaled by tan(theta/2). Taken from the quaternion as vector/real, with
// the quaternion's double cover resolved toward a non-negative real part.
func rodriguesVector(rm *spatialmath.RotationMatrix, sampleIndex int) (r3.Vector, error) {
	q := rm.Quaternion()
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	if q.Real < 1e-12 {
		// a half-turn has no tan(theta/2) encoding
		return r3.Vector{}, newValidationErrorf(
			"relative rotation at sample %d is a half turn, which this solver cannot encode", sampleIndex)
	}
	return r3.Vector{X: q.Imag, Y: q.Jmag, Z: q.Kmag}.Mul(1 / q.Real), nil
}

// setSkewRows writes the skew-symmetric matrix of v into three rows of a,
// starting at row.
func setSkewRows(a *mat.Dense, row int, v r3.Vector) {
	a.Set(row, 1, -v.Z)
	a.Set(row, 2, v.Y)
	a.Set(row+1, 0, v.Z)
	a.Set(row+1, 2, -v.X)
	a.Set(row+2, 0, -v.Y)
	a.Set(row+2, 1, v.X)
}

// solveRotation estimates the rotation component of the hand-eye transform.
// Each motion pair contributes the linear equation
//
//	Skew(p_A + p_B) * p_X = p_B - p_A
//
// in the Rodrigues encodings of its two relative rotations. The stacked
// 3n x 3 system is solved by SVD least squares and the solution vector is
// decoded back into a proper rotation matrix through a unit quaternion.
// This is the stage most sensitive to the geometry of the collected poses:
// robot rotations that all share one axis leave the system rank deficient.
func solveRotation(pairs []MotionPair, params AlgorithmParameters) (*spatialmath.RotationMatrix, float64, error) {
	n := len(pairs)
	a := mat.NewDense(3*n, 3, nil)
	b := mat.NewVecDense(3*n, nil)
	for i, pair := range pairs {
		pa, err := rodriguesVector(pair.A.Rotation(), pair.Index)
		if err != nil {
			return nil, 0, err
		}
		pb, err := rodriguesVector(pair.B.Rotation(), pair.Index)
		if err != nil {
			return nil, 0, err
		}
		setSkewRows(a, 3*i, pa.Add(pb))
		d := pb.Sub(pa)
		b.SetVec(3*i, d.X)
		b.SetVec(3*i+1, d.Y)
		b.SetVec(3*i+2, d.Z)
	}

	x, cond, err := solveLeastSquares(a, b, StageRotation, params.MaxConditionNumber)
	if err != nil {
		return nil, cond, err
	}

	// p_X is axis * tan(theta/2), so the matching unit quaternion is
	// (1, p_X) / sqrt(1 + |p_X|^2).
	g := r3.Vector{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)}
	scale := 1 / math.Sqrt(1+g.Norm2())
	q := quat.Number{Real: scale, Imag: g.X * scale, Jmag: g.Y * scale, Kmag: g.Z * scale}
	return spatialmath.QuatToRotationMatrix(q), cond, nil
}
