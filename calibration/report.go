package calibration

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/handeye/spatialmath"
)

// ResidualStats aggregates one residual type across all retained motion pairs.
type ResidualStats struct {
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	StdDev float64 `json:"std_dev"`
}

// ErrorReport quantifies how well the estimated transform satisfies AX = XB
// for every retained motion pair. Rotation residuals are in radians,
// translation residuals in the length unit of the input poses. Downstream
// quality checks depend on these values; a transform is never returned
// without them.
type ErrorReport struct {
	RotationErrors    []float64 `json:"rotation_errors"`
	TranslationErrors []float64 `json:"translation_errors"`

	Rotation    ResidualStats `json:"rotation"`
	Translation ResidualStats `json:"translation"`
}

// evaluateErrors recomputes both sides of AX = XB for every motion pair using
// the estimated transform. The rotation residual is the angle between
// R_A*R_X and R_X*R_B; the translation residual is the Euclidean distance
// between the two sides' translations. Pure function over its inputs.
func evaluateErrors(pairs []MotionPair, x *spatialmath.Pose) ErrorReport {
	rx := x.Rotation()
	tx := x.Point()
	rot := make([]float64, len(pairs))
	trans := make([]float64, len(pairs))
	for i, pair := range pairs {
		lhs := spatialmath.MatMul(pair.A.Rotation(), rx)
		rhs := spatialmath.MatMul(rx, pair.B.Rotation())
		rot[i] = spatialmath.MatMul(lhs.Transpose(), rhs).AxisAngles().Theta

		lhsT := pair.A.Rotation().MulVec(tx).Add(pair.A.Point())
		rhsT := rx.MulVec(pair.B.Point()).Add(tx)
		trans[i] = lhsT.Sub(rhsT).Norm()
	}
	return ErrorReport{
		RotationErrors:    rot,
		TranslationErrors: trans,
		Rotation:          newResidualStats(rot),
		Translation:       newResidualStats(trans),
	}
}

func newResidualStats(vals []float64) ResidualStats {
	s := ResidualStats{
		Mean: stat.Mean(vals, nil),
		Max:  floats.Max(vals),
		Min:  floats.Min(vals),
	}
	// sample standard deviation is undefined for a single value
	if len(vals) > 1 {
		s.StdDev = stat.StdDev(vals, nil)
	}
	return s
}
