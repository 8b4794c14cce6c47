package calibration

import (
	"go.viam.com/handeye/spatialmath"
)

// validateSequence gates every calibration run: no pose may reach the solvers
// without passing through here. It checks sample count, that every pose is
// present and finite, and that every rotation matrix is orthonormal to within
// the configured tolerance. Poses are rejected, never repaired.
func validateSequence(seq PoseSequence, params AlgorithmParameters) error {
	if len(seq) < params.MinPoses {
		return newValidationErrorf("need at least %d pose pairs, got %d", params.MinPoses, len(seq))
	}
	for i, pair := range seq {
		if err := validatePose(pair.Robot, "robot", i, params.OrthonormalityTolerance); err != nil {
			return err
		}
		if err := validatePose(pair.Camera, "camera", i, params.OrthonormalityTolerance); err != nil {
			return err
		}
	}
	return nil
}

func validatePose(p *spatialmath.Pose, side string, i int, tol float64) error {
	if p == nil || p.Rotation() == nil {
		return newValidationErrorf("%s pose %d is missing", side, i)
	}
	if !spatialmath.PoseIsFinite(p) {
		return newValidationErrorf("%s pose %d contains NaN or Inf values", side, i)
	}
	if dev := p.Rotation().OrthonormalityError(); dev > tol {
		return newValidationErrorf(
			"%s pose %d rotation is not orthonormal: deviation %g exceeds tolerance %g", side, i, dev, tol)
	}
	return nil
}
