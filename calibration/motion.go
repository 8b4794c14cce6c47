package calibration

import (
	"go.viam.com/handeye/spatialmath"
)

// minInformativePairs is the fewest motion pairs that can yield a full-rank
// rotation system; each pair contributes a rank-2 equation block.
const minInformativePairs = 2

// buildMotionPairs derives the relative robot motion A_i and camera motion B_i
// between each pair of consecutive samples. Pairs whose relative rotation is
// below params.MinMotionAngle on either side carry no information about the
// hand-eye transform and are excluded from the solve; the exclusions are
// returned so the run can report them. If too few informative pairs remain the
// whole run fails validation.
func buildMotionPairs(seq PoseSequence, params AlgorithmParameters) ([]MotionPair, []*DegenerateMotionError, error) {
	pairs := make([]MotionPair, 0, len(seq)-1)
	var excluded []*DegenerateMotionError
	for i := 0; i+1 < len(seq); i++ {
		a := spatialmath.PoseBetween(seq[i].Robot, seq[i+1].Robot)
		b := spatialmath.PoseBetween(seq[i].Camera, seq[i+1].Camera)

		angleA := a.Rotation().AxisAngles().Theta
		angleB := b.Rotation().AxisAngles().Theta
		if angle := min(angleA, angleB); angle < params.MinMotionAngle {
			excluded = append(excluded, &DegenerateMotionError{Index: i, Angle: angle})
			continue
		}
		pairs = append(pairs, MotionPair{A: a, B: b, Index: i})
	}
	if len(pairs) < minInformativePairs {
		return nil, excluded, newValidationErrorf(
			"only %d informative motion pairs after excluding %d degenerate ones, need at least %d",
			len(pairs), len(excluded), minInformativePairs)
	}
	return pairs, excluded, nil
}

// MotionDiversity summarizes how much the robot moved between consecutive
// samples. Low rotational diversity is the usual cause of an ill conditioned
// rotation system, so callers can use this to decide whether to collect more
// poses before retrying.
type MotionDiversity struct {
	RotationDeltas    []float64 `json:"rotation_deltas"`    // radians
	TranslationDeltas []float64 `json:"translation_deltas"` // pose length units
}

// motionDiversity measures the robot motion between every pair of consecutive
// samples, including ones later excluded as degenerate.
func motionDiversity(seq PoseSequence) MotionDiversity {
	d := MotionDiversity{
		RotationDeltas:    make([]float64, 0, len(seq)-1),
		TranslationDeltas: make([]float64, 0, len(seq)-1),
	}
	for i := 0; i+1 < len(seq); i++ {
		rel := spatialmath.PoseBetween(seq[i].Robot, seq[i+1].Robot)
		d.RotationDeltas = append(d.RotationDeltas, rel.Rotation().AxisAngles().Theta)
		d.TranslationDeltas = append(d.TranslationDeltas, rel.Point().Norm())
	}
	return d
}
