package calibration

import "fmt"

// Stage names reported by IllConditionedSystemError.
const (
	StageRotation    = "rotation"
	StageTranslation = "translation"
)

// ValidationError indicates the pose sequence is malformed or insufficient for
// calibration. The caller must supply better input; the engine never retries.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "pose sequence validation failed: " + e.Reason
}

func newValidationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// DegenerateMotionError records a motion pair whose relative rotation is too
// close to identity to carry any information about the hand-eye transform.
// Such pairs are dropped from the solve rather than aborting the run.
type DegenerateMotionError struct {
	// Index is the index of the first of the two samples the pair was built from.
	Index int
	// Angle is the smaller of the robot and camera relative rotation angles, in radians.
	Angle float64
}

func (e *DegenerateMotionError) Error() string {
	return fmt.Sprintf("motion pair at sample %d is degenerate: relative rotation of %g radians carries no information", e.Index, e.Angle)
}

// IllConditionedSystemError indicates the stacked linear system for a solver
// stage is numerically unreliable. This signals a geometric problem with the
// collected poses, e.g. all robot rotations sharing one axis, and is never
// retried automatically.
type IllConditionedSystemError struct {
	Stage           string
	ConditionNumber float64
	Limit           float64
}

func (e *IllConditionedSystemError) Error() string {
	return fmt.Sprintf("%s system is ill conditioned: condition number %g exceeds limit %g; vary the robot motions and recalibrate", e.Stage, e.ConditionNumber, e.Limit)
}
