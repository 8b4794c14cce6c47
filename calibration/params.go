package calibration

// Defaults used by DefaultAlgorithmParameters and for zero-valued fields.
const (
	defaultMinPoses                = 3
	defaultOrthonormalityTolerance = 1e-6
	defaultMinMotionAngle          = 1e-6
	defaultMaxConditionNumber      = 1e6
)

// AlgorithmParameters holds the numerical tolerances for a calibration run.
// The engine reads but never mutates them.
type AlgorithmParameters struct {
	// MinPoses is the minimum number of pose pairs a sequence must contain.
	// Values below 3 are raised to 3, since two motion pairs is the floor for
	// a full-rank rotation system.
	MinPoses int `json:"min_poses"`

	// OrthonormalityTolerance is the largest acceptable deviation of a pose's
	// rotation matrix from orthonormality. Poses beyond it are rejected, not
	// renormalized.
	OrthonormalityTolerance float64 `json:"orthonormality_tolerance"`

	// MinMotionAngle is the smallest relative rotation, in radians, for a
	// motion pair to be considered informative. Pairs below it are dropped.
	MinMotionAngle float64 `json:"min_motion_angle"`

	// MaxConditionNumber is the largest acceptable condition number for the
	// stacked rotation and translation systems.
	MaxConditionNumber float64 `json:"max_condition_number"`
}

// DefaultAlgorithmParameters returns the tolerances used when the caller has
// no reason to override them.
func DefaultAlgorithmParameters() AlgorithmParameters {
	return AlgorithmParameters{
		MinPoses:                defaultMinPoses,
		OrthonormalityTolerance: defaultOrthonormalityTolerance,
		MinMotionAngle:          defaultMinMotionAngle,
		MaxConditionNumber:      defaultMaxConditionNumber,
	}
}

// applyDefaults returns a copy with zero-valued fields replaced by defaults.
func (p AlgorithmParameters) applyDefaults() AlgorithmParameters {
	if p.MinPoses < defaultMinPoses {
		p.MinPoses = defaultMinPoses
	}
	if p.OrthonormalityTolerance <= 0 {
		p.OrthonormalityTolerance = defaultOrthonormalityTolerance
	}
	if p.MinMotionAngle <= 0 {
		p.MinMotionAngle = defaultMinMotionAngle
	}
	if p.MaxConditionNumber <= 0 {
		p.MaxConditionNumber = defaultMaxConditionNumber
	}
	return p
}
