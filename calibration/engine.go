// Package calibration estimates the fixed rigid transform between a robot's
// end effector and a rigidly mounted camera from paired pose observations,
// using the Tsai-Lenz closed-form solution to AX = XB. The solve is split
// into a linear rotation stage followed by a linear translation stage, and
// every result carries residual metrics for the quality checks the caller
// performs.
package calibration

import (
	"github.com/edaniels/golog"

	"go.viam.com/handeye/spatialmath"
)

// Result is the outcome of one calibration run. It is immutable once
// produced; ownership passes entirely to the caller.
type Result struct {
	// HandEye is the estimated transform X from the end effector frame to the
	// camera frame.
	HandEye *spatialmath.Pose `json:"hand_eye"`

	// Report holds per-pair and aggregate residuals of AX = XB under the
	// estimated transform.
	Report ErrorReport `json:"report"`

	// Excluded lists motion pairs dropped for carrying no rotational
	// information.
	Excluded []*DegenerateMotionError `json:"-"`

	// PairsUsed is the number of motion pairs that entered the solve.
	PairsUsed int `json:"pairs_used"`

	// Diversity summarizes the robot motion between consecutive samples.
	Diversity MotionDiversity `json:"diversity"`

	// Condition numbers of the two stacked systems, for diagnosing
	// marginal pose geometry.
	RotationConditionNumber    float64 `json:"rotation_condition_number"`
	TranslationConditionNumber float64 `json:"translation_condition_number"`
}

// Engine runs hand-eye calibrations. It holds no mutable state across runs,
// so a single Engine may be used from any number of goroutines.
type Engine struct {
	params AlgorithmParameters
	logger golog.Logger
}

// NewEngine returns an engine using the given parameters. Zero-valued
// parameter fields fall back to defaults. A nil logger is replaced with a
// development logger.
func NewEngine(params AlgorithmParameters, logger golog.Logger) *Engine {
	if logger == nil {
		logger = golog.NewDevelopmentLogger("calibration")
	}
	return &Engine{params: params.applyDefaults(), logger: logger}
}

// Calibrate estimates the hand-eye transform from the given sequence of
// paired robot and camera poses. It validates the sequence, derives relative
// motion pairs, solves the rotation and then the translation stage, and
// evaluates residuals, short-circuiting with a typed error at the first
// failing stage: *ValidationError for malformed or insufficient input and
// *IllConditionedSystemError for pose geometry that leaves either linear
// system numerically unreliable. The engine never retries; all errors are
// terminal for the run.
func (e *Engine) Calibrate(seq PoseSequence) (*Result, error) {
	if err := validateSequence(seq, e.params); err != nil {
		return nil, err
	}

	pairs, excluded, err := buildMotionPairs(seq, e.params)
	if err != nil {
		return nil, err
	}
	for _, ex := range excluded {
		e.logger.Warnw("excluding degenerate motion pair", "sample", ex.Index, "angle_rad", ex.Angle)
	}
	e.logger.Debugw("built motion pairs", "total", len(seq)-1, "used", len(pairs))

	rx, rotCond, err := solveRotation(pairs, e.params)
	if err != nil {
		return nil, err
	}
	e.logger.Debugw("solved rotation stage", "condition_number", rotCond)

	tx, transCond, err := solveTranslation(pairs, rx, e.params)
	if err != nil {
		return nil, err
	}
	e.logger.Debugw("solved translation stage", "condition_number", transCond)

	handEye := spatialmath.NewPose(tx, rx)
	report := evaluateErrors(pairs, handEye)
	e.logger.Debugw("evaluated residuals",
		"mean_rotation_rad", report.Rotation.Mean,
		"max_rotation_rad", report.Rotation.Max,
		"mean_translation", report.Translation.Mean,
		"max_translation", report.Translation.Max,
	)

	return &Result{
		HandEye:                    handEye,
		Report:                     report,
		Excluded:                   excluded,
		PairsUsed:                  len(pairs),
		Diversity:                  motionDiversity(seq),
		RotationConditionNumber:    rotCond,
		TranslationConditionNumber: transCond,
	}, nil
}
