package calibration

import (
	"errors"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"go.viam.com/handeye/spatialmath"
)

func rotAbout(axis r3.Vector, theta float64) *spatialmath.RotationMatrix {
	if theta == 0 {
		return spatialmath.NewIdentityRotationMatrix()
	}
	return spatialmath.R3ToR4(axis.Normalize().Mul(theta)).RotationMatrix()
}

func poseAt(axis r3.Vector, theta float64, pt r3.Vector) *spatialmath.Pose {
	return spatialmath.NewPose(pt, rotAbout(axis, theta))
}

// knownHandEye is the ground-truth transform the synthetic sequences are
// generated from.
func knownHandEye() *spatialmath.Pose {
	return poseAt(r3.Vector{X: 1, Y: 2, Z: 3}, 0.6, r3.Vector{X: 12.5, Y: -4, Z: 7.2})
}

// syntheticSequence derives camera poses from the robot poses and a known
// hand-eye transform so every motion pair satisfies B = X⁻¹AX exactly.
func syntheticSequence(robot []*spatialmath.Pose, x *spatialmath.Pose) PoseSequence {
	xInv := spatialmath.PoseInverse(x)
	seq := make(PoseSequence, len(robot))
	for i, rp := range robot {
		seq[i] = PosePair{Robot: rp, Camera: spatialmath.Compose(spatialmath.Compose(xInv, rp), x)}
	}
	return seq
}

func defaultRobotPoses() []*spatialmath.Pose {
	return []*spatialmath.Pose{
		poseAt(r3.Vector{X: 0, Y: 0, Z: 1}, 0, r3.Vector{X: 100, Y: -20, Z: 50}),
		poseAt(r3.Vector{X: 1, Y: 0, Z: 0}, 0.8, r3.Vector{X: 20, Y: 30, Z: -10}),
		poseAt(r3.Vector{X: 0, Y: 1, Z: 0}, -0.6, r3.Vector{X: 5, Y: 5, Z: 5}),
		poseAt(r3.Vector{X: 1, Y: 1, Z: 0}, 1.2, r3.Vector{X: -40, Y: 10, Z: 80}),
		poseAt(r3.Vector{X: 1, Y: -2, Z: 1}, 2.0, r3.Vector{X: 60, Y: 60, Z: 0}),
	}
}

func TestCalibrateRecoversKnownTransform(t *testing.T) {
	x := knownHandEye()
	seq := syntheticSequence(defaultRobotPoses(), x)
	engine := NewEngine(DefaultAlgorithmParameters(), golog.NewTestLogger(t))

	res, err := engine.Calibrate(seq)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(res.HandEye, x, 1e-9), test.ShouldBeTrue)
	test.That(t, res.PairsUsed, test.ShouldEqual, 4)
	test.That(t, res.Excluded, test.ShouldBeEmpty)
	test.That(t, res.Report.Rotation.Max, test.ShouldBeLessThan, 1e-9)
	test.That(t, res.Report.Translation.Max, test.ShouldBeLessThan, 1e-9)
	test.That(t, len(res.Report.RotationErrors), test.ShouldEqual, 4)
	test.That(t, len(res.Report.TranslationErrors), test.ShouldEqual, 4)
}

func TestCalibrateReturnsProperRotation(t *testing.T) {
	seq := syntheticSequence(defaultRobotPoses(), knownHandEye())
	engine := NewEngine(DefaultAlgorithmParameters(), golog.NewTestLogger(t))

	res, err := engine.Calibrate(seq)
	test.That(t, err, test.ShouldBeNil)
	rx := res.HandEye.Rotation()
	test.That(t, rx.OrthonormalityError(), test.ShouldBeLessThan, 1e-6)
	test.That(t, rx.Det(), test.ShouldAlmostEqual, 1, 1e-6)
}

func TestCalibrateIsDeterministic(t *testing.T) {
	seq := syntheticSequence(defaultRobotPoses(), knownHandEye())
	engine := NewEngine(DefaultAlgorithmParameters(), golog.NewTestLogger(t))

	res1, err := engine.Calibrate(seq)
	test.That(t, err, test.ShouldBeNil)
	res2, err := engine.Calibrate(seq)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res2, test.ShouldResemble, res1)
}

func TestCalibrateInsufficientSamples(t *testing.T) {
	seq := syntheticSequence(defaultRobotPoses()[:2], knownHandEye())
	engine := NewEngine(DefaultAlgorithmParameters(), golog.NewTestLogger(t))

	_, err := engine.Calibrate(seq)
	test.That(t, err, test.ShouldNotBeNil)
	var verr *ValidationError
	test.That(t, errors.As(err, &verr), test.ShouldBeTrue)
}

func TestCalibrateSameAxisRotations(t *testing.T) {
	// every robot rotation about z leaves the rotation system rank deficient;
	// this must surface as an ill conditioned system, not a low-residual lie
	robot := []*spatialmath.Pose{
		poseAt(r3.Vector{X: 0, Y: 0, Z: 1}, 0.3, r3.Vector{X: 10, Y: 0, Z: 0}),
		poseAt(r3.Vector{X: 0, Y: 0, Z: 1}, 0.9, r3.Vector{X: 0, Y: 25, Z: 5}),
		poseAt(r3.Vector{X: 0, Y: 0, Z: 1}, 1.6, r3.Vector{X: -15, Y: 10, Z: 30}),
		poseAt(r3.Vector{X: 0, Y: 0, Z: 1}, 2.2, r3.Vector{X: 40, Y: -20, Z: 10}),
	}
	seq := syntheticSequence(robot, knownHandEye())
	engine := NewEngine(DefaultAlgorithmParameters(), golog.NewTestLogger(t))

	_, err := engine.Calibrate(seq)
	test.That(t, err, test.ShouldNotBeNil)
	var icErr *IllConditionedSystemError
	test.That(t, errors.As(err, &icErr), test.ShouldBeTrue)
	test.That(t, icErr.Stage, test.ShouldEqual, StageRotation)
	test.That(t, icErr.ConditionNumber, test.ShouldBeGreaterThan, icErr.Limit)
}

func TestCalibrateExcludesDegeneratePairs(t *testing.T) {
	x := knownHandEye()
	robot := defaultRobotPoses()
	// repeat the last rotation so the final motion pair is a pure translation
	last := robot[len(robot)-1]
	robot = append(robot, spatialmath.NewPose(last.Point().Add(r3.Vector{X: 5, Y: 5, Z: 5}), last.Rotation()))
	seq := syntheticSequence(robot, x)
	engine := NewEngine(DefaultAlgorithmParameters(), golog.NewTestLogger(t))

	res, err := engine.Calibrate(seq)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.PairsUsed, test.ShouldEqual, 4)
	test.That(t, len(res.Excluded), test.ShouldEqual, 1)
	test.That(t, res.Excluded[0].Index, test.ShouldEqual, 4)
	test.That(t, res.Excluded[0].Angle, test.ShouldBeLessThan, defaultMinMotionAngle)
	test.That(t, spatialmath.PoseAlmostEqual(res.HandEye, x, 1e-9), test.ShouldBeTrue)
}

func TestCalibrateAllPairsDegenerate(t *testing.T) {
	// distinct translations but a single fixed rotation: no informative pairs
	rot := rotAbout(r3.Vector{X: 1, Y: 0, Z: 0}, 0.7)
	robot := []*spatialmath.Pose{
		spatialmath.NewPose(r3.Vector{X: 0, Y: 0, Z: 0}, rot),
		spatialmath.NewPose(r3.Vector{X: 10, Y: 0, Z: 0}, rot),
		spatialmath.NewPose(r3.Vector{X: 0, Y: 10, Z: 0}, rot),
		spatialmath.NewPose(r3.Vector{X: 0, Y: 0, Z: 10}, rot),
	}
	seq := syntheticSequence(robot, knownHandEye())
	engine := NewEngine(DefaultAlgorithmParameters(), golog.NewTestLogger(t))

	_, err := engine.Calibrate(seq)
	test.That(t, err, test.ShouldNotBeNil)
	var verr *ValidationError
	test.That(t, errors.As(err, &verr), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "informative")
}

// perturbSequence composes a small random rotation onto every camera pose.
// The perturbed matrices remain exactly orthonormal.
func perturbSequence(seq PoseSequence, sigma float64, seed uint64) PoseSequence {
	dist := distuv.Normal{Mu: 0, Sigma: sigma, Src: rand.NewSource(seed)}
	out := make(PoseSequence, len(seq))
	for i, pair := range seq {
		noise := spatialmath.R3ToR4(r3.Vector{X: dist.Rand(), Y: dist.Rand(), Z: dist.Rand()}).RotationMatrix()
		cam := spatialmath.Compose(pair.Camera, spatialmath.NewPose(r3.Vector{}, noise))
		out[i] = PosePair{Robot: pair.Robot, Camera: cam}
	}
	return out
}

func TestCalibrateNoiseSensitivity(t *testing.T) {
	seq := syntheticSequence(defaultRobotPoses(), knownHandEye())
	engine := NewEngine(DefaultAlgorithmParameters(), golog.NewTestLogger(t))

	const seed = 42
	resSmall, err := engine.Calibrate(perturbSequence(seq, 1e-4, seed))
	test.That(t, err, test.ShouldBeNil)
	resBig, err := engine.Calibrate(perturbSequence(seq, 1e-2, seed))
	test.That(t, err, test.ShouldBeNil)

	// residuals should grow with the noise and stay the same order of
	// magnitude as it, bounding the numerical amplification
	test.That(t, resBig.Report.Rotation.Mean, test.ShouldBeGreaterThan, resSmall.Report.Rotation.Mean)
	test.That(t, resBig.Report.Rotation.Mean, test.ShouldBeGreaterThan, 1e-4)
	test.That(t, resBig.Report.Rotation.Mean, test.ShouldBeLessThan, 0.2)
}

func TestNewEngineDefaults(t *testing.T) {
	engine := NewEngine(AlgorithmParameters{}, nil)
	test.That(t, engine.params, test.ShouldResemble, DefaultAlgorithmParameters())
	test.That(t, engine.logger, test.ShouldNotBeNil)

	custom := NewEngine(AlgorithmParameters{MinPoses: 10, MaxConditionNumber: 100}, golog.NewTestLogger(t))
	test.That(t, custom.params.MinPoses, test.ShouldEqual, 10)
	test.That(t, custom.params.MaxConditionNumber, test.ShouldEqual, 100.0)
	test.That(t, custom.params.MinMotionAngle, test.ShouldEqual, defaultMinMotionAngle)
}
