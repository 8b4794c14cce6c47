package calibration

import (
	"go.viam.com/handeye/spatialmath"
)

// PosePair is one calibration sample: the robot end effector pose and the
// camera pose captured at the same instant.
type PosePair struct {
	Robot  *spatialmath.Pose
	Camera *spatialmath.Pose
}

// PoseSequence is an ordered series of samples. The i'th robot pose must have
// been captured concurrently with the i'th camera pose.
type PoseSequence []PosePair

// MotionPair holds the relative transforms between two consecutive samples:
// A for the robot and B for the camera. Motion pairs exist only for the
// duration of one calibration run.
type MotionPair struct {
	A *spatialmath.Pose
	B *spatialmath.Pose

	// Index is the index of the first of the two samples the pair spans.
	Index int
}
