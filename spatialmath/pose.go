package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// Pose represents a rigid transform in 3D space: a rotation about the origin
// followed by a translation.
type Pose struct {
	rotation    *RotationMatrix
	translation r3.Vector
}

// NewPose takes in a position and rotation and returns a Pose.
func NewPose(point r3.Vector, rotation *RotationMatrix) *Pose {
	return &Pose{rotation, point}
}

// NewZeroPose returns a pose at (0,0,0) with no rotation.
func NewZeroPose() *Pose {
	return &Pose{NewIdentityRotationMatrix(), r3.Vector{}}
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in reference to.
func NewPoseFromPoint(point r3.Vector) *Pose {
	return &Pose{NewIdentityRotationMatrix(), point}
}

// Point returns the translation component of the pose.
func (p *Pose) Point() r3.Vector {
	return p.translation
}

// Rotation returns the rotation component of the pose.
func (p *Pose) Rotation() *RotationMatrix {
	return p.rotation
}

// TransformPoint applies the pose to a point: R*pt + t.
func (p *Pose) TransformPoint(pt r3.Vector) r3.Vector {
	return p.rotation.MulVec(pt).Add(p.translation)
}

// Compose treats Poses as functions A(x) and B(x), and produces a new function
// C(x) = A(B(x)): the rotation components multiply and the translation of b is
// carried through the rotation of a.
func Compose(a, b *Pose) *Pose {
	return &Pose{
		rotation:    MatMul(a.rotation, b.rotation),
		translation: a.TransformPoint(b.translation),
	}
}

// PoseInverse returns the inverse of the given pose, so that
// Compose(p, PoseInverse(p)) is the zero pose.
func PoseInverse(p *Pose) *Pose {
	rInv := p.rotation.Transpose()
	return &Pose{
		rotation:    rInv,
		translation: rInv.MulVec(p.translation).Mul(-1),
	}
}

// PoseBetween returns the difference between two poses: the pose that, composed
// onto a, yields b. In other words, Compose(a, PoseBetween(a, b)) == b.
func PoseBetween(a, b *Pose) *Pose {
	return Compose(PoseInverse(a), b)
}

// PoseAlmostEqual returns whether both the position and rotation of two poses
// agree entrywise to within epsilon.
func PoseAlmostEqual(a, b *Pose, epsilon float64) bool {
	if !RotationMatrixAlmostEqual(a.rotation, b.rotation, epsilon) {
		return false
	}
	d := a.translation.Sub(b.translation)
	return math.Abs(d.X) <= epsilon && math.Abs(d.Y) <= epsilon && math.Abs(d.Z) <= epsilon
}

// PoseIsFinite returns false if any entry of the pose's rotation or
// translation is NaN or infinite.
func PoseIsFinite(p *Pose) bool {
	if !p.rotation.IsFinite() {
		return false
	}
	for _, v := range []float64{p.translation.X, p.translation.Y, p.translation.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
