package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestR4AAQuatConversion(t *testing.T) {
	aa45x := &R4AA{math.Pi / 4, 1, 0, 0}
	q := aa45x.ToQuat()
	test.That(t, q.Real, test.ShouldAlmostEqual, math.Cos(math.Pi/8))
	test.That(t, q.Imag, test.ShouldAlmostEqual, math.Sin(math.Pi/8))
	test.That(t, q.Jmag, test.ShouldAlmostEqual, 0)
	test.That(t, q.Kmag, test.ShouldAlmostEqual, 0)

	back := QuatToR4AA(q)
	test.That(t, back.Theta, test.ShouldAlmostEqual, aa45x.Theta)
	test.That(t, back.RX, test.ShouldAlmostEqual, aa45x.RX)
	test.That(t, back.RY, test.ShouldAlmostEqual, aa45x.RY)
	test.That(t, back.RZ, test.ShouldAlmostEqual, aa45x.RZ)
}

func TestR4AANormalize(t *testing.T) {
	aa := &R4AA{1, 3, 0, 4}
	aa.Normalize()
	test.That(t, aa.RX, test.ShouldAlmostEqual, 0.6)
	test.That(t, aa.RZ, test.ShouldAlmostEqual, 0.8)
}

func TestR3R4Conversion(t *testing.T) {
	r4 := R3ToR4(r3.Vector{X: 0, Y: 2, Z: 0})
	test.That(t, r4.Theta, test.ShouldAlmostEqual, 2)
	test.That(t, r4.RY, test.ShouldAlmostEqual, 1)

	test.That(t, r4.ToR3(), test.ShouldResemble, r3.Vector{X: 0, Y: 2, Z: 0})

	test.That(t, R3ToR4(r3.Vector{}), test.ShouldResemble, NewR4AA())
}

func TestZeroRotation(t *testing.T) {
	zero := NewR4AA()
	test.That(t, zero.ToQuat().Real, test.ShouldAlmostEqual, 1)
	test.That(t, RotationMatrixAlmostEqual(zero.RotationMatrix(), NewIdentityRotationMatrix(), 1e-12), test.ShouldBeTrue)
}
