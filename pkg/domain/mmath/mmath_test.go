// 指示: miu200521358
package mmath

import (
	"math"
	"testing"
)

func TestQuaternionMuledStaysNormalized(t *testing.T) {
	q := NewQuaternion()
	step := NewQuaternionFromDegrees(13, 27, 41)
	for i := 0; i < 200; i++ {
		q = q.Muled(step)
	}
	length := math.Sqrt(q.Dot(q))
	if math.Abs(length-1) > 1e-9 {
		t.Fatalf("quaternion should stay normalized: length=%v", length)
	}
}

func TestQuaternionSlerpTakesShortestPath(t *testing.T) {
	a := NewQuaternionFromAxisAngle(UNIT_Y_VEC3, DegToRad(10))
	b := NewQuaternionFromAxisAngle(UNIT_Y_VEC3, DegToRad(30)).Negated()

	mid := a.Slerp(b, 0.5)
	want := NewQuaternionFromAxisAngle(UNIT_Y_VEC3, DegToRad(20))
	if !mid.NearEquals(want, 1e-9) {
		t.Fatalf("slerp mismatch: got=%v want=%v", mid, want)
	}
	if !a.Slerp(b, 0).NearEquals(a, 1e-12) || !a.Slerp(b, 1).NearEquals(b, 1e-12) {
		t.Fatalf("slerp endpoints mismatch")
	}
}

func TestFromToRotationMapsDirection(t *testing.T) {
	from := NewVec3(1, 0, 0)
	to := NewVec3(0, 2, 2)
	q := FromToRotation(from, to)
	got := q.MulVec3(from)
	want := to.Normalized()
	if !got.NearEquals(want, 1e-9) {
		t.Fatalf("direction mismatch: got=%v want=%v", got, want)
	}
	if !FromToRotation(ZERO_VEC3, to).NearEquals(NewQuaternion(), 1e-12) {
		t.Fatalf("zero input should give identity")
	}
}

func TestTransformPointRoundTrip(t *testing.T) {
	tr := Transform{
		Position: NewVec3(1, 2, 3),
		Rotation: NewQuaternionFromDegrees(0, 90, 0),
		Scale:    NewVec3(2, 2, 2),
	}
	point := NewVec3(0.5, -1, 4)
	for _, useScale := range []bool{true, false} {
		world := tr.TransformPoint(point, useScale)
		back := tr.InverseTransformPoint(world, useScale)
		if !back.NearEquals(point, 1e-9) {
			t.Fatalf("round trip mismatch: useScale=%v got=%v want=%v", useScale, back, point)
		}
	}

	rotated := tr.TransformPoint(UNIT_Z_VEC3, false)
	if !rotated.NearEquals(NewVec3(2, 2, 3), 1e-9) {
		t.Fatalf("rotation about y mismatch: got=%v", rotated)
	}
}

func TestRelativeAndWorldTransformAreInverse(t *testing.T) {
	parent := Transform{
		Position: NewVec3(0, 1, 0),
		Rotation: NewQuaternionFromDegrees(30, 45, 10),
		Scale:    ONE_VEC3,
	}
	child := Transform{
		Position: NewVec3(3, -2, 1),
		Rotation: NewQuaternionFromDegrees(-20, 5, 60),
		Scale:    ONE_VEC3,
	}
	relative := parent.GetRelativeTransform(child, true)
	world := parent.GetWorldTransform(relative, true)
	if !world.NearEquals(child, 1e-9) {
		t.Fatalf("world mismatch: got=%+v want=%+v", world, child)
	}
}

func TestMoveInSpaceUsesSpaceRotation(t *testing.T) {
	space := NewTransformFromPosRot(NewVec3(5, 5, 5), NewQuaternionFromDegrees(0, 0, 90))
	moved := space.MoveInSpace(ZERO_VEC3, UNIT_X_VEC3, 2)
	if !moved.NearEquals(NewVec3(0, 2, 0), 1e-9) {
		t.Fatalf("move mismatch: got=%v", moved)
	}
}

func TestVec3NormalizedZeroStaysZero(t *testing.T) {
	if !ZERO_VEC3.Normalized().NearEquals(ZERO_VEC3, 0) {
		t.Fatalf("normalized zero should stay zero")
	}
	if got := NewVec3(3, 4, 0).Normalized().Length(); math.Abs(got-1) > 1e-12 {
		t.Fatalf("normalized length mismatch: %v", got)
	}
}
