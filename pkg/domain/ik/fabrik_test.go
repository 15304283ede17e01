// 指示: miu200521358
package ik

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
)

func newUnitChain() *ChainIKData {
	data := NewChainIKData(4)
	data.Gather([]mmath.Vec3{
		mmath.NewVec3(0, 0, 0),
		mmath.NewVec3(0, 1, 0),
		mmath.NewVec3(0, 2, 0),
		mmath.NewVec3(0, 3, 0),
	})
	return data
}

func TestSolveFABRIKConverges(t *testing.T) {
	data := newUnitChain()
	data.Target = mmath.NewVec3(1.5, 1.5, 0.5)
	result := SolveFABRIK(data)

	if !result.Changed {
		t.Fatalf("solve should change positions")
	}
	dist := data.Tip().Distance(data.Target)
	if dist > data.Tolerance && result.Iterations != data.MaxIterations {
		t.Fatalf("neither converged nor exhausted: dist=%v iterations=%d", dist, result.Iterations)
	}
	if result.Converged != (dist <= data.Tolerance) {
		t.Fatalf("converged flag mismatch: converged=%v dist=%v", result.Converged, dist)
	}
	if !data.Positions[0].NearEquals(mmath.ZERO_VEC3, 1e-12) {
		t.Fatalf("root should be fixed: got=%v", data.Positions[0])
	}
	for i := 0; i < 3; i++ {
		if got := data.Positions[i].Distance(data.Positions[i+1]); math.Abs(got-1) > 1e-9 {
			t.Fatalf("segment %d length mismatch: got=%v", i, got)
		}
	}
}

func TestSolveFABRIKStraightensWhenUnreachable(t *testing.T) {
	data := newUnitChain()
	data.Target = mmath.NewVec3(10, 0, 0)
	result := SolveFABRIK(data)

	if !result.Changed || result.Iterations != 0 {
		t.Fatalf("unreachable should be a single pass: %+v", result)
	}
	for i, want := range []float64{0, 1, 2, 3} {
		if !data.Positions[i].NearEquals(mmath.NewVec3(want, 0, 0), 1e-9) {
			t.Fatalf("joint %d mismatch: got=%v", i, data.Positions[i])
		}
	}
}

func TestSolveFABRIKRejectsShortChain(t *testing.T) {
	data := NewChainIKData(2)
	data.Gather([]mmath.Vec3{mmath.ZERO_VEC3, mmath.NewVec3(1, 0, 0)})
	data.Target = mmath.NewVec3(0, 1, 0)
	if result := SolveFABRIK(data); result.Changed {
		t.Fatalf("short chain should be rejected")
	}
	if !data.Positions[1].NearEquals(mmath.NewVec3(1, 0, 0), 1e-12) {
		t.Fatalf("short chain should stay unchanged")
	}
}

func TestSolveFABRIKAlreadyAtTarget(t *testing.T) {
	data := newUnitChain()
	data.Target = mmath.NewVec3(0, 3, 0)
	result := SolveFABRIK(data)
	if !result.Converged || result.Changed || result.Iterations != 0 {
		t.Fatalf("reached chain should not iterate: %+v", result)
	}
}

func TestChainRotationMapsCachedDirection(t *testing.T) {
	cachedRotation := mmath.NewQuaternionFromDegrees(0, 30, 0)
	rotation := ChainRotation(
		mmath.ZERO_VEC3, mmath.NewVec3(0, 1, 0),
		mmath.ZERO_VEC3, mmath.NewVec3(1, 0, 0),
		cachedRotation,
	)
	want := mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Z_VEC3, -math.Pi/2).Muled(cachedRotation)
	if !rotation.NearEquals(want, 1e-9) {
		t.Fatalf("rotation mismatch: got=%v want=%v", rotation, want)
	}
}
