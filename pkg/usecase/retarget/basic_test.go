// 指示: miu200521358
package retarget

import (
	"testing"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
)

type jointSpec struct {
	name   string
	parent string
	pos    mmath.Vec3
	rot    mmath.Quaternion
}

func buildSkeleton(t *testing.T, name string, specs []jointSpec) *model.Skeleton {
	t.Helper()
	skeleton := model.NewSkeleton(name)
	for _, spec := range specs {
		local := mmath.NewTransform()
		local.Position = spec.pos
		if spec.rot != (mmath.Quaternion{}) {
			local.Rotation = spec.rot
		}
		if _, err := skeleton.AddJoint(spec.name, spec.parent, local); err != nil {
			t.Fatalf("add joint failed: %v", err)
		}
	}
	return skeleton
}

func buildRig(t *testing.T, name string, chains [][]string) *model.Rig {
	t.Helper()
	rig := model.NewRig(name)
	for _, chain := range chains {
		if err := rig.AddChain(chain[0], chain[1:]...); err != nil {
			t.Fatalf("add chain failed: %v", err)
		}
	}
	return rig
}

// newArmBinding は hips と3関節の腕を持つ骨格をスケール違いで組み合わせる。
func newArmBinding(t *testing.T, sourceScale float64, targetScale float64) *Binding {
	t.Helper()
	specs := func(scale float64) []jointSpec {
		return []jointSpec{
			{name: "hips", pos: mmath.NewVec3(0, scale, 0)},
			{name: "shoulder", pos: mmath.NewVec3(0, scale, 0)},
			{name: "elbow", parent: "shoulder", pos: mmath.NewVec3(scale, 0, 0)},
			{name: "wrist", parent: "elbow", pos: mmath.NewVec3(scale, 0, 0)},
		}
	}
	chains := [][]string{{"hips", "hips"}, {"arm", "shoulder", "elbow", "wrist"}}
	return &Binding{
		Source:    buildSkeleton(t, "source", specs(sourceScale)),
		Target:    buildSkeleton(t, "target", specs(targetScale)),
		SourceRig: buildRig(t, "source", chains),
		TargetRig: buildRig(t, "target", chains),
	}
}

func mustBuildState(t *testing.T, feature Feature, binding *Binding) FeatureState {
	t.Helper()
	copied, _ := feature.snapshot()
	state, err := BuildFeatureState(copied, binding)
	if err != nil {
		t.Fatalf("build state failed: %v", err)
	}
	return state
}

func jointIndex(t *testing.T, skeleton *model.Skeleton, name string) int {
	t.Helper()
	index, exists := skeleton.IndexOf(name)
	if !exists {
		t.Fatalf("joint not found: %s", name)
	}
	return index
}

func assertVec3(t *testing.T, label string, got mmath.Vec3, want mmath.Vec3, eps float64) {
	t.Helper()
	if !got.NearEquals(want, eps) {
		t.Fatalf("%s mismatch: got=%v want=%v", label, got, want)
	}
}

func assertQuat(t *testing.T, label string, got mmath.Quaternion, want mmath.Quaternion, eps float64) {
	t.Helper()
	if !got.NearEquals(want, eps) {
		t.Fatalf("%s mismatch: got=%v want=%v", label, got, want)
	}
}

func TestBasicRetargetBindPoseIsIdentity(t *testing.T) {
	binding := newArmBinding(t, 1, 2)
	before := binding.Target.LocalTransforms()
	state := mustBuildState(t, NewBasicFeature("arm", "arm"), binding)
	state.Retarget(0)
	after := binding.Target.LocalTransforms()
	for i := range before {
		if !after[i].NearEquals(before[i], 1e-6) {
			t.Fatalf("bind local mismatch: index=%d got=%v want=%v", i, after[i], before[i])
		}
	}
}

func TestBasicRetargetTransfersRotationAcrossScale(t *testing.T) {
	binding := newArmBinding(t, 1, 2)
	state := mustBuildState(t, NewBasicFeature("arm", "arm"), binding)
	binding.Source.SetLocalRotation(jointIndex(t, binding.Source, "shoulder"), mmath.NewQuaternionFromDegrees(0, 0, 90))
	state.Retarget(0)

	wrist := binding.Target.WorldPosition(jointIndex(t, binding.Target, "wrist"))
	assertVec3(t, "target wrist", wrist, mmath.NewVec3(0, 6, 0), 1e-6)
	elbowLocal := binding.Target.LocalTransform(jointIndex(t, binding.Target, "elbow")).Rotation
	assertQuat(t, "target elbow local", elbowLocal, mmath.NewQuaternion(), 1e-6)
}

func TestBasicRetargetScalesTranslation(t *testing.T) {
	binding := newArmBinding(t, 1, 2)
	feature := NewBasicFeature("hips", "hips")
	feature.TranslationWeight = 1
	state := mustBuildState(t, feature, binding)
	basic, ok := state.(*basicState)
	if !ok {
		t.Fatalf("unexpected state type: %T", state)
	}
	if basic.ChainScale() != 2 {
		t.Fatalf("chain scale mismatch: got=%v want=%v", basic.ChainScale(), 2)
	}

	binding.Source.SetLocalPosition(jointIndex(t, binding.Source, "hips"), mmath.NewVec3(0.5, 1, 0))
	state.Retarget(0)
	hips := binding.Target.WorldPosition(jointIndex(t, binding.Target, "hips"))
	assertVec3(t, "target hips", hips, mmath.NewVec3(1, 2, 0), 1e-6)
}

func TestBasicRetargetTranslationDisabledKeepsPosition(t *testing.T) {
	binding := newArmBinding(t, 1, 2)
	state := mustBuildState(t, NewBasicFeature("hips", "hips"), binding)
	binding.Source.SetLocalPosition(jointIndex(t, binding.Source, "hips"), mmath.NewVec3(0.5, 1, 0))
	state.Retarget(0)
	hips := binding.Target.WorldPosition(jointIndex(t, binding.Target, "hips"))
	assertVec3(t, "target hips", hips, mmath.NewVec3(0, 2, 0), 1e-6)
}

func TestBasicRetargetPartialWeightIsIdempotent(t *testing.T) {
	binding := newArmBinding(t, 1, 1)
	feature := NewBasicFeature("arm", "arm")
	feature.FeatureWeight = 0.5
	state := mustBuildState(t, feature, binding)
	binding.Source.SetLocalRotation(jointIndex(t, binding.Source, "shoulder"), mmath.NewQuaternionFromDegrees(0, 0, 90))
	shoulder := jointIndex(t, binding.Target, "shoulder")

	want := mmath.NewQuaternionFromDegrees(0, 0, 45)
	state.Retarget(0)
	assertQuat(t, "first pass", binding.Target.LocalTransform(shoulder).Rotation, want, 1e-6)
	state.Retarget(0)
	assertQuat(t, "second pass", binding.Target.LocalTransform(shoulder).Rotation, want, 1e-6)
}

func TestBasicRetargetZeroWeightBypasses(t *testing.T) {
	binding := newArmBinding(t, 1, 1)
	feature := NewBasicFeature("arm", "arm")
	feature.FeatureWeight = 0
	state := mustBuildState(t, feature, binding)
	binding.Source.SetLocalRotation(jointIndex(t, binding.Source, "shoulder"), mmath.NewQuaternionFromDegrees(0, 0, 90))
	state.Retarget(0)
	shoulder := binding.Target.LocalTransform(jointIndex(t, binding.Target, "shoulder")).Rotation
	assertQuat(t, "shoulder", shoulder, mmath.NewQuaternion(), 1e-6)
}

func TestMapChainIndex(t *testing.T) {
	wantDown := []int{0, 0, 0, 0, 1}
	for i, want := range wantDown {
		if got := MapChainIndex(i, 5, 2); got != want {
			t.Fatalf("map 5->2 mismatch: index=%d got=%d want=%d", i, got, want)
		}
	}
	if got := MapChainIndex(1, 2, 5); got != 4 {
		t.Fatalf("map 2->5 mismatch: got=%d want=%d", got, 4)
	}
	if got := MapChainIndex(3, 4, 1); got != 0 {
		t.Fatalf("map to single mismatch: got=%d want=%d", got, 0)
	}
	if got := MapChainIndex(2, 3, 3); got != 2 {
		t.Fatalf("map equal mismatch: got=%d want=%d", got, 2)
	}
}

func TestChainScale(t *testing.T) {
	if got := ChainScale(0, 3); got != 1 {
		t.Fatalf("zero source scale mismatch: got=%v want=%v", got, 1)
	}
	if got := ChainScale(2, 3); got != 1.5 {
		t.Fatalf("scale mismatch: got=%v want=%v", got, 1.5)
	}
}

func TestBasicRetargetMapsMismatchedChains(t *testing.T) {
	binding := newArmBinding(t, 1, 1)
	if err := binding.TargetRig.AddChain("upper", "shoulder", "elbow"); err != nil {
		t.Fatalf("add chain failed: %v", err)
	}
	state := mustBuildState(t, NewBasicFeature("arm", "upper"), binding)
	binding.Source.SetLocalRotation(jointIndex(t, binding.Source, "shoulder"), mmath.NewQuaternionFromDegrees(0, 0, 90))
	state.Retarget(0)
	shoulder := binding.Target.LocalTransform(jointIndex(t, binding.Target, "shoulder")).Rotation
	assertQuat(t, "mapped shoulder", shoulder, mmath.NewQuaternionFromDegrees(0, 0, 90), 1e-6)
}

func TestBuildFeatureStateRejectsUnknownChain(t *testing.T) {
	binding := newArmBinding(t, 1, 1)
	state, err := BuildFeatureState(NewBasicFeature("arm", "tail"), binding)
	if err == nil {
		t.Fatalf("expected error for unknown chain")
	}
	if state == nil || state.IsValid() {
		t.Fatalf("expected invalid state: %v", state)
	}
	diagnostics := state.Diagnostics()
	if len(diagnostics) == 0 || diagnostics[0].Code != model.RetargetWarningChainUnresolved {
		t.Fatalf("diagnostic mismatch: got=%v", diagnostics)
	}
}
