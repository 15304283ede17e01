// 指示: miu200521358
package retarget

import (
	"testing"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
)

func TestDynamicRetargeterStreamsAndSyncsWeights(t *testing.T) {
	binding := newArmBinding(t, 1, 1)
	profile := &Profile{
		Name: "stream",
		Features: []Feature{
			NewBasicFeature("arm", "arm"),
			NewCopyFeature("hips", "hips"),
		},
	}
	retargeter := NewDynamicRetargeter(binding, profile, false)
	if err := retargeter.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if jobs := retargeter.Jobs(); len(jobs) != 1 || jobs[0].Name() != "Basic Retarget: arm" {
		t.Fatalf("job mismatch: got=%v", jobs)
	}
	if err := retargeter.Start(); err == nil {
		t.Fatalf("expected error on second start")
	}

	shoulder := jointIndex(t, binding.Target, "shoulder")
	binding.Source.SetLocalRotation(jointIndex(t, binding.Source, "shoulder"), mmath.NewQuaternionFromDegrees(0, 0, 90))
	retargeter.Update()
	assertQuat(t, "full weight", binding.Target.LocalTransform(shoulder).Rotation, mmath.NewQuaternionFromDegrees(0, 0, 90), 1e-6)

	feature := NewBasicFeature("arm", "arm")
	feature.FeatureWeight = 0.5
	profile.Features[0] = feature
	retargeter.Update()
	assertQuat(t, "synced weight", binding.Target.LocalTransform(shoulder).Rotation, mmath.NewQuaternionFromDegrees(0, 0, 45), 1e-6)

	retargeter.Destroy()
	for _, job := range retargeter.Jobs() {
		if !job.IsDisposed() {
			t.Fatalf("expected disposed job: %s", job.Name())
		}
	}
}

func TestDynamicRetargeterAppliesRootMotion(t *testing.T) {
	binding := newArmBinding(t, 1, 1)
	binding.Target.Root.Position = mmath.NewVec3(0, 0, 5)
	retargeter := NewDynamicRetargeter(binding, &Profile{Features: []Feature{NewIKFeature("arm", "arm")}}, true)
	if err := retargeter.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	binding.Source.Root.Position = mmath.NewVec3(1, 0, 0)
	binding.Source.Root.Rotation = mmath.NewQuaternionFromDegrees(0, 90, 0)
	retargeter.Update()
	assertVec3(t, "root position", binding.Target.Root.Position, mmath.NewVec3(1, 0, 5), 1e-9)
	assertQuat(t, "root rotation", binding.Target.Root.Rotation, mmath.NewQuaternionFromDegrees(0, 90, 0), 1e-9)

	retargeter.Update()
	assertVec3(t, "stable root", binding.Target.Root.Position, mmath.NewVec3(1, 0, 5), 1e-9)
}
