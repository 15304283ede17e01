// 指示: miu200521358
package retarget

import (
	"testing"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
)

func assertStatuses(t *testing.T, label string, got []FeatureStatus, want ...FeatureStatus) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s length mismatch: got=%v want=%v", label, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s mismatch: index=%d got=%v want=%v", label, i, got[i], want[i])
		}
	}
}

func TestSessionLifecycleSkipsInvalidFeature(t *testing.T) {
	binding := newArmBinding(t, 1, 1)
	profile := &Profile{
		Name: "lifecycle",
		Features: []Feature{
			NewBasicFeature("arm", "arm"),
			NewBasicFeature("arm", "tail"),
		},
	}
	session := NewSession(binding, profile)
	assertStatuses(t, "before init", session.Statuses(), FEATURE_STATUS_UNINITIALIZED, FEATURE_STATUS_UNINITIALIZED)

	if err := session.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	assertStatuses(t, "after init", session.Statuses(), FEATURE_STATUS_INITIALIZED, FEATURE_STATUS_INVALID)
	if len(session.Diagnostics()) == 0 {
		t.Fatalf("expected diagnostics for unknown chain")
	}
	if names := session.InvalidFeatures(); len(names) != 1 || names[0] != "Basic Retarget: tail" {
		t.Fatalf("invalid feature mismatch: got=%v", names)
	}

	binding.Source.SetLocalRotation(jointIndex(t, binding.Source, "shoulder"), mmath.NewQuaternionFromDegrees(0, 0, 90))
	session.Retarget(0)
	assertStatuses(t, "after retarget", session.Statuses(), FEATURE_STATUS_VALID, FEATURE_STATUS_INVALID)
	wrist := binding.Target.WorldPosition(jointIndex(t, binding.Target, "wrist"))
	assertVec3(t, "wrist", wrist, mmath.NewVec3(0, 3, 0), 1e-6)

	if err := session.Initialize(); merr.ExtractErrorID(err) != model.ErrorIDSessionState {
		t.Fatalf("expected session state error: %v", err)
	}
	session.Destroy()
	assertStatuses(t, "after destroy", session.Statuses(), FEATURE_STATUS_DESTROYED, FEATURE_STATUS_DESTROYED)
}

func TestSessionSnapshotsProfile(t *testing.T) {
	binding := newArmBinding(t, 1, 1)
	feature := NewBasicFeature("arm", "arm")
	profile := &Profile{Name: "snapshot", Features: []Feature{feature}}
	session := NewSession(binding, profile)
	if err := session.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	feature.FeatureWeight = 0
	profile.Features[0] = feature

	binding.Source.SetLocalRotation(jointIndex(t, binding.Source, "shoulder"), mmath.NewQuaternionFromDegrees(0, 0, 90))
	session.Retarget(0)
	shoulder := binding.Target.LocalTransform(jointIndex(t, binding.Target, "shoulder")).Rotation
	assertQuat(t, "shoulder", shoulder, mmath.NewQuaternionFromDegrees(0, 0, 90), 1e-6)
}

func TestSessionAppliesPosesBeforeCaching(t *testing.T) {
	binding := newArmBinding(t, 1, 1)
	targetPose := model.NewPose("t-pose")
	targetPose.SetRotation("shoulder", mmath.NewQuaternionFromDegrees(0, 0, -90))
	targetPose.SetRotation("antenna", mmath.NewQuaternion())
	profile := &Profile{
		Name:       "pose",
		TargetPose: targetPose,
		Features:   []Feature{NewBasicFeature("arm", "arm")},
	}
	session := NewSession(binding, profile)
	if err := session.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	diagnostics := session.Diagnostics()
	if len(diagnostics) != 1 || diagnostics[0].Code != model.RetargetWarningPoseJointMissing {
		t.Fatalf("diagnostic mismatch: got=%v", diagnostics)
	}

	session.Retarget(0)
	shoulder := binding.Target.LocalTransform(jointIndex(t, binding.Target, "shoulder")).Rotation
	assertQuat(t, "posed shoulder", shoulder, mmath.NewQuaternionFromDegrees(0, 0, -90), 1e-6)
}

func TestSessionRestoresExcludedChain(t *testing.T) {
	binding := newArmBinding(t, 1, 1)
	profile := &Profile{
		Name:         "exclude",
		Features:     []Feature{NewBasicFeature("arm", "arm")},
		ExcludeChain: "arm",
	}
	session := NewSession(binding, profile)
	if err := session.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if _, exists := session.ExcludedJoints()["elbow"]; !exists {
		t.Fatalf("expected elbow to be excluded: %v", session.ExcludedJoints())
	}
	binding.Source.SetLocalRotation(jointIndex(t, binding.Source, "shoulder"), mmath.NewQuaternionFromDegrees(0, 0, 90))
	session.Retarget(0)
	shoulder := binding.Target.LocalTransform(jointIndex(t, binding.Target, "shoulder")).Rotation
	assertQuat(t, "excluded shoulder", shoulder, mmath.NewQuaternion(), 1e-6)
}

func TestSessionRejectsIncompleteBinding(t *testing.T) {
	session := NewSession(&Binding{}, &Profile{})
	if err := session.Initialize(); merr.ExtractErrorID(err) != model.ErrorIDSessionState {
		t.Fatalf("expected session state error: %v", err)
	}
}

func TestSessionOptionsOverrideIterations(t *testing.T) {
	session := NewSession(newArmBinding(t, 1, 1), &Profile{}, WithMaxIterations(4), WithTolerance(0.5), WithMaxIterations(-1))
	if session.maxIterations != 4 || session.tolerance != 0.5 {
		t.Fatalf("option mismatch: got=%d/%v want=4/0.5", session.maxIterations, session.tolerance)
	}
}
