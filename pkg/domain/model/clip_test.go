// 指示: miu200521358
package model

import (
	"reflect"
	"testing"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
)

func TestClipAddFrameKeepsOrder(t *testing.T) {
	clip := NewClip("walk", 30)
	clip.AddFrame(ClipFrame{Time: 1})
	clip.AddFrame(ClipFrame{Time: 0})
	clip.AddFrame(ClipFrame{Time: 0.5})
	clip.AddFrame(ClipFrame{Time: 0.5})

	if clip.FrameCount() != 3 {
		t.Fatalf("frame count mismatch: got=%d want=3", clip.FrameCount())
	}
	if clip.Frames[0].Time != 0 || clip.Frames[2].Time != 1 || clip.Duration() != 1 {
		t.Fatalf("frame order mismatch: %+v", clip.Frames)
	}
}

func TestClipSampleInterpolates(t *testing.T) {
	skeleton := newArmSkeleton(t)
	clip := NewClip("swing", 30)
	start := mmath.NewTransformFromPosRot(mmath.NewVec3(1, 0, 0), mmath.NewQuaternion())
	end := mmath.NewTransformFromPosRot(mmath.NewVec3(3, 0, 0), mmath.NewQuaternionFromDegrees(0, 0, 90))
	clip.AddFrame(ClipFrame{Time: 0, Joints: map[string]mmath.Transform{"elbow": start}})
	clip.AddFrame(ClipFrame{Time: 1, Joints: map[string]mmath.Transform{"elbow": end}})

	clip.Sample(skeleton, 0.5)
	elbow, _ := skeleton.IndexOf("elbow")
	local := skeleton.LocalTransform(elbow)
	if !local.Position.NearEquals(mmath.NewVec3(2, 0, 0), 1e-9) {
		t.Fatalf("position mismatch: got=%v", local.Position)
	}
	if !local.Rotation.NearEquals(mmath.NewQuaternionFromDegrees(0, 0, 45), 1e-9) {
		t.Fatalf("rotation mismatch: got=%v", local.Rotation)
	}

	clip.Sample(skeleton, 5)
	if !skeleton.LocalTransform(elbow).Rotation.NearEquals(end.Rotation, 1e-9) {
		t.Fatalf("sample past end should clamp")
	}
}

func TestPoseApplyReportsMissing(t *testing.T) {
	skeleton := newArmSkeleton(t)
	pose := NewPose("A")
	pose.SetRotation("shoulder", mmath.NewQuaternionFromDegrees(0, 0, -40))
	pose.SetRotation("tail", mmath.NewQuaternion())

	missing := pose.Apply(skeleton)
	if !reflect.DeepEqual(missing, []string{"tail"}) {
		t.Fatalf("missing mismatch: got=%v", missing)
	}
	if !skeleton.LocalTransform(0).Rotation.NearEquals(mmath.NewQuaternionFromDegrees(0, 0, -40), 1e-9) {
		t.Fatalf("pose rotation mismatch")
	}
}
