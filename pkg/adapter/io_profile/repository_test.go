// 指示: miu200521358
package io_profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
	"github.com/miu200521358/mu_retarget/pkg/usecase/retarget"
)

const testSkeletonYAML = `name: %s
joints:
  - name: hips
    position: [0, 1, 0]
  - name: shoulder
    parent: hips
    position: [0, 0.5, 0]
  - name: elbow
    parent: shoulder
    position: [1, 0, 0]
    rotation: [0, 0, -45]
  - name: wrist
    parent: elbow
    position: [1, 0, 0]
`

const testRigYAML = `name: humanoid
chains:
  - name: hips
    joints: [hips]
  - name: arm
    joints: [shoulder, elbow, wrist]
`

const testProfileYAML = `name: sample
source:
  skeleton: source_skeleton.yaml
  rig: rig.yaml
target:
  skeleton: target_skeleton.yaml
  rig: rig.yaml
  pose:
    name: a-pose
    joints:
      shoulder:
        rotation: [0, 0, -30]
clip: clips/walk.yaml
exclude_chain: hips
features:
  - kind: basic
    source_chain: hips
    target_chain: hips
    translation_weight: 1
  - kind: ik
    name: arm ik
    source_chain: arm
    target_chain: arm
    ik_weight: 0.5
    pole_offset: [0, 0, 1]
    max_iterations: 8
  - kind: copy
    copy_from: arm
    copy_to: arm
    feature_weight: 0.25
  - kind: bone_pose
    target_chain: arm
    rotation: [0, 90, 0]
  - kind: weapon_grip
    source_right_arm: arm
    source_left_arm: arm
    source_weapon: hips
    target_right_arm: arm
    target_left_arm: arm
    target_weapon: hips
    weapon_offset: [0, 0, 0.1]
`

func writeTestFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func writeTestProfile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "source_skeleton.yaml"), fmt.Sprintf(testSkeletonYAML, "source"))
	writeTestFile(t, filepath.Join(dir, "target_skeleton.yaml"), fmt.Sprintf(testSkeletonYAML, "target"))
	writeTestFile(t, filepath.Join(dir, "rig.yaml"), testRigYAML)
	path := filepath.Join(dir, "profile.yaml")
	writeTestFile(t, path, testProfileYAML)
	return path
}

func TestProfileRepositoryCanLoad(t *testing.T) {
	repository := NewProfileRepository()
	if !repository.CanLoad("profile.YAML") || !repository.CanLoad("clip.yml") {
		t.Fatalf("expected yaml to be loadable")
	}
	if repository.CanLoad("clip.vmd") {
		t.Fatalf("expected vmd to be not loadable")
	}
}

func TestProfileRepositoryLoadProfile(t *testing.T) {
	path := writeTestProfile(t)
	setup, err := NewProfileRepository().LoadProfile(path)
	if err != nil {
		t.Fatalf("load profile failed: %v", err)
	}
	if setup.ClipPath != filepath.Join(filepath.Dir(path), "clips", "walk.yaml") {
		t.Fatalf("clip path mismatch: got=%s", setup.ClipPath)
	}
	if setup.Binding.Source.Name != "source" || setup.Binding.Target.Len() != 4 {
		t.Fatalf("skeleton mismatch: got=%s/%d", setup.Binding.Source.Name, setup.Binding.Target.Len())
	}
	elbow, _ := setup.Binding.Target.IndexOf("elbow")
	elbowRotation := setup.Binding.Target.LocalTransform(elbow).Rotation
	if !elbowRotation.NearEquals(mmath.NewQuaternionFromDegrees(0, 0, -45), 1e-9) {
		t.Fatalf("elbow rotation mismatch: got=%v", elbowRotation)
	}
	if chain, exists := setup.Binding.TargetRig.Chain("arm"); !exists || len(chain.Joints) != 3 {
		t.Fatalf("rig chain mismatch: got=%v", chain)
	}

	profile := setup.Profile
	if profile.Name != "sample" || profile.ExcludeChain != "hips" {
		t.Fatalf("profile mismatch: got=%s/%s", profile.Name, profile.ExcludeChain)
	}
	if profile.SourcePose != nil || profile.TargetPose == nil || profile.TargetPose.Name != "a-pose" {
		t.Fatalf("pose mismatch: got=%v/%v", profile.SourcePose, profile.TargetPose)
	}
	wantKinds := []retarget.FeatureKind{
		retarget.FEATURE_KIND_BASIC,
		retarget.FEATURE_KIND_IK,
		retarget.FEATURE_KIND_COPY,
		retarget.FEATURE_KIND_BONE_POSE,
		retarget.FEATURE_KIND_WEAPON_GRIP,
	}
	if len(profile.Features) != len(wantKinds) {
		t.Fatalf("feature count mismatch: got=%d want=%d", len(profile.Features), len(wantKinds))
	}
	for i, want := range wantKinds {
		if got := profile.Features[i].Kind(); got != want {
			t.Fatalf("feature kind mismatch: index=%d got=%v want=%v", i, got, want)
		}
	}

	basic := profile.Features[0].(retarget.BasicFeature)
	if basic.TranslationWeight != 1 || basic.FeatureWeight != 1 || basic.ScaleWeight != 1 {
		t.Fatalf("basic weight mismatch: got=%+v", basic)
	}
	ik := profile.Features[1].(retarget.IKFeature)
	if ik.Name() != "arm ik" || ik.IKWeight != 0.5 || ik.MaxIterations != 8 {
		t.Fatalf("ik mismatch: got=%+v", ik)
	}
	if !ik.PoleOffset.NearEquals(mmath.UNIT_Z_VEC3, 1e-12) {
		t.Fatalf("pole offset mismatch: got=%v", ik.PoleOffset)
	}
	if copyFeature := profile.Features[2].(retarget.CopyFeature); copyFeature.FeatureWeight != 0.25 {
		t.Fatalf("copy weight mismatch: got=%v", copyFeature.FeatureWeight)
	}
	weapon := profile.Features[4].(retarget.WeaponGripFeature)
	if err := weapon.Validate(); err != nil || weapon.WeaponOffset.Z != 0.1 {
		t.Fatalf("weapon grip mismatch: got=%+v err=%v", weapon, err)
	}
}

func TestProfileRepositoryRejectsUnknownFeatureKind(t *testing.T) {
	path := writeTestProfile(t)
	writeTestFile(t, path, `name: broken
source: {skeleton: source_skeleton.yaml, rig: rig.yaml}
target: {skeleton: target_skeleton.yaml, rig: rig.yaml}
features:
  - kind: physics
`)
	_, err := NewProfileRepository().LoadProfile(path)
	if merr.ExtractErrorID(err) != model.ErrorIDFileParseFailed {
		t.Fatalf("expected parse failed: %v", err)
	}
}

func TestProfileRepositoryRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.yaml")
	writeTestFile(t, path, "name: rig\nchian: []\n")
	_, err := NewProfileRepository().LoadRig(path)
	if merr.ExtractErrorID(err) != model.ErrorIDFileParseFailed {
		t.Fatalf("expected parse failed: %v", err)
	}
}

func TestProfileRepositoryRejectsUnknownFeatureKey(t *testing.T) {
	path := writeTestProfile(t)
	content := strings.Replace(testProfileYAML, "    translation_weight: 1\n", "    translaton_weight: 1\n", 1)
	if content == testProfileYAML {
		t.Fatalf("fixture does not contain translation_weight")
	}
	writeTestFile(t, path, content)

	_, err := NewProfileRepository().LoadProfile(path)
	if merr.ExtractErrorID(err) != model.ErrorIDFileParseFailed {
		t.Fatalf("expected parse failed: %v", err)
	}
	if !strings.Contains(err.Error(), "translaton_weight") {
		t.Fatalf("error should name the unknown key: %v", err)
	}
}

func TestProfileRepositoryErrors(t *testing.T) {
	repository := NewProfileRepository()
	if _, err := repository.LoadClip("clip.vmd"); merr.ExtractErrorID(err) != model.ErrorIDFileExtInvalid {
		t.Fatalf("expected ext invalid: %v", err)
	}
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := repository.LoadProfile(missing); merr.ExtractErrorID(err) != model.ErrorIDFileNotFound {
		t.Fatalf("expected file not found: %v", err)
	}
	empty := filepath.Join(t.TempDir(), "empty.yaml")
	writeTestFile(t, empty, "")
	if _, err := repository.LoadSkeleton(empty); merr.ExtractErrorID(err) != model.ErrorIDFileParseFailed {
		t.Fatalf("expected parse failed: %v", err)
	}
}

func TestProfileRepositorySaveAndLoadClip(t *testing.T) {
	clip := model.NewClip("walk", 24)
	root := mmath.NewTransformFromPosRot(mmath.NewVec3(0.5, 0, 0), mmath.NewQuaternionFromDegrees(0, 90, 0))
	clip.AddFrame(model.ClipFrame{
		Time: 0.5,
		Root: &root,
		Joints: map[string]mmath.Transform{
			"hips": mmath.NewTransformFromPosRot(mmath.NewVec3(0, 1, 0), mmath.NewQuaternionFromDegrees(10, 20, 30)),
		},
	})
	clip.AddFrame(model.ClipFrame{Time: 0})

	path := filepath.Join(t.TempDir(), "out", "walk_retarget.yaml")
	repository := NewProfileRepository()
	if err := repository.SaveClip(path, clip); err != nil {
		t.Fatalf("save clip failed: %v", err)
	}
	loaded, err := repository.LoadClip(path)
	if err != nil {
		t.Fatalf("load clip failed: %v", err)
	}
	if loaded.Name != "walk" || loaded.Fps != 24 || loaded.FrameCount() != 2 {
		t.Fatalf("clip mismatch: got=%s/%v/%d", loaded.Name, loaded.Fps, loaded.FrameCount())
	}
	frame := loaded.Frames[1]
	hips := frame.Joints["hips"]
	if !hips.Rotation.NearEquals(mmath.NewQuaternionFromDegrees(10, 20, 30), 1e-9) {
		t.Fatalf("hips rotation mismatch: got=%v", hips.Rotation)
	}
	if frame.Root == nil || !frame.Root.Position.NearEquals(root.Position, 1e-12) {
		t.Fatalf("root mismatch: got=%v", frame.Root)
	}
	if loaded.Frames[0].Root != nil {
		t.Fatalf("unexpected root on first frame: %v", loaded.Frames[0].Root)
	}
}
