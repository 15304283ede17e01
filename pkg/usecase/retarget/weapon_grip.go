// 指示: miu200521358
package retarget

import (
	"fmt"

	"github.com/miu200521358/mu_retarget/pkg/domain/ik"
	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
)

// WeaponGripFeature は武器ボーンと両腕を同時に転写し、手の目標を武器ボーン基準で求める設定。
type WeaponGripFeature struct {
	DisplayName     string
	SourceRightArm  string
	SourceLeftArm   string
	SourceWeapon    string
	TargetRightArm  string
	TargetLeftArm   string
	TargetWeapon    string
	RightHandOffset mmath.Vec3
	LeftHandOffset  mmath.Vec3
	WeaponOffset    mmath.Vec3
	RightPoleOffset mmath.Vec3
	LeftPoleOffset  mmath.Vec3
	FeatureWeight   float64
}

// Kind は機能種別を返す。
func (f WeaponGripFeature) Kind() FeatureKind {
	return FEATURE_KIND_WEAPON_GRIP
}

// Name は表示名を返す。
func (f WeaponGripFeature) Name() string {
	return displayName(f.DisplayName, "Weapon Grip Retarget")
}

// Weight は機能全体の重みを返す。
func (f WeaponGripFeature) Weight() float64 {
	return f.FeatureWeight
}

// Validate は6チェーンの指定を検証する。
func (f WeaponGripFeature) Validate() error {
	for _, chain := range []struct {
		key  string
		name string
	}{
		{"source_right_arm", f.SourceRightArm},
		{"source_left_arm", f.SourceLeftArm},
		{"source_weapon", f.SourceWeapon},
		{"target_right_arm", f.TargetRightArm},
		{"target_left_arm", f.TargetLeftArm},
		{"target_weapon", f.TargetWeapon},
	} {
		if chain.name == "" {
			return merr.Errorf(model.ErrorIDFeatureInvalid, "チェーンが未指定です: %s %s", f.Name(), chain.key)
		}
	}
	return nil
}

// snapshot は重みを丸めた複製を返す。
func (f WeaponGripFeature) snapshot() (Feature, bool) {
	copied := f
	changed := clampWeight(&copied.FeatureWeight)
	return copied, changed
}

// buildState は6チェーンを解決し、キャラクタールート基準でキャッシュする。
func (f WeaponGripFeature) buildState(ctx *buildContext) FeatureState {
	binding := ctx.binding
	resolver := ctx.resolver
	state := &weaponGripState{binding: binding, settings: f}
	state.sourceWeapon = resolver.resolve(binding.Source, binding.SourceRig, f.SourceWeapon)
	state.targetWeapon = resolver.resolve(binding.Target, binding.TargetRig, f.TargetWeapon)
	state.right = weaponArm{
		side:       "right",
		source:     resolver.resolve(binding.Source, binding.SourceRig, f.SourceRightArm),
		target:     resolver.resolve(binding.Target, binding.TargetRig, f.TargetRightArm),
		handOffset: f.RightHandOffset,
		poleOffset: f.RightPoleOffset,
	}
	state.left = weaponArm{
		side:       "left",
		source:     resolver.resolve(binding.Source, binding.SourceRig, f.SourceLeftArm),
		target:     resolver.resolve(binding.Target, binding.TargetRig, f.TargetLeftArm),
		handOffset: f.LeftHandOffset,
		poleOffset: f.LeftPoleOffset,
	}
	if resolver.failed {
		return nil
	}
	for _, pair := range []struct {
		chain    *model.BoneChain
		skeleton *model.Skeleton
	}{
		{state.sourceWeapon, binding.Source},
		{state.right.source, binding.Source},
		{state.left.source, binding.Source},
		{state.targetWeapon, binding.Target},
		{state.right.target, binding.Target},
		{state.left.target, binding.Target},
	} {
		if !resolver.cache(pair.chain, pair.skeleton, model.SPACE_COMPONENT) {
			return nil
		}
	}
	if state.sourceWeapon.Len() != state.targetWeapon.Len() {
		resolver.warn(model.RetargetWarningChainSizeMismatch,
			fmt.Sprintf("武器チェーンの関節数が異なります: source=%d target=%d",
				state.sourceWeapon.Len(), state.targetWeapon.Len()))
	}
	for _, arm := range []*weaponArm{&state.right, &state.left} {
		if arm.source.Len() != arm.target.Len() {
			resolver.warn(model.RetargetWarningChainSizeMismatch,
				fmt.Sprintf("%s腕チェーンの関節数が異なるためスキップします: source=%d target=%d",
					arm.side, arm.source.Len(), arm.target.Len()))
		} else if arm.target.Len() < ik.MinChainJoints {
			resolver.warn(model.RetargetWarningChainTooShort,
				fmt.Sprintf("%s腕チェーンは3関節以上が必要なため回転のみ転写します", arm.side))
		}
	}
	state.stateBase = newStateBase(f, ctx)
	return state
}

// weaponArm は片腕分のチェーンとオフセット。
type weaponArm struct {
	side       string
	source     *model.BoneChain
	target     *model.BoneChain
	handOffset mmath.Vec3
	poleOffset mmath.Vec3
}

// weaponGripState は武器グリップの実行状態。
type weaponGripState struct {
	stateBase
	binding      *Binding
	settings     WeaponGripFeature
	sourceWeapon *model.BoneChain
	targetWeapon *model.BoneChain
	right        weaponArm
	left         weaponArm
}

// IsValid は6チェーンが揃っているか判定する。
func (s *weaponGripState) IsValid() bool {
	if s.destroyed {
		return false
	}
	for _, chain := range []*model.BoneChain{
		s.sourceWeapon, s.targetWeapon, s.right.source, s.right.target, s.left.source, s.left.target,
	} {
		if !chain.IsValid() || !chain.IsCached() {
			return false
		}
	}
	return true
}

// Retarget は武器ボーンを転写し、両腕をIKで武器へ合わせる。
func (s *weaponGripState) Retarget(float64) {
	if !s.IsValid() || s.settings.FeatureWeight <= 0 {
		return
	}
	weight := s.settings.FeatureWeight
	source := s.binding.Source
	target := s.binding.Target

	s.retargetRotations(s.sourceWeapon, s.targetWeapon)
	sourceWeapon := s.sourceWeapon.First().Index
	targetWeapon := s.targetWeapon.First().Index
	position := source.Root.InverseTransformPoint(source.WorldPosition(sourceWeapon), true)
	position = position.Added(s.settings.WeaponOffset)
	position = s.targetWeapon.CachedTransforms[0].Position.Lerp(position, weight)
	target.SetWorldPosition(targetWeapon, target.Root.TransformPoint(position, true))

	s.applyArm(&s.right)
	s.applyArm(&s.left)
}

// retargetRotations は関節数が同じチェーン間で回転差分を転写する。
func (s *weaponGripState) retargetRotations(from *model.BoneChain, to *model.BoneChain) bool {
	if from.Len() != to.Len() {
		return false
	}
	source := s.binding.Source
	target := s.binding.Target
	weight := s.settings.FeatureWeight
	for i := range to.Joints {
		cachedSource := from.CachedTransforms[i]
		cachedTarget := to.CachedTransforms[i]
		base := target.Root.Rotation.Muled(cachedTarget.Rotation)
		delta := cachedSource.Rotation.Inverted().Muled(cachedTarget.Rotation)
		sourceComponent := source.ComponentTransform(from.Joints[i].Index)
		rotation := target.Root.Rotation.Muled(sourceComponent.Rotation.Muled(delta))
		target.SetWorldRotation(to.Joints[i].Index, base.Slerp(rotation, weight))
	}
	return true
}

// applyArm は腕の回転を転写し、武器ボーン基準の手の目標へ2ボーンIKで合わせる。
func (s *weaponGripState) applyArm(arm *weaponArm) {
	if !s.retargetRotations(arm.source, arm.target) || arm.target.Len() < ik.MinChainJoints {
		return
	}
	source := s.binding.Source
	target := s.binding.Target
	weight := s.settings.FeatureWeight
	count := arm.target.Len()
	root := arm.target.Joints[count-3].Index
	mid := arm.target.Joints[count-2].Index
	tip := arm.target.Joints[count-1].Index

	tipWorld := target.WorldTransform(tip)
	goal := mmath.NewTransformFromPosRot(source.WorldPosition(arm.source.Last().Index), tipWorld.Rotation)
	relative := source.WorldTransform(s.sourceWeapon.First().Index).GetRelativeTransform(goal, false)
	goal = target.WorldTransform(s.targetWeapon.First().Index).GetWorldTransform(relative, false)
	goal.Position = goal.TransformPoint(arm.handOffset, false)

	midWorld := target.WorldTransform(mid)
	data := &ik.TwoBoneIKData{
		Root:       target.WorldTransform(root),
		Mid:        midWorld,
		Tip:        tipWorld,
		Target:     goal,
		Hint:       target.Root.MoveInSpace(midWorld.Position, arm.poleOffset, 1),
		HasHint:    true,
		HintWeight: 1,
		PosWeight:  weight,
		RotWeight:  ik.BlendRotation(weight),
	}
	if !ik.SolveTwoBoneIK(data) {
		logIKVerbose("武器グリップIKをスキップ(長さ0のボーン): side=%s", arm.side)
		return
	}
	target.SetWorldRotation(root, data.Root.Rotation)
	target.SetWorldRotation(mid, data.Mid.Rotation)
	target.SetWorldRotation(tip, data.Tip.Rotation)
}

// Destroy はチェーン参照を解放する。
func (s *weaponGripState) Destroy() {
	s.sourceWeapon = nil
	s.targetWeapon = nil
	s.right = weaponArm{}
	s.left = weaponArm{}
	s.destroyed = true
}
