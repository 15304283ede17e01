// 指示: miu200521358
package retarget

import (
	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
)

// BonePoseFeature はリタゲ先チェーンへ静的な回転を重ねる設定。リタゲ元は参照しない。
type BonePoseFeature struct {
	DisplayName   string
	TargetChain   string
	RotationPose  mmath.Quaternion
	FeatureWeight float64
}

// NewBonePoseFeature は既定値で回転上書き設定を生成する。
func NewBonePoseFeature(targetChain string, rotationPose mmath.Quaternion) BonePoseFeature {
	return BonePoseFeature{TargetChain: targetChain, RotationPose: rotationPose.Normalized(), FeatureWeight: 1}
}

// Kind は機能種別を返す。
func (f BonePoseFeature) Kind() FeatureKind {
	return FEATURE_KIND_BONE_POSE
}

// Name は表示名を返す。
func (f BonePoseFeature) Name() string {
	if f.TargetChain == "" {
		return displayName(f.DisplayName, "Bone Poser")
	}
	return displayName(f.DisplayName, "Bone Poser for "+f.TargetChain)
}

// Weight は機能全体の重みを返す。
func (f BonePoseFeature) Weight() float64 {
	return f.FeatureWeight
}

// Validate はチェーン名の指定を検証する。
func (f BonePoseFeature) Validate() error {
	if f.TargetChain == "" {
		return merr.Errorf(model.ErrorIDFeatureInvalid, "リタゲ先のチェーンが未指定です: %s", f.Name())
	}
	return nil
}

// snapshot は重みを丸めた複製を返す。
func (f BonePoseFeature) snapshot() (Feature, bool) {
	copied := f
	copied.RotationPose = copied.RotationPose.Normalized()
	changed := clampWeight(&copied.FeatureWeight)
	return copied, changed
}

// buildState は回転上書き状態を生成する。基準姿勢は親ボーン空間でキャッシュする。
func (f BonePoseFeature) buildState(ctx *buildContext) FeatureState {
	binding := ctx.binding
	chain := ctx.resolver.resolve(binding.Target, binding.TargetRig, f.TargetChain)
	if chain == nil || !ctx.resolver.cache(chain, binding.Target, model.SPACE_PARENT_BONE) {
		return nil
	}
	return &bonePoseState{
		stateBase: newStateBase(f, ctx),
		skeleton:  binding.Target,
		chain:     chain,
		pose:      f.RotationPose.Normalized(),
		weight:    f.FeatureWeight,
	}
}

// bonePoseState は回転上書きの実行状態。
type bonePoseState struct {
	stateBase
	skeleton *model.Skeleton
	chain    *model.BoneChain
	pose     mmath.Quaternion
	weight   float64
}

// IsValid は評価可能か判定する。
func (s *bonePoseState) IsValid() bool {
	return !s.destroyed && s.chain.IsValid() && s.chain.IsCached()
}

// Retarget は基準ローカル回転へ静的回転を重みで重ねる。
func (s *bonePoseState) Retarget(float64) {
	if !s.IsValid() || s.weight <= 0 {
		return
	}
	for i, joint := range s.chain.Joints {
		bind := s.chain.CachedTransforms[i].Rotation
		s.skeleton.SetLocalRotation(joint.Index, bind.Slerp(bind.Muled(s.pose), s.weight))
	}
}

// Destroy はチェーン参照を解放する。
func (s *bonePoseState) Destroy() {
	s.chain = nil
	s.destroyed = true
}
