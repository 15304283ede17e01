// 指示: miu200521358
package retarget

import (
	"fmt"

	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
)

// CopyFeature はリタゲ元チェーンのワールド位置と回転をそのまま写す設定。
type CopyFeature struct {
	DisplayName   string
	CopyFrom      string
	CopyTo        string
	FeatureWeight float64
}

// NewCopyFeature は既定値でコピー設定を生成する。
func NewCopyFeature(copyFrom string, copyTo string) CopyFeature {
	return CopyFeature{CopyFrom: copyFrom, CopyTo: copyTo, FeatureWeight: 1}
}

// Kind は機能種別を返す。
func (f CopyFeature) Kind() FeatureKind {
	return FEATURE_KIND_COPY
}

// Name は表示名を返す。
func (f CopyFeature) Name() string {
	return displayName(f.DisplayName, fmt.Sprintf("Copy from: %s, to: %s", f.CopyFrom, f.CopyTo))
}

// Weight は機能全体の重みを返す。
func (f CopyFeature) Weight() float64 {
	return f.FeatureWeight
}

// Validate はチェーン名の指定を検証する。
func (f CopyFeature) Validate() error {
	if f.CopyFrom == "" || f.CopyTo == "" {
		return merr.Errorf(model.ErrorIDFeatureInvalid, "コピー元またはコピー先のチェーンが未指定です: %s", f.Name())
	}
	return nil
}

// snapshot は重みを丸めた複製を返す。
func (f CopyFeature) snapshot() (Feature, bool) {
	copied := f
	changed := clampWeight(&copied.FeatureWeight)
	return copied, changed
}

// buildState はコピー状態を生成する。
func (f CopyFeature) buildState(ctx *buildContext) FeatureState {
	binding := ctx.binding
	from := ctx.resolver.resolve(binding.Source, binding.SourceRig, f.CopyFrom)
	to := ctx.resolver.resolve(binding.Target, binding.TargetRig, f.CopyTo)
	if from == nil || to == nil {
		return nil
	}
	if from.Len() != to.Len() {
		ctx.resolver.warn(model.RetargetWarningChainSizeMismatch,
			fmt.Sprintf("関節数が異なるため短い方に合わせます: from=%d to=%d", from.Len(), to.Len()))
	}
	return &copyState{stateBase: newStateBase(f, ctx), binding: binding, from: from, to: to, weight: f.FeatureWeight}
}

// copyState はコピーの実行状態。
type copyState struct {
	stateBase
	binding *Binding
	from    *model.BoneChain
	to      *model.BoneChain
	weight  float64
}

// IsValid は評価可能か判定する。
func (s *copyState) IsValid() bool {
	return !s.destroyed && s.from.IsValid() && s.to.IsValid()
}

// Retarget は関節順にワールド位置と回転を写す。スケールは変更しない。
func (s *copyState) Retarget(float64) {
	if !s.IsValid() || s.weight <= 0 {
		return
	}
	count := min(s.from.Len(), s.to.Len())
	for i := 0; i < count; i++ {
		world := s.binding.Source.WorldTransform(s.from.Joints[i].Index)
		target := s.to.Joints[i].Index
		s.binding.Target.SetWorldRotation(target, world.Rotation)
		s.binding.Target.SetWorldPosition(target, world.Position)
	}
}

// Destroy はチェーン参照を解放する。
func (s *copyState) Destroy() {
	s.from = nil
	s.to = nil
	s.destroyed = true
}
