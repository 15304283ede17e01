// 指示: miu200521358
package retarget

import (
	"github.com/miu200521358/mu_retarget/pkg/domain/ik"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
)

// FeatureStatus はリタゲ状態のライフサイクル。
type FeatureStatus int

const (
	// FEATURE_STATUS_UNINITIALIZED は未初期化。
	FEATURE_STATUS_UNINITIALIZED FeatureStatus = iota
	// FEATURE_STATUS_INITIALIZED はチェーン解決と基準姿勢キャッシュ済み。
	FEATURE_STATUS_INITIALIZED
	// FEATURE_STATUS_VALID は評価可能。
	FEATURE_STATUS_VALID
	// FEATURE_STATUS_INVALID は評価対象外。
	FEATURE_STATUS_INVALID
	// FEATURE_STATUS_DESTROYED は破棄済み。
	FEATURE_STATUS_DESTROYED
)

// String は状態名を返す。
func (s FeatureStatus) String() string {
	switch s {
	case FEATURE_STATUS_UNINITIALIZED:
		return "uninitialized"
	case FEATURE_STATUS_INITIALIZED:
		return "initialized"
	case FEATURE_STATUS_VALID:
		return "valid"
	case FEATURE_STATUS_INVALID:
		return "invalid"
	case FEATURE_STATUS_DESTROYED:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Binding はリタゲ元・先の骨格とリグの組。
type Binding struct {
	Source    *model.Skeleton
	Target    *model.Skeleton
	SourceRig *model.Rig
	TargetRig *model.Rig
}

// Validate は骨格とリグが揃っているか検証する。
func (b *Binding) Validate() error {
	if b == nil {
		return merr.NewError(model.ErrorIDSessionState, "バインディングがありません", nil)
	}
	if b.Source == nil || b.Target == nil {
		return merr.NewError(model.ErrorIDSessionState, "リタゲ元またはリタゲ先の骨格がありません", nil)
	}
	if b.SourceRig == nil || b.TargetRig == nil {
		return merr.NewError(model.ErrorIDSessionState, "リタゲ元またはリタゲ先のリグがありません", nil)
	}
	return nil
}

// FeatureState は1機能分の実行状態。基準姿勢は生成時に一度だけキャッシュされる。
type FeatureState interface {
	// Name は機能の表示名を返す。
	Name() string
	// Kind は機能種別を返す。
	Kind() FeatureKind
	// IsValid は今フレーム評価可能か判定する。
	IsValid() bool
	// Retarget はリタゲ先の姿勢を更新する。
	Retarget(time float64)
	// Diagnostics は初期化時の設定不備を返す。
	Diagnostics() []Diagnostic
	// Destroy は作業領域を解放する。
	Destroy()
}

// buildContext は状態生成時の共有設定。
type buildContext struct {
	binding       *Binding
	maxIterations int
	tolerance     float64
	resolver      *chainResolver
}

// newBuildContext は既定の反復設定で生成文脈を作る。
func newBuildContext(binding *Binding, feature string, maxIterations int, tolerance float64) *buildContext {
	if maxIterations <= 0 {
		maxIterations = ik.DefaultStateMaxIterations
	}
	if tolerance <= 0 {
		tolerance = ik.DefaultTolerance
	}
	return &buildContext{
		binding:       binding,
		maxIterations: maxIterations,
		tolerance:     tolerance,
		resolver:      &chainResolver{feature: feature},
	}
}

// BuildFeatureState はチェーン解決と基準姿勢キャッシュを行い実行状態を生成する。
// 設定不備の場合は無効状態とエラーを返す。
func BuildFeatureState(feature Feature, binding *Binding) (FeatureState, error) {
	return buildFeatureState(feature, binding, ik.DefaultStateMaxIterations, ik.DefaultTolerance)
}

// buildFeatureState は反復設定を指定して実行状態を生成する。
func buildFeatureState(feature Feature, binding *Binding, maxIterations int, tolerance float64) (FeatureState, error) {
	if feature == nil {
		return nil, merr.NewError(model.ErrorIDFeatureInvalid, "リタゲ機能がありません", nil)
	}
	if err := binding.Validate(); err != nil {
		return nil, err
	}
	ctx := newBuildContext(binding, feature.Name(), maxIterations, tolerance)
	if err := feature.Validate(); err != nil {
		ctx.resolver.fail(model.RetargetWarningChainUnresolved, err.Error())
		return newInvalidState(feature, ctx.resolver.diagnostics), err
	}
	state := feature.buildState(ctx)
	if ctx.resolver.failed {
		if state != nil {
			state.Destroy()
		}
		return newInvalidState(feature, ctx.resolver.diagnostics), ctx.resolver.err()
	}
	return state, nil
}

// stateBase は各状態の共通部分。
type stateBase struct {
	name        string
	kind        FeatureKind
	diagnostics []Diagnostic
	destroyed   bool
}

// newStateBase は共通部分を生成する。
func newStateBase(feature Feature, ctx *buildContext) stateBase {
	return stateBase{name: feature.Name(), kind: feature.Kind(), diagnostics: ctx.resolver.diagnostics}
}

// Name は表示名を返す。
func (b *stateBase) Name() string {
	return b.name
}

// Kind は機能種別を返す。
func (b *stateBase) Kind() FeatureKind {
	return b.kind
}

// Diagnostics は初期化時の設定不備を返す。
func (b *stateBase) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), b.diagnostics...)
}

// invalidState は設定不備で評価されない状態。
type invalidState struct {
	stateBase
}

// newInvalidState は無効状態を生成する。
func newInvalidState(feature Feature, diagnostics []Diagnostic) *invalidState {
	return &invalidState{stateBase: stateBase{
		name:        feature.Name(),
		kind:        feature.Kind(),
		diagnostics: diagnostics,
	}}
}

// IsValid は常に false。
func (s *invalidState) IsValid() bool {
	return false
}

// Retarget は何もしない。
func (s *invalidState) Retarget(float64) {}

// Destroy は破棄済みにする。
func (s *invalidState) Destroy() {
	s.destroyed = true
}
