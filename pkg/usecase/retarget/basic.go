// 指示: miu200521358
package retarget

import (
	"math"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
)

// BasicFeature は回転と移動をチェーン間で転写する設定。
type BasicFeature struct {
	DisplayName       string
	SourceChain       string
	TargetChain       string
	FeatureWeight     float64
	ScaleWeight       float64
	TranslationWeight float64
	Offset            mmath.Vec3
}

// NewBasicFeature は既定値で転写設定を生成する。移動は既定で無効。
func NewBasicFeature(sourceChain string, targetChain string) BasicFeature {
	return BasicFeature{
		SourceChain:   sourceChain,
		TargetChain:   targetChain,
		FeatureWeight: 1,
		ScaleWeight:   1,
	}
}

// Kind は機能種別を返す。
func (f BasicFeature) Kind() FeatureKind {
	return FEATURE_KIND_BASIC
}

// Name は表示名を返す。
func (f BasicFeature) Name() string {
	return displayName(f.DisplayName, "Basic Retarget: "+f.TargetChain)
}

// Weight は機能全体の重みを返す。
func (f BasicFeature) Weight() float64 {
	return f.FeatureWeight
}

// Validate はチェーン名の指定を検証する。
func (f BasicFeature) Validate() error {
	if f.SourceChain == "" || f.TargetChain == "" {
		return merr.Errorf(model.ErrorIDFeatureInvalid, "リタゲ元またはリタゲ先のチェーンが未指定です: %s", f.Name())
	}
	return nil
}

// snapshot は重みを丸めた複製を返す。
func (f BasicFeature) snapshot() (Feature, bool) {
	copied := f
	changed := copied.clampWeights()
	return copied, changed
}

// clampWeights は重みを 0-1 に丸める。
func (f *BasicFeature) clampWeights() bool {
	changed := clampWeight(&f.FeatureWeight)
	changed = clampWeight(&f.ScaleWeight) || changed
	changed = clampWeight(&f.TranslationWeight) || changed
	return changed
}

// buildState は転写状態を生成する。
func (f BasicFeature) buildState(ctx *buildContext) FeatureState {
	kernel := newBasicKernel(ctx, f)
	if kernel == nil {
		return nil
	}
	return &basicState{stateBase: newStateBase(f, ctx), kernel: kernel}
}

// buildJob は転写ジョブを生成する。
func (f BasicFeature) buildJob(ctx *buildContext) Job {
	kernel := newBasicKernel(ctx, f)
	if kernel == nil {
		return nil
	}
	return &basicJob{name: f.Name(), kernel: kernel}
}

// MapChainIndex は関節数の異なるチェーン間でリタゲ元indexをリタゲ先indexへ比例対応させる。
func MapChainIndex(sourceIndex int, sourceCount int, targetCount int) int {
	if targetCount <= 1 || sourceCount <= 1 {
		return 0
	}
	if sourceCount == targetCount {
		return mmath.ClampInt(sourceIndex, 0, targetCount-1)
	}
	index := int(math.Floor(float64(targetCount-1) * (float64(sourceIndex) / float64(sourceCount-1))))
	return mmath.ClampInt(index, 0, targetCount-1)
}

// ChainScale はチェーン長の比を返す。リタゲ元の長さがほぼ0なら1。
func ChainScale(sourceLength float64, targetLength float64) float64 {
	if mmath.NearZero(sourceLength) {
		return 1
	}
	return targetLength / sourceLength
}

// basicKernel は状態とジョブで共有する転写処理。
type basicKernel struct {
	binding    *Binding
	source     *model.BoneChain
	target     *model.BoneChain
	bindLocals []mmath.Transform
	undriven   []int
	chainScale float64
	settings   BasicFeature
}

// newBasicKernel はチェーンを解決し、キャラクタールート基準で基準姿勢をキャッシュする。
func newBasicKernel(ctx *buildContext, settings BasicFeature) *basicKernel {
	binding := ctx.binding
	source := ctx.resolver.resolve(binding.Source, binding.SourceRig, settings.SourceChain)
	target := ctx.resolver.resolve(binding.Target, binding.TargetRig, settings.TargetChain)
	if source == nil || target == nil {
		return nil
	}
	if !ctx.resolver.cache(source, binding.Source, model.SPACE_COMPONENT) ||
		!ctx.resolver.cache(target, binding.Target, model.SPACE_COMPONENT) {
		return nil
	}
	kernel := &basicKernel{
		binding:    binding,
		source:     source,
		target:     target,
		bindLocals: make([]mmath.Transform, 0, target.Len()),
		chainScale: ChainScale(source.Length(binding.Source), target.Length(binding.Target)),
		settings:   settings,
	}
	for _, joint := range target.Joints {
		kernel.bindLocals = append(kernel.bindLocals, binding.Target.LocalTransform(joint.Index))
	}
	kernel.undriven = undrivenTargetIndexes(source.Len(), target.Len())
	logRetargetVerbose("転写初期化: feature=%s source=%d target=%d chainScale=%.6f",
		settings.Name(), source.Len(), target.Len(), kernel.chainScale)
	return kernel
}

// isValid はチェーンが評価可能か判定する。
func (k *basicKernel) isValid() bool {
	return k != nil && k.source.IsValid() && k.target.IsValid() &&
		k.source.IsCached() && k.target.IsCached()
}

// scale はスケール重みを反映した倍率を返す。
func (k *basicKernel) scale() float64 {
	return mmath.Lerp(1, k.chainScale, k.settings.ScaleWeight)
}

// retarget はチェーン全体を転写する。重み0の場合は何もしない。
func (k *basicKernel) retarget() {
	if k.settings.FeatureWeight <= 0 {
		return
	}
	sourceCount := k.source.Len()
	targetCount := k.target.Len()
	if sourceCount == targetCount {
		for i := 0; i < sourceCount; i++ {
			k.retargetJoint(i, i)
		}
		return
	}
	for i := 0; i < sourceCount; i++ {
		k.retargetJoint(i, MapChainIndex(i, sourceCount, targetCount))
	}
}

// retargetJoint は1関節分の回転差分と移動量を転写する。基準姿勢からの補間なので再適用しても結果は変わらない。
func (k *basicKernel) retargetJoint(sourceIndex int, targetIndex int) {
	source := k.binding.Source
	target := k.binding.Target
	sourceJoint := k.source.Joints[sourceIndex].Index
	targetJoint := k.target.Joints[targetIndex].Index
	cachedSource := k.source.CachedTransforms[sourceIndex]
	cachedTarget := k.target.CachedTransforms[targetIndex]
	bind := k.bindLocals[targetIndex]
	featureWeight := k.settings.FeatureWeight

	sourceComponent := source.ComponentTransform(sourceJoint)
	delta := cachedSource.Rotation.Inverted().Muled(cachedTarget.Rotation)
	worldRotation := target.Root.Rotation.Muled(sourceComponent.Rotation.Muled(delta))
	parentWorld := target.ParentWorldTransform(targetJoint)
	localRotation := parentWorld.Rotation.Inverted().Muled(worldRotation)
	target.SetLocalRotation(targetJoint, bind.Rotation.Slerp(localRotation, featureWeight))

	translationWeight := k.settings.TranslationWeight * featureWeight
	if translationWeight <= 0 {
		return
	}
	displacement := sourceComponent.Position.Subed(cachedSource.Position).MuledScalar(k.scale())
	position := target.Root.TransformPoint(cachedTarget.Position.Added(displacement), true)
	position = target.Root.MoveInSpace(position, k.settings.Offset, 1)
	localPosition := parentWorld.InverseTransformPoint(position, true)
	target.SetLocalPosition(targetJoint, bind.Position.Lerp(localPosition, translationWeight))
}

// undrivenTargetIndexes はリタゲ元のどの関節からも写されないリタゲ先チェーン内indexを返す。
func undrivenTargetIndexes(sourceCount int, targetCount int) []int {
	if sourceCount >= targetCount {
		return nil
	}
	driven := make([]bool, targetCount)
	for i := 0; i < sourceCount; i++ {
		driven[MapChainIndex(i, sourceCount, targetCount)] = true
	}
	undriven := make([]int, 0, targetCount-sourceCount)
	for i, ok := range driven {
		if !ok {
			undriven = append(undriven, i)
		}
	}
	return undriven
}

// resetUndriven は転写されない関節のローカル回転を基準姿勢へ戻す。
func (k *basicKernel) resetUndriven() {
	target := k.binding.Target
	for _, i := range k.undriven {
		target.SetLocalRotation(k.target.Joints[i].Index, k.bindLocals[i].Rotation)
	}
}

// release はチェーン参照を手放す。
func (k *basicKernel) release() {
	if k == nil {
		return
	}
	k.source = nil
	k.target = nil
	k.bindLocals = nil
	k.undriven = nil
}

// basicState は転写の実行状態。
type basicState struct {
	stateBase
	kernel *basicKernel
}

// IsValid は評価可能か判定する。
func (s *basicState) IsValid() bool {
	return !s.destroyed && s.kernel.isValid()
}

// Retarget はチェーンを転写する。
func (s *basicState) Retarget(float64) {
	if !s.IsValid() {
		return
	}
	s.kernel.retarget()
}

// Destroy はチェーン参照を解放する。
func (s *basicState) Destroy() {
	s.kernel.release()
	s.destroyed = true
}

// ChainScale はチェーン長の比を返す。
func (s *basicState) ChainScale() float64 {
	return s.kernel.chainScale
}
