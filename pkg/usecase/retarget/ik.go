// 指示: miu200521358
package retarget

import (
	"github.com/miu200521358/mu_retarget/pkg/domain/ik"
	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
)

// IKFeature は転写後に末端をリタゲ元の末端位置へIKで合わせる設定。
type IKFeature struct {
	BasicFeature
	IKWeight       float64
	EffectorOffset mmath.Vec3
	PoleOffset     mmath.Vec3
	MaxIterations  int
	Tolerance      float64
}

// NewIKFeature は既定値でIK設定を生成する。反復設定0はセッション既定値を使う。
func NewIKFeature(sourceChain string, targetChain string) IKFeature {
	return IKFeature{
		BasicFeature: NewBasicFeature(sourceChain, targetChain),
		IKWeight:     1,
	}
}

// Kind は機能種別を返す。
func (f IKFeature) Kind() FeatureKind {
	return FEATURE_KIND_IK
}

// Name は表示名を返す。
func (f IKFeature) Name() string {
	return displayName(f.DisplayName, "IK Retarget: "+f.TargetChain)
}

// Validate はチェーン名と反復設定を検証する。
func (f IKFeature) Validate() error {
	if f.SourceChain == "" || f.TargetChain == "" {
		return merr.Errorf(model.ErrorIDFeatureInvalid, "リタゲ元またはリタゲ先のチェーンが未指定です: %s", f.Name())
	}
	if f.MaxIterations < 0 || f.Tolerance < 0 {
		return merr.Errorf(model.ErrorIDFeatureInvalid, "IK反復設定が不正です: %s", f.Name())
	}
	return nil
}

// snapshot は重みを丸めた複製を返す。
func (f IKFeature) snapshot() (Feature, bool) {
	copied := f
	changed := copied.clampWeights()
	changed = clampWeight(&copied.IKWeight) || changed
	return copied, changed
}

// buildState はIK状態を生成する。
func (f IKFeature) buildState(ctx *buildContext) FeatureState {
	kernel := newIKKernel(ctx, f)
	if kernel == nil {
		return nil
	}
	return &ikState{stateBase: newStateBase(f, ctx), kernel: kernel}
}

// buildJob はIKジョブを生成する。
func (f IKFeature) buildJob(ctx *buildContext) Job {
	kernel := newIKKernel(ctx, f)
	if kernel == nil {
		return nil
	}
	return &ikJob{name: f.Name(), kernel: kernel}
}

// ikSolverKind は初期化時に確定するIKソルバー種別。
type ikSolverKind int

const (
	ikSolverNone ikSolverKind = iota
	ikSolverTwoBone
	ikSolverChain
)

// String はソルバー名を返す。
func (k ikSolverKind) String() string {
	switch k {
	case ikSolverTwoBone:
		return "two_bone"
	case ikSolverChain:
		return "fabrik"
	default:
		return "none"
	}
}

// ikKernel は状態とジョブで共有するIK補正処理。
type ikKernel struct {
	basic         *basicKernel
	settings      IKFeature
	solver        ikSolverKind
	chainData     *ik.ChainIKData
	positions     []mmath.Vec3
	rotations     []mmath.Quaternion
	maxIterations int
	tolerance     float64
}

// newIKKernel は転写処理を生成し、リタゲ先の関節数でソルバーを選ぶ。
func newIKKernel(ctx *buildContext, settings IKFeature) *ikKernel {
	basic := newBasicKernel(ctx, settings.BasicFeature)
	if basic == nil {
		return nil
	}
	kernel := &ikKernel{
		basic:         basic,
		settings:      settings,
		maxIterations: ctx.maxIterations,
		tolerance:     ctx.tolerance,
	}
	if settings.MaxIterations > 0 {
		kernel.maxIterations = settings.MaxIterations
	}
	if settings.Tolerance > 0 {
		kernel.tolerance = settings.Tolerance
	}
	count := basic.target.Len()
	switch {
	case count < ik.MinChainJoints:
		ctx.resolver.warn(model.RetargetWarningChainTooShort,
			"IKには3関節以上が必要なため転写のみ行います: "+settings.TargetChain)
	case count == ik.MinChainJoints:
		kernel.solver = ikSolverTwoBone
	default:
		kernel.solver = ikSolverChain
		kernel.chainData = ik.NewChainIKData(count)
		kernel.positions = make([]mmath.Vec3, count)
		kernel.rotations = make([]mmath.Quaternion, count)
	}
	logRetargetVerbose("IK初期化: feature=%s solver=%s joints=%d", settings.Name(), kernel.solver, count)
	return kernel
}

// setSettings は重み類を差し替える。チェーンは初期化時のまま。
func (k *ikKernel) setSettings(settings IKFeature) {
	k.settings = settings
	k.basic.settings = settings.BasicFeature
	if settings.MaxIterations > 0 {
		k.maxIterations = settings.MaxIterations
	}
	if settings.Tolerance > 0 {
		k.tolerance = settings.Tolerance
	}
}

// retarget は転写後にIK補正を行う。転写されない関節は基準姿勢から解き直す。
func (k *ikKernel) retarget() {
	if k.settings.FeatureWeight <= 0 {
		return
	}
	k.basic.resetUndriven()
	k.basic.retarget()
	weight := k.settings.IKWeight * k.settings.FeatureWeight
	if weight <= 0 {
		return
	}
	switch k.solver {
	case ikSolverTwoBone:
		k.solveTwoBone(weight)
	case ikSolverChain:
		k.solveChain()
	}
}

// effector はリタゲ元末端の基準姿勢からの変位をリタゲ先へ写したIK目標位置を返す。
func (k *ikKernel) effector() mmath.Vec3 {
	basic := k.basic
	sourceLast := basic.source.Len() - 1
	targetLast := basic.target.Len() - 1
	sourceTip := basic.binding.Source.ComponentTransform(basic.source.Last().Index).Position
	displacement := sourceTip.Subed(basic.source.CachedTransforms[sourceLast].Position).MuledScalar(basic.scale())
	targetRoot := basic.binding.Target.Root
	effector := targetRoot.TransformPoint(basic.target.CachedTransforms[targetLast].Position.Added(displacement), true)
	return targetRoot.MoveInSpace(effector, k.settings.EffectorOffset, 1)
}

// solveTwoBone は末端3関節を2ボーンIKで解く。
func (k *ikKernel) solveTwoBone(weight float64) {
	skeleton := k.basic.binding.Target
	joints := k.basic.target.Joints
	count := len(joints)
	root := joints[count-3].Index
	mid := joints[count-2].Index
	tip := joints[count-1].Index

	midWorld := skeleton.WorldTransform(mid)
	data := &ik.TwoBoneIKData{
		Root:       skeleton.WorldTransform(root),
		Mid:        midWorld,
		Tip:        skeleton.WorldTransform(tip),
		Target:     mmath.NewTransformFromPosRot(k.effector(), mmath.NewQuaternion()),
		Hint:       skeleton.Root.MoveInSpace(midWorld.Position, k.settings.PoleOffset, 1),
		HasHint:    true,
		HintWeight: 1,
		PosWeight:  weight,
		RotWeight:  ik.PreserveRotation(),
	}
	if !ik.SolveTwoBoneIK(data) {
		logIKVerbose("2ボーンIKをスキップ(長さ0のボーン): feature=%s", k.settings.Name())
		return
	}
	skeleton.SetWorldRotation(root, data.Root.Rotation)
	skeleton.SetWorldRotation(mid, data.Mid.Rotation)
	skeleton.SetWorldRotation(tip, data.Tip.Rotation)
}

// solveChain はFABRIKで位置を解き、基準方向から回転を導出する。末端の回転は保持する。
func (k *ikKernel) solveChain() {
	skeleton := k.basic.binding.Target
	chain := k.basic.target
	for i, joint := range chain.Joints {
		world := skeleton.WorldTransform(joint.Index)
		k.positions[i] = world.Position
		k.rotations[i] = world.Rotation
	}
	k.chainData.Gather(k.positions)
	k.chainData.Target = k.effector()
	k.chainData.MaxIterations = k.maxIterations
	k.chainData.Tolerance = k.tolerance

	result := ik.SolveFABRIK(k.chainData)
	logIKVerbose("FABRIK: feature=%s iterations=%d converged=%t changed=%t",
		k.settings.Name(), result.Iterations, result.Converged, result.Changed)
	if !result.Changed {
		return
	}

	root := skeleton.Root
	tipIndex := chain.Len() - 1
	for i := 0; i < tipIndex; i++ {
		cachedThis := chain.CachedTransforms[i]
		cachedNext := chain.CachedTransforms[i+1]
		cachedRotation := root.Rotation.Muled(cachedThis.Rotation)
		rotation := ik.ChainRotation(
			root.TransformPoint(cachedThis.Position, true),
			root.TransformPoint(cachedNext.Position, true),
			k.chainData.Positions[i],
			k.chainData.Positions[i+1],
			cachedRotation,
		)
		rotation = k.rotations[i].Slerp(rotation, k.settings.IKWeight)
		rotation = cachedRotation.Slerp(rotation, k.settings.FeatureWeight)
		skeleton.SetWorldRotation(chain.Joints[i].Index, rotation)
	}
	skeleton.SetWorldRotation(chain.Joints[tipIndex].Index, k.rotations[tipIndex])
}

// release は作業領域を解放する。
func (k *ikKernel) release() {
	if k == nil {
		return
	}
	k.basic.release()
	k.chainData = nil
	k.positions = nil
	k.rotations = nil
}

// ikState はIKの実行状態。
type ikState struct {
	stateBase
	kernel *ikKernel
}

// IsValid は評価可能か判定する。
func (s *ikState) IsValid() bool {
	return !s.destroyed && s.kernel.basic.isValid()
}

// Retarget は転写とIK補正を行う。
func (s *ikState) Retarget(float64) {
	if !s.IsValid() {
		return
	}
	s.kernel.retarget()
}

// Destroy は作業領域を解放する。
func (s *ikState) Destroy() {
	s.kernel.release()
	s.destroyed = true
}
