// 指示: miu200521358
package retarget

import (
	"fmt"

	"github.com/miu200521358/mu_retarget/pkg/domain/ik"
	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
)

// Job は毎フレーム評価されるストリーミング処理。
type Job interface {
	// Name は元機能の表示名を返す。
	Name() string
	// SyncJobData は元機能の最新の重みを取り込む。種別が合わなければ false。
	SyncJobData(feature Feature) bool
	// Process はリタゲ先の姿勢を更新する。
	Process()
	// Dispose は作業領域を解放する。
	Dispose()
	// IsDisposed は解放済みか判定する。
	IsDisposed() bool
}

// basicJob は転写のストリーミング処理。
type basicJob struct {
	name     string
	kernel   *basicKernel
	disposed bool
}

// Name は表示名を返す。
func (j *basicJob) Name() string {
	return j.name
}

// SyncJobData は重みと移動設定を差し替える。
func (j *basicJob) SyncJobData(feature Feature) bool {
	settings, ok := feature.(BasicFeature)
	if !ok || j.disposed {
		return false
	}
	settings.clampWeights()
	j.kernel.settings = settings
	return true
}

// Process はチェーンを転写する。
func (j *basicJob) Process() {
	if j.disposed || !j.kernel.isValid() {
		return
	}
	j.kernel.retarget()
}

// Dispose はチェーン参照を解放する。
func (j *basicJob) Dispose() {
	j.kernel.release()
	j.disposed = true
}

// IsDisposed は解放済みか判定する。
func (j *basicJob) IsDisposed() bool {
	return j.disposed
}

// ikJob はIKのストリーミング処理。
type ikJob struct {
	name     string
	kernel   *ikKernel
	disposed bool
}

// Name は表示名を返す。
func (j *ikJob) Name() string {
	return j.name
}

// SyncJobData はIK重みとオフセットを差し替える。
func (j *ikJob) SyncJobData(feature Feature) bool {
	settings, ok := feature.(IKFeature)
	if !ok || j.disposed {
		return false
	}
	settings.clampWeights()
	clampWeight(&settings.IKWeight)
	j.kernel.setSettings(settings)
	return true
}

// Process は転写とIK補正を行う。
func (j *ikJob) Process() {
	if j.disposed || !j.kernel.basic.isValid() {
		return
	}
	j.kernel.retarget()
}

// Dispose は作業領域を解放する。
func (j *ikJob) Dispose() {
	j.kernel.release()
	j.disposed = true
}

// IsDisposed は解放済みか判定する。
func (j *ikJob) IsDisposed() bool {
	return j.disposed
}

// DynamicRetargeter はリタゲ元の動きを毎フレームリタゲ先へ流すストリーミング処理。
// 転写とIKのみをジョブ化し、作者定義順に評価する。
type DynamicRetargeter struct {
	binding        *Binding
	profile        *Profile
	rootMotion     bool
	maxIterations  int
	jobs           []Job
	jobFeatures    []int
	diagnostics    []Diagnostic
	prevSourceRoot mmath.Transform
	started        bool
	destroyed      bool
}

// NewDynamicRetargeter はストリーミング処理を生成する。プロファイルは参照を保持し、毎フレーム重みを同期する。
func NewDynamicRetargeter(binding *Binding, profile *Profile, rootMotion bool) *DynamicRetargeter {
	return &DynamicRetargeter{
		binding:       binding,
		profile:       profile,
		rootMotion:    rootMotion,
		maxIterations: ik.DefaultMaxIterations,
	}
}

// Start は初期姿勢を適用してジョブを生成する。
func (d *DynamicRetargeter) Start() error {
	if d.started || d.destroyed {
		return merr.NewError(model.ErrorIDSessionState, "ストリーミング処理は開始済みです", nil)
	}
	if err := d.binding.Validate(); err != nil {
		return err
	}
	if d.profile == nil {
		return merr.NewError(model.ErrorIDSessionState, "プロファイルがありません", nil)
	}
	for _, pose := range []struct {
		pose     *model.Pose
		skeleton *model.Skeleton
	}{
		{d.profile.SourcePose, d.binding.Source},
		{d.profile.TargetPose, d.binding.Target},
	} {
		if pose.pose == nil {
			continue
		}
		if missing := pose.pose.Apply(pose.skeleton); len(missing) > 0 {
			d.diagnostics = append(d.diagnostics, Diagnostic{
				Feature: pose.pose.Name,
				Code:    model.RetargetWarningPoseJointMissing,
				Message: fmt.Sprintf("姿勢定義のボーンが骨格にありません: %v", missing),
			})
		}
	}

	for index, feature := range d.profile.Features {
		streamable, ok := feature.(StreamableFeature)
		if !ok {
			continue
		}
		copied, _ := streamable.snapshot()
		ctx := newBuildContext(d.binding, feature.Name(), d.maxIterations, ik.DefaultTolerance)
		if err := copied.Validate(); err != nil {
			ctx.resolver.fail(model.RetargetWarningChainUnresolved, err.Error())
			d.diagnostics = append(d.diagnostics, ctx.resolver.diagnostics...)
			continue
		}
		job := copied.(StreamableFeature).buildJob(ctx)
		d.diagnostics = append(d.diagnostics, ctx.resolver.diagnostics...)
		if job == nil || ctx.resolver.failed {
			if job != nil {
				job.Dispose()
			}
			logRetargetWarn("ストリーミングジョブを生成できません: %s", feature.Name())
			continue
		}
		d.jobs = append(d.jobs, job)
		d.jobFeatures = append(d.jobFeatures, index)
	}
	for _, diagnostic := range d.diagnostics {
		logRetargetWarn("リタゲ設定警告: %s", diagnostic)
	}
	d.prevSourceRoot = d.binding.Source.Root
	d.started = true
	logRetargetInfo("ストリーミング開始: profile=%s jobs=%d", d.profile.Name, len(d.jobs))
	return nil
}

// Update はルートモーションを反映し、重みを同期して全ジョブを評価する。
func (d *DynamicRetargeter) Update() {
	if !d.started || d.destroyed {
		return
	}
	if d.rootMotion {
		d.applyRootMotion()
	}
	for i, job := range d.jobs {
		index := d.jobFeatures[i]
		if index < len(d.profile.Features) && d.profile.Features[index] != nil {
			job.SyncJobData(d.profile.Features[index])
		}
		job.Process()
	}
}

// applyRootMotion はリタゲ元ルートの前フレームからの差分をリタゲ先ルートへ加える。
func (d *DynamicRetargeter) applyRootMotion() {
	current := d.binding.Source.Root
	target := &d.binding.Target.Root
	target.Position = target.Position.Added(current.Position.Subed(d.prevSourceRoot.Position))
	delta := d.prevSourceRoot.Rotation.Inverted().Muled(current.Rotation)
	target.Rotation = target.Rotation.Muled(delta)
	d.prevSourceRoot = current
}

// Jobs は生成済みジョブを返す。
func (d *DynamicRetargeter) Jobs() []Job {
	return append([]Job(nil), d.jobs...)
}

// Diagnostics は開始時に集めた設定不備を返す。
func (d *DynamicRetargeter) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), d.diagnostics...)
}

// Destroy は全ジョブを解放する。
func (d *DynamicRetargeter) Destroy() {
	if d.destroyed {
		return
	}
	for _, job := range d.jobs {
		job.Dispose()
	}
	d.destroyed = true
}
