// 指示: miu200521358
package retarget

import (
	"fmt"

	"github.com/miu200521358/mu_retarget/pkg/domain/ik"
	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
	"github.com/tiendc/go-deepcopy"
)

// Profile はリタゲ機能の順序付き一覧と初期姿勢の組。
type Profile struct {
	Name string
	// SourcePose はキャッシュ前にリタゲ元へ適用するA/Tポーズ。
	SourcePose *model.Pose
	// TargetPose はキャッシュ前にリタゲ先へ適用するA/Tポーズ。
	TargetPose *model.Pose
	Features   []Feature
	// ExcludeChain は焼き込み対象から外すリタゲ先チェーン名。
	ExcludeChain string
}

// SessionOption はセッション設定を変更する。
type SessionOption func(*Session)

// WithMaxIterations はFABRIKの既定反復上限を設定する。
func WithMaxIterations(maxIterations int) SessionOption {
	return func(s *Session) {
		if maxIterations > 0 {
			s.maxIterations = maxIterations
		}
	}
}

// WithTolerance はFABRIKの既定許容距離を設定する。
func WithTolerance(tolerance float64) SessionOption {
	return func(s *Session) {
		if tolerance > 0 {
			s.tolerance = tolerance
		}
	}
}

// Session は1キャラクター分のリタゲパイプライン。機能は作者定義順に逐次評価する。
type Session struct {
	binding       *Binding
	source        *Profile
	profile       Profile
	states        []FeatureState
	statuses      []FeatureStatus
	diagnostics   []Diagnostic
	excluded      []int
	initialized   bool
	destroyed     bool
	maxIterations int
	tolerance     float64
}

// NewSession はセッションを生成する。初期化は Initialize で明示的に行う。
func NewSession(binding *Binding, profile *Profile, opts ...SessionOption) *Session {
	session := &Session{
		binding:       binding,
		source:        profile,
		maxIterations: ik.DefaultStateMaxIterations,
		tolerance:     ik.DefaultTolerance,
	}
	for _, opt := range opts {
		opt(session)
	}
	return session
}

// Initialize はプロファイルを複製し、初期姿勢を適用して全機能の状態を生成する。
// 設定不備の機能は無効として残し、一度だけ報告する。
func (s *Session) Initialize() error {
	if s.initialized || s.destroyed {
		return merr.NewError(model.ErrorIDSessionState, "セッションは初期化済みです", nil)
	}
	if err := s.binding.Validate(); err != nil {
		return err
	}
	if s.source == nil {
		return merr.NewError(model.ErrorIDSessionState, "プロファイルがありません", nil)
	}
	profile, err := snapshotProfile(s.source)
	if err != nil {
		return err
	}
	s.profile = profile

	s.applyPose(profile.SourcePose, s.binding.Source)
	s.applyPose(profile.TargetPose, s.binding.Target)

	s.states = make([]FeatureState, 0, len(profile.Features))
	s.statuses = make([]FeatureStatus, 0, len(profile.Features))
	for index, feature := range profile.Features {
		state, err := buildFeatureState(feature, s.binding, s.maxIterations, s.tolerance)
		if state == nil {
			state = newInvalidState(feature, nil)
		}
		s.diagnostics = append(s.diagnostics, state.Diagnostics()...)
		status := FEATURE_STATUS_INITIALIZED
		if err != nil {
			status = FEATURE_STATUS_INVALID
			logRetargetWarn("リタゲ機能を無効化しました: index=%d name=%s err=%v", index, feature.Name(), err)
		}
		s.states = append(s.states, state)
		s.statuses = append(s.statuses, status)
	}
	s.excluded = s.excludedIndexes()
	for _, diagnostic := range s.diagnostics {
		logRetargetWarn("リタゲ設定警告: %s", diagnostic)
	}
	s.initialized = true
	logRetargetInfo("リタゲセッション初期化: profile=%s features=%d", profile.Name, len(s.states))
	return nil
}

// applyPose は初期姿勢を骨格へ適用し、存在しないボーンを報告する。
func (s *Session) applyPose(pose *model.Pose, skeleton *model.Skeleton) {
	if pose == nil {
		return
	}
	missing := pose.Apply(skeleton)
	if len(missing) == 0 {
		return
	}
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Feature: pose.Name,
		Code:    model.RetargetWarningPoseJointMissing,
		Message: fmt.Sprintf("姿勢定義のボーンが骨格にありません: %v", missing),
	})
}

// Retarget は有効な機能を順に評価する。無効な機能は読み飛ばす。
func (s *Session) Retarget(time float64) {
	if !s.initialized || s.destroyed {
		return
	}
	saved := make([]mmath.Transform, len(s.excluded))
	for i, index := range s.excluded {
		saved[i] = s.binding.Target.LocalTransform(index)
	}
	for index, state := range s.states {
		if !state.IsValid() {
			s.statuses[index] = FEATURE_STATUS_INVALID
			continue
		}
		s.statuses[index] = FEATURE_STATUS_VALID
		state.Retarget(time)
	}
	for i, index := range s.excluded {
		s.binding.Target.SetLocalTransform(index, saved[i])
	}
}

// excludedIndexes は除外チェーンのうち骨格に存在するボーンindexを返す。
func (s *Session) excludedIndexes() []int {
	indexes := make([]int, 0)
	for _, name := range s.excludedNames() {
		if index, exists := s.binding.Target.IndexOf(name); exists {
			indexes = append(indexes, index)
		}
	}
	return indexes
}

// Statuses は各機能の状態を作者定義順で返す。
func (s *Session) Statuses() []FeatureStatus {
	if !s.initialized && !s.destroyed {
		statuses := make([]FeatureStatus, 0)
		if s.source != nil {
			for range s.source.Features {
				statuses = append(statuses, FEATURE_STATUS_UNINITIALIZED)
			}
		}
		return statuses
	}
	return append([]FeatureStatus(nil), s.statuses...)
}

// States は生成済みの実行状態を返す。
func (s *Session) States() []FeatureState {
	return append([]FeatureState(nil), s.states...)
}

// Diagnostics は初期化時に集めた設定不備を返す。
func (s *Session) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), s.diagnostics...)
}

// Profile は初期化時に複製したプロファイルを返す。
func (s *Session) Profile() Profile {
	return s.profile
}

// Binding は骨格とリグの組を返す。
func (s *Session) Binding() *Binding {
	return s.binding
}

// ExcludedJoints は除外チェーンに含まれるリタゲ先ボーン名を返す。
func (s *Session) ExcludedJoints() map[string]struct{} {
	excluded := map[string]struct{}{}
	for _, name := range s.excludedNames() {
		excluded[name] = struct{}{}
	}
	return excluded
}

// excludedNames は除外チェーンのボーン名を返す。
func (s *Session) excludedNames() []string {
	if s.profile.ExcludeChain == "" || s.binding == nil || s.binding.TargetRig == nil {
		return nil
	}
	chain, exists := s.binding.TargetRig.Chain(s.profile.ExcludeChain)
	if !exists {
		return nil
	}
	return chain.Joints
}

// InvalidFeatures は無効な機能の表示名を返す。
func (s *Session) InvalidFeatures() []string {
	names := make([]string, 0)
	for index, state := range s.states {
		if s.statuses[index] == FEATURE_STATUS_INVALID || !state.IsValid() {
			names = append(names, state.Name())
		}
	}
	return names
}

// Destroy は全状態を破棄する。
func (s *Session) Destroy() {
	if s.destroyed {
		return
	}
	for index, state := range s.states {
		state.Destroy()
		s.statuses[index] = FEATURE_STATUS_DESTROYED
	}
	s.destroyed = true
}

// snapshotProfile はセッション中に変更されないようプロファイルを複製し、重みを丸める。
func snapshotProfile(profile *Profile) (Profile, error) {
	snapshot := Profile{Name: profile.Name, ExcludeChain: profile.ExcludeChain}
	for _, pose := range []struct {
		from *model.Pose
		to   **model.Pose
	}{
		{profile.SourcePose, &snapshot.SourcePose},
		{profile.TargetPose, &snapshot.TargetPose},
	} {
		if pose.from == nil {
			continue
		}
		copied := &model.Pose{}
		if err := deepcopy.Copy(copied, pose.from); err != nil {
			return Profile{}, fmt.Errorf("姿勢定義の複製に失敗しました: %w", err)
		}
		*pose.to = copied
	}
	snapshot.Features = make([]Feature, 0, len(profile.Features))
	for index, feature := range profile.Features {
		if feature == nil {
			return Profile{}, merr.Errorf(model.ErrorIDFeatureInvalid, "リタゲ機能が空です: index=%d", index)
		}
		copied, clamped := feature.snapshot()
		if clamped {
			logRetargetWarn("[%s] 重みを0-1に丸めました: %s", model.RetargetWarningWeightClamped, feature.Name())
		}
		snapshot.Features = append(snapshot.Features, copied)
	}
	return snapshot, nil
}
