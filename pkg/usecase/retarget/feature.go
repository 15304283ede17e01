// 指示: miu200521358
// Package retarget はリタゲ機能の設定・実行状態・パイプラインを提供する。
package retarget

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
)

// FeatureKind はリタゲ機能の種別。
type FeatureKind int

const (
	// FEATURE_KIND_BASIC は回転・移動の転写。
	FEATURE_KIND_BASIC FeatureKind = iota
	// FEATURE_KIND_IK は転写後にIK補正を行う。
	FEATURE_KIND_IK
	// FEATURE_KIND_COPY はワールド姿勢の直接コピー。
	FEATURE_KIND_COPY
	// FEATURE_KIND_BONE_POSE は静的回転の上書き。
	FEATURE_KIND_BONE_POSE
	// FEATURE_KIND_WEAPON_GRIP は両腕と武器ボーンの同時転写。
	FEATURE_KIND_WEAPON_GRIP
)

var featureKindNames = map[FeatureKind]string{
	FEATURE_KIND_BASIC:       "basic",
	FEATURE_KIND_IK:          "ik",
	FEATURE_KIND_COPY:        "copy",
	FEATURE_KIND_BONE_POSE:   "bone_pose",
	FEATURE_KIND_WEAPON_GRIP: "weapon_grip",
}

// String は種別名を返す。
func (k FeatureKind) String() string {
	if name, ok := featureKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// ParseFeatureKind は種別名から種別を解決する。
func ParseFeatureKind(value string) (FeatureKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for kind, name := range featureKindNames {
		if name == normalized {
			return kind, nil
		}
	}
	return FEATURE_KIND_BASIC, fmt.Errorf("未対応のリタゲ機能種別です: %s", value)
}

// Feature はリタゲ機能の設定。実装は本パッケージ内の固定集合に限る。
type Feature interface {
	// Kind は機能種別を返す。
	Kind() FeatureKind
	// Name は表示名を返す。
	Name() string
	// Weight は機能全体の重みを返す。
	Weight() float64
	// Validate は必須項目を検証する。
	Validate() error

	snapshot() (Feature, bool)
	buildState(ctx *buildContext) FeatureState
}

// StreamableFeature はストリーミングジョブへ変換できる機能。
type StreamableFeature interface {
	Feature

	buildJob(ctx *buildContext) Job
}

// Diagnostic は初期化時に一度だけ報告する設定不備。
type Diagnostic struct {
	Feature string
	Code    string
	Message string
}

// String は表示用文字列を返す。
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Code, d.Feature, d.Message)
}

// clampWeight は重みを 0-1 に丸め、丸めたか返す。
func clampWeight(weight *float64) bool {
	clamped := mmath.Clamp01(*weight)
	changed := clamped != *weight
	*weight = clamped
	return changed
}

// displayName は表示名が空なら既定名を返す。
func displayName(name string, fallback string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return fallback
}
