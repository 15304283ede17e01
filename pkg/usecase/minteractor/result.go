// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/usecase/port/moutput"
	"github.com/miu200521358/mu_retarget/pkg/usecase/retarget"
)

// DEFAULT_FPS はクリップ・要求ともにFPS未指定の場合の焼き込みFPS。
const DEFAULT_FPS = 30.0

// BakeProgressEventType は焼き込み処理の進捗イベント種別を表す。
type BakeProgressEventType string

const (
	// BakeProgressEventTypeProfileLoaded はプロファイル読み込み完了イベントを表す。
	BakeProgressEventTypeProfileLoaded BakeProgressEventType = "profile_loaded"
	// BakeProgressEventTypeClipLoaded はリタゲ元クリップ読み込み完了イベントを表す。
	BakeProgressEventTypeClipLoaded BakeProgressEventType = "clip_loaded"
	// BakeProgressEventTypeSessionInitialized はリタゲセッション初期化完了イベントを表す。
	BakeProgressEventTypeSessionInitialized BakeProgressEventType = "session_initialized"
	// BakeProgressEventTypeFrameBaked は1フレーム焼き込み完了イベントを表す。
	BakeProgressEventTypeFrameBaked BakeProgressEventType = "frame_baked"
	// BakeProgressEventTypeClipSaved は出力クリップ保存完了イベントを表す。
	BakeProgressEventTypeClipSaved BakeProgressEventType = "clip_saved"
)

// BakeProgressEvent は焼き込み処理の進捗イベントを表す。
type BakeProgressEvent struct {
	Type       BakeProgressEventType
	FrameIndex int
	FrameCount int
}

// IBakeProgressReporter は焼き込み処理の進捗通知契約を表す。
type IBakeProgressReporter interface {
	// ReportBakeProgress は焼き込み進捗を通知する。
	ReportBakeProgress(event BakeProgressEvent)
}

// BakeRequest はリタゲ焼き込み要求を表す。
type BakeRequest struct {
	ProfilePath string
	// ClipPath は空ならプロファイル内の指定を使う。
	ClipPath string
	// OutputPath は空ならリタゲ元クリップと同じ場所へ既定名で出力する。
	OutputPath string
	// Setup は読み込み済みの設定。指定時は ProfilePath を読まない。
	Setup *moutput.RetargetSetup
	// SourceClip は読み込み済みのリタゲ元クリップ。指定時は ClipPath を読まない。
	SourceClip *model.Clip
	// Fps は0ならクリップのFPSを使う。
	Fps           float64
	MaxIterations int
	Tolerance     float64
	// KeyframeAll はリタゲ先の全ボーンを記録する。false ならリグのチェーンに含まれるボーンのみ。
	KeyframeAll bool
	// RootMotion はリタゲ元のルート移動を出力クリップへ記録する。
	RootMotion       bool
	ProgressReporter IBakeProgressReporter
}

// BakeResult はリタゲ焼き込み結果を表す。
type BakeResult struct {
	Clip            *model.Clip
	OutputPath      string
	FrameCount      int
	InvalidFeatures []string
	Diagnostics     []retarget.Diagnostic
}

// reportBakeProgress は進捗通知先があれば通知する。
func reportBakeProgress(reporter IBakeProgressReporter, event BakeProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportBakeProgress(event)
}
