// 指示: miu200521358
package moutput

import (
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/usecase/retarget"
)

// RetargetSetup は読み込んだリタゲ設定一式を表す。
type RetargetSetup struct {
	// Path はプロファイルファイルのパス。
	Path    string
	Binding *retarget.Binding
	Profile *retarget.Profile
	// ClipPath はプロファイル内で指定されたリタゲ元クリップのパス。空なら未指定。
	ClipPath string
}

// IProfileReader はリタゲ設定の読み込み契約を表す。
type IProfileReader interface {
	// CanLoad は読み込み可能な拡張子か判定する。
	CanLoad(path string) bool
	// LoadProfile はプロファイルと参照先の骨格・リグを読み込む。
	LoadProfile(path string) (*RetargetSetup, error)
}

// IClipReader はクリップの読み込み契約を表す。
type IClipReader interface {
	// CanLoad は読み込み可能な拡張子か判定する。
	CanLoad(path string) bool
	// LoadClip はクリップを読み込む。
	LoadClip(path string) (*model.Clip, error)
}

// IClipWriter はクリップの書き込み契約を表す。
type IClipWriter interface {
	// SaveClip はクリップを保存する。
	SaveClip(path string, clip *model.Clip) error
}
