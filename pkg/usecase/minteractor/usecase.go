// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_retarget/pkg/usecase/port/moutput"

// RetargetUsecaseDeps はリタゲ焼き込みユースケースの依存を表す。
type RetargetUsecaseDeps struct {
	ProfileReader moutput.IProfileReader
	ClipReader    moutput.IClipReader
	ClipWriter    moutput.IClipWriter
}

// RetargetUsecase はリタゲ元クリップをリタゲ先骨格へ焼き込む処理をまとめたユースケースを表す。
type RetargetUsecase struct {
	profileReader moutput.IProfileReader
	clipReader    moutput.IClipReader
	clipWriter    moutput.IClipWriter
}

// NewRetargetUsecase はリタゲ焼き込みユースケースを生成する。
func NewRetargetUsecase(deps RetargetUsecaseDeps) *RetargetUsecase {
	return &RetargetUsecase{
		profileReader: deps.ProfileReader,
		clipReader:    deps.ClipReader,
		clipWriter:    deps.ClipWriter,
	}
}
