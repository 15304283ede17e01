// 指示: miu200521358
package io_profile

import (
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
)

// newFileNotFound はファイル未検出エラーを生成する。
func newFileNotFound(path string, cause error) error {
	return merr.NewError(model.ErrorIDFileNotFound, "ファイルが見つかりません: "+path, cause)
}

// newParseFailed は解析失敗エラーを生成する。
func newParseFailed(message string, cause error) error {
	return merr.NewError(model.ErrorIDFileParseFailed, message, cause)
}

// newExtInvalid は拡張子不正エラーを生成する。
func newExtInvalid(path string) error {
	return merr.NewError(model.ErrorIDFileExtInvalid, "YAMLファイルではありません: "+path, nil)
}
