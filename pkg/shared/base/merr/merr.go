// 指示: miu200521358
// Package merr はエラーIDを持つエラー値を提供する。
package merr

import (
	"errors"
	"fmt"
)

// IDError はエラーIDを伴うエラーを表す。
type IDError struct {
	id      string
	message string
	cause   error
}

// NewError はIDErrorを生成する。
func NewError(id string, message string, cause error) *IDError {
	return &IDError{id: id, message: message, cause: cause}
}

// Errorf は書式指定でIDErrorを生成する。%w は使用しない。
func Errorf(id string, format string, params ...any) *IDError {
	return &IDError{id: id, message: fmt.Sprintf(format, params...)}
}

// Error はエラーメッセージを返す。
func (e *IDError) Error() string {
	if e == nil {
		return ""
	}
	if e.cause == nil {
		return fmt.Sprintf("[%s] %s", e.id, e.message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.id, e.message, e.cause)
}

// Unwrap は原因エラーを返す。
func (e *IDError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// ErrorID はエラーIDを返す。
func (e *IDError) ErrorID() string {
	if e == nil {
		return ""
	}
	return e.id
}

// ExtractErrorID はエラー連鎖から最初に見つかったエラーIDを返す。
func ExtractErrorID(err error) string {
	var idErr *IDError
	if errors.As(err, &idErr) {
		return idErr.ErrorID()
	}
	return ""
}
