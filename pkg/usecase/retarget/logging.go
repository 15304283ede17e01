// 指示: miu200521358
package retarget

import "github.com/miu200521358/mu_retarget/pkg/shared/base/logging"

// logRetargetInfo はリタゲのINFOログを出力し、冗長ログにも転送する。
func logRetargetInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
	if logger.IsVerboseEnabled(logging.VERBOSE_INDEX_RETARGET) {
		logger.Verbose(logging.VERBOSE_INDEX_RETARGET, "[INFO] "+format, params...)
	}
}

// logRetargetWarn はリタゲのWARNログを出力する。
func logRetargetWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}

// logRetargetVerbose はリタゲの冗長ログを出力する。
func logRetargetVerbose(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
	if logger.IsVerboseEnabled(logging.VERBOSE_INDEX_RETARGET) {
		logger.Verbose(logging.VERBOSE_INDEX_RETARGET, "[DEBUG] "+format, params...)
	}
}

// logIKVerbose はIK解決の冗長ログを出力する。
func logIKVerbose(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil || !logger.IsVerboseEnabled(logging.VERBOSE_INDEX_IK) {
		return
	}
	logger.Verbose(logging.VERBOSE_INDEX_IK, format, params...)
}
