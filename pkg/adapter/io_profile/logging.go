// 指示: miu200521358
package io_profile

import "github.com/miu200521358/mu_retarget/pkg/shared/base/logging"

// logProfileInfo はYAML入出力のINFOログを出力し、冗長ログにも転送する。
func logProfileInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
	if logger.IsVerboseEnabled(logging.VERBOSE_INDEX_BAKE) {
		logger.Verbose(logging.VERBOSE_INDEX_BAKE, "[INFO] "+format, params...)
	}
}

// logProfileVerbose はYAML入出力の冗長ログを出力する。
func logProfileVerbose(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil || !logger.IsVerboseEnabled(logging.VERBOSE_INDEX_BAKE) {
		return
	}
	logger.Verbose(logging.VERBOSE_INDEX_BAKE, format, params...)
}
