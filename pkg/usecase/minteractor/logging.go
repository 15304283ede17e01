// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_retarget/pkg/shared/base/logging"

// logBakeInfo は焼き込みのINFOログを出力し、冗長ログにも転送する。
func logBakeInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
	if logger.IsVerboseEnabled(logging.VERBOSE_INDEX_BAKE) {
		logger.Verbose(logging.VERBOSE_INDEX_BAKE, "[INFO] "+format, params...)
	}
}

// logBakeVerbose は焼き込みの冗長ログを出力する。
func logBakeVerbose(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil || !logger.IsVerboseEnabled(logging.VERBOSE_INDEX_BAKE) {
		return
	}
	logger.Verbose(logging.VERBOSE_INDEX_BAKE, format, params...)
}
