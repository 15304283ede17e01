// 指示: miu200521358
package chainmap

import "github.com/miu200521358/mu_retarget/pkg/shared/base/logging"

// logChainMapInfo はチェーン対応のINFOログを出力する。
func logChainMapInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
	if logger.IsVerboseEnabled(logging.VERBOSE_INDEX_RETARGET) {
		logger.Verbose(logging.VERBOSE_INDEX_RETARGET, "[INFO] "+format, params...)
	}
}

// logChainMapWarn はチェーン対応のWARNログを出力する。
func logChainMapWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}
