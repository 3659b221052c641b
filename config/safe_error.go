package config

// SafeErrorMessage 非调试模式下不向客户端暴露内部错误详情
// GlobalConfig 未初始化时视为开发环境
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && !GlobalConfig.IsDebug() {
		return fallback
	}
	return err.Error()
}
