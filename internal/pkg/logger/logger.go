// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init 配置全局 zerolog 实例。
// 所有服务在启动时都应调用一次，serviceName 会附加到每条日志上。
func Init(serviceName string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stderr).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
	// 当 context 中没有 logger 时，Ctx() 回退到全局 logger 而不是静默丢弃
	zerolog.DefaultContextLogger = &log.Logger
}

// Ctx 从 context 中取出请求级 logger（由中间件注入，带 trace_id）。
func Ctx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
