// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"storefront/internal/pkg/logger"
	"storefront/internal/pkg/nacos"
	"storefront/internal/pkg/tracing"
	"storefront/internal/pkg/utils"
)

// AppCtx 传递给各服务的路由注册回调。
type AppCtx struct {
	Mux *http.ServeMux
}

// AppInfo 包含了启动一个服务所需的所有特定信息。
type AppInfo struct {
	ServiceName      string
	Port             int
	RegisterHandlers func(appCtx AppCtx) // 每个服务注册自己独特的 HTTP 路由
	// Background 是可选的后台任务（如 Kafka 消费循环），随服务生命周期启停。
	Background func(ctx context.Context) error
}

// StartService 封装了所有服务的通用启动和优雅关停逻辑。
func StartService(info AppInfo) {
	logger.Init(info.ServiceName)
	cfg := GetCurrentConfig()

	// 1. Tracer
	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	// 2. 服务注册（Nacos 未配置时跳过，单机部署不需要注册中心）
	var naming *nacos.Client
	var ip string
	if cfg.Infra.Nacos.ServerAddrs != "" {
		naming, err = nacos.NewClient(cfg.Infra.Nacos.ServerAddrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize nacos client")
		}
		ip, err = utils.GetOutboundIP()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get outbound IP address")
		}
		if err := naming.RegisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to register service with nacos")
		}
	}

	// 3. 创建并启动 HTTP Server
	mux := http.NewServeMux()
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(AppCtx{Mux: mux})
	}
	server := &http.Server{Addr: ":" + strconv.Itoa(info.Port), Handler: mux}
	go func() {
		log.Info().Msgf("✅ %s listening on :%d", info.ServiceName, info.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("could not listen on %s", server.Addr)
		}
	}()

	// 4. 可选的后台任务
	bgCtx, bgCancel := context.WithCancel(context.Background())
	if info.Background != nil {
		go func() {
			if err := info.Background(bgCtx); err != nil && bgCtx.Err() == nil {
				log.Fatal().Err(err).Msg("background task failed")
			}
		}()
	}

	// 5. 阻塞主 goroutine，直到接收到退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msgf("Shutting down service %s...", info.ServiceName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 6. 按后进先出的顺序执行清理
	bgCancel()

	if naming != nil {
		if err := naming.DeregisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			log.Error().Err(err).Msg("error deregistering from nacos")
		}
	}

	// 关闭 Tracer Provider，确保所有缓冲的 trace 都被发送出去
	if err := tp.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error shutting down tracer provider")
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error shutting down http server")
	}

	log.Info().Msgf("Service %s gracefully shut down.", info.ServiceName)
}
