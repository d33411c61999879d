package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-hire-go/internal/api/handler"
	"ai-hire-go/internal/api/router"
	"ai-hire-go/internal/config"
	"ai-hire-go/internal/logger"
	"ai-hire-go/internal/parser"
	"ai-hire-go/internal/storage"
	"ai-hire-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"
)

// @title AI Hire API
// @version 1.0
// @description 候选人评分与排名服务
// @BasePath /api/v1
func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("加载配置失败")
	}

	logger.Init(logger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	// 让Hertz内部日志也走zerolog
	glog.SetLogger(hertzadapter.From(logger.Logger))
	logger.Info().Msg("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, &cfg.Tracing)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化链路追踪失败")
	}

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化存储失败")
	}
	defer storageManager.Close()
	logger.Info().Msg("存储服务初始化成功")

	// PDF提取器初始化失败不阻断启动，申请流程自动进入降级评分
	pdfExtractor, err := parser.NewPDFTextExtractor(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("创建PDF提取器失败，简历将按降级路径评分")
		pdfExtractor = nil
	}

	authHandler := handler.NewAuthHandler(cfg, storageManager)
	if err := authHandler.EnsureDefaultAdmin(ctx); err != nil {
		logger.Fatal().Err(err).Msg("初始化默认管理员失败")
	}

	handlers := &router.Handlers{
		Auth:        authHandler,
		Job:         handler.NewJobHandler(cfg, storageManager),
		Application: handler.NewApplicationHandler(cfg, storageManager, pdfExtractor),
		Test:        handler.NewTestHandler(cfg, storageManager),
		Interview:   handler.NewInterviewHandler(cfg, storageManager),
		Report:      handler.NewReportHandler(cfg, storageManager),
	}

	tracer, tracerCfg := hertztracing.NewServerTracer()
	h := server.New(
		tracer,
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(hertztracing.ServerMiddleware(tracerCfg))

	router.Register(h, cfg, handlers)
	logger.Info().Str("address", cfg.Server.Address).Msg("HTTP路由注册成功，服务器启动中")

	go func() {
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("链路追踪关停失败")
	}
	logger.Info().Msg("优雅退出完成")
}
