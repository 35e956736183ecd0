package main

import (
	"flag"
	"os"
	"strings"
	"syscall"

	"github.com/petshop-next/internal/app"
	"github.com/petshop-next/internal/authz"
	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	var rawMode string
	flag.StringVar(&rawMode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	mode, err := app.ParseMode(rawMode)
	if err != nil {
		stdLog.Fatalf("启动参数错误: %v", err)
	}

	if isWeakSecret(cfg.UserJWT.SecretKey) {
		if cfg.Server.Mode == "release" {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
		logger.Warnw("jwt_secret_weak", "mode", cfg.Server.Mode)
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	adminEmail := os.Getenv("PS_DEFAULT_ADMIN_EMAIL")
	adminPass := os.Getenv("PS_DEFAULT_ADMIN_PASSWORD")
	if cfg.Server.Mode == "release" && adminPass == "" {
		logger.Warnw("default_admin_skipped", "reason", "PS_DEFAULT_ADMIN_PASSWORD not set")
	} else if err := bootstrapAdmin(adminEmail, adminPass); err != nil {
		logger.Warnw("default_admin_init_failed", "error", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func bootstrapAdmin(email, password string) error {
	roles, err := authz.NewService(models.DB)
	if err != nil {
		return err
	}
	if err := roles.BootstrapBuiltinRoles(); err != nil {
		return err
	}
	_, err = app.EnsureDefaultAdmin(roles, email, password)
	return err
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
