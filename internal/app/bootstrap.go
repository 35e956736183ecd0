package app

import (
	"errors"

	"github.com/petshop-next/internal/authz"
	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/provider"
	"github.com/petshop-next/internal/router"
	"github.com/petshop-next/internal/worker"
)

// BuildRunner 按启动模式装配服务，容器在全部服务停止后关闭
func BuildRunner(opts Options) (*Runner, error) {
	opts = opts.withDefaults()
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	container := provider.NewContainer(cfg)

	var services []Service
	if opts.serves(ModeAPI) {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(listenAddr(cfg), engine))
	}
	if opts.serves(ModeWorker) {
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		switch {
		case err == nil:
			services = append(services, workerService)
		case errors.Is(err, worker.ErrQueueDisabled) && opts.Mode == ModeAll:
			// 单进程部署未开启队列：通知入队为空操作，不启动消费者
			opts.Logger.Warnw("worker_skipped", "reason", "queue disabled")
		default:
			container.Close()
			return nil, err
		}
	}
	if len(services) == 0 {
		container.Close()
		return nil, errors.New("no services initialized (check mode and config)")
	}

	runner := NewRunner(services...)
	runner.OnShutdown(container.Close)
	return runner, nil
}

func listenAddr(cfg *config.Config) string {
	return cfg.Server.Host + ":" + cfg.Server.Port
}

// EnsureDefaultAdmin 创建默认管理员并绑定 admin 角色，已存在时只补齐角色
func EnsureDefaultAdmin(roles *authz.Service, email, password string) (uint, error) {
	userID, err := models.InitDefaultAdmin(email, password)
	if err != nil {
		return 0, err
	}
	if roles == nil {
		return userID, errors.New("authz service unavailable")
	}
	current, err := roles.GetUserRoles(userID)
	if err != nil {
		return userID, err
	}
	adminRole, _ := authz.NormalizeRole(authz.RoleAdmin)
	for _, role := range current {
		if role == adminRole {
			return userID, nil
		}
	}
	if err := roles.SetUserRoles(userID, append(current, adminRole)); err != nil {
		return userID, err
	}
	logger.Infow("default_admin_role_bound", "user_id", userID, "role", adminRole)
	return userID, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = opts.withDefaults()
	runner, err := BuildRunner(opts)
	if err != nil {
		return err
	}
	opts.Logger.Infow("app_start", "addr", listenAddr(opts.Config), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
