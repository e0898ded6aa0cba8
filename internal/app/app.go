package app

import (
	"fmt"

	"github.com/haierkeys/team-notes-service/internal/dao"
	"github.com/haierkeys/team-notes-service/internal/domain"
	"github.com/haierkeys/team-notes-service/internal/service"
	pkgapp "github.com/haierkeys/team-notes-service/pkg/app"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// Repository 层
	// 未配置数据库时为 nil，service 层据此返回不可用错误
	NoteRepo domain.NoteRepository

	// Service 层
	NoteService   service.NoteService
	StatusService service.StatusService

	// 基础设施组件
	TokenManager pkgapp.TokenManager
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接，nil 表示未配置数据库，笔记接口降级为不可用
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	a := &App{
		config: cfg,
		logger: logger,
		DB:     db,
	}

	if db != nil {
		a.Dao = dao.New(db, nil, dao.WithLogger(logger))
		a.NoteRepo = dao.NewNoteRepository(a.Dao)
	}

	a.NoteService = service.NewNoteService(a.NoteRepo, logger)
	a.StatusService = service.NewStatusService(a.NoteRepo, logger)

	a.TokenManager = pkgapp.NewTokenManager(cfg.GetTokenConfig())

	return a, nil
}

// Config 返回应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 返回日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Close 释放应用资源
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
