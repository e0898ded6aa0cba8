package service

import (
	"context"

	"github.com/haierkeys/team-notes-service/internal/domain"
	"github.com/haierkeys/team-notes-service/internal/dto"
	"github.com/haierkeys/team-notes-service/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// 数据库状态取值
const (
	DatabaseStatusOK           = "ok"
	DatabaseStatusError        = "error"
	DatabaseStatusUnconfigured = "unconfigured"
)

// StatusService 服务与存储健康状态探测
type StatusService interface {
	// Check 返回服务与数据库的可用状态
	Check(ctx context.Context) *dto.Status
}

// statusService 实现 StatusService 接口
// 并发探测经 singleflight 合并，避免探活风暴打到数据库
type statusService struct {
	noteRepo domain.NoteRepository
	sf       *singleflight.Group
	logger   *zap.Logger
}

// NewStatusService 创建 StatusService 实例
func NewStatusService(noteRepo domain.NoteRepository, lg *zap.Logger) StatusService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &statusService{
		noteRepo: noteRepo,
		sf:       &singleflight.Group{},
		logger:   lg,
	}
}

// Check 返回服务与数据库的可用状态
func (s *statusService) Check(ctx context.Context) *dto.Status {
	status := &dto.Status{Service: "ok"}

	if s.noteRepo == nil {
		status.Database = DatabaseStatusUnconfigured
		return status
	}

	_, err, _ := s.sf.Do("database-ping", func() (interface{}, error) {
		return nil, s.noteRepo.Ping(ctx)
	})
	if err != nil {
		s.logger.Warn("database ping failed",
			zap.String(logger.FieldMethod, "StatusService.Check"),
			zap.Error(err),
		)
		status.Database = DatabaseStatusError
		return status
	}

	status.Database = DatabaseStatusOK
	return status
}
