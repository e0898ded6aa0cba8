// Package service 实现业务逻辑层
package service

import (
	"errors"

	"github.com/haierkeys/team-notes-service/pkg/code"

	"gorm.io/gorm"
)

// dbError 将存储层错误映射为带详情的数据库错误码
func dbError(err error) *code.Code {
	return code.ErrorDBQuery.WithDetails(err.Error())
}

// isNotFound 判断存储层错误是否为记录不存在
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
