// Package convert 提供结构体转换辅助函数
package convert

import (
	"github.com/jinzhu/copier"
)

// StructAssign 把 src 与 dst 相同字段名的值复制到 dst 中
// dst 目标结构体指针，src 源结构体
func StructAssign(src any, dst any) any {
	_ = copier.Copy(dst, src)
	return dst
}
