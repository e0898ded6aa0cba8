package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldMemberID 成员 ID 字段
	FieldMemberID = "memberId"

	// FieldOrganizationID 组织 ID 字段
	FieldOrganizationID = "organizationId"

	// FieldNoteID 笔记 ID 字段
	FieldNoteID = "noteId"

	// FieldVisibility 可见性字段
	FieldVisibility = "visibility"

	// FieldRoles 角色字段
	FieldRoles = "roles"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldError 错误信息字段
	FieldError = "error"
)
