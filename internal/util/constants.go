package util

// 单个测验的题目数量范围，请求校验和生成结果校验共用
const (
	MinQuestionCount = 1
	MaxQuestionCount = 30
)

// 名称类字段的最大长度，与 size:255 的列一致
const MaxNameLength = 255

// 进度更新遇到并发冲突时的最大尝试次数
const MaxProgressAttempts = 3
