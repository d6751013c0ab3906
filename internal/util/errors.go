package util

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("conflict")
	ErrUpstream        = errors.New("upstream failure")
)

var (
	ErrRoadmapNotFound  = Describe(ErrNotFound, "Roadmap not found")
	ErrTopicNotFound    = Describe(ErrNotFound, "Topic not found in roadmap")
	ErrSubtopicNotFound = Describe(ErrNotFound, "Subtopic not found in topic")
	ErrQuizNotFound     = Describe(ErrNotFound, "Quiz not found")
	ErrProgressConflict = Describe(ErrConflict, "Progress was updated concurrently, please retry")
)

// describedError 给分类错误附上面向调用方的提示信息
type describedError struct {
	kind    error
	message string
}

func (e *describedError) Error() string { return e.message }

func (e *describedError) Unwrap() error { return e.kind }

func Describe(kind error, message string) error {
	return &describedError{kind: kind, message: message}
}

// FieldIssue 单个字段的校验问题
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Issues: []FieldIssue{{Field: field, Message: message}}}
}

// UpstreamError 内容生成服务调用失败或返回了不可用的数据
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream returned status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }
