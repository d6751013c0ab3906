package service

import (
	"clarity_hub_backend/internal/model"
	"context"
	"time"
)

// RoadmapStore 路线图持久化，由 repository.RoadmapRepository 实现
type RoadmapStore interface {
	CreateWithItems(ctx context.Context, roadmap *model.Roadmap, items []model.RoadmapItem) error
	FindByID(ctx context.Context, id string) (*model.Roadmap, error)
	ListByUser(ctx context.Context, userID string) ([]model.Roadmap, error)
	// UpdateCompletedSubtopics 仅当版本号仍为 version 时写入，否则返回冲突错误
	UpdateCompletedSubtopics(ctx context.Context, itemID string, version int, completed []string) error
}

// SubtopicDetailStore 子主题讲解内容的持久化
type SubtopicDetailStore interface {
	FindGeneratedText(ctx context.Context, subtopic string) (string, bool, error)
	SaveGeneratedText(ctx context.Context, subtopic, text string) (int64, error)
	// PendingSubtopics 还没有讲解内容的子主题名称，limit<=0 表示不限制
	PendingSubtopics(ctx context.Context, limit int) ([]string, error)
}

type QuizStore interface {
	CreateWithItems(ctx context.Context, quiz *model.Quiz, items []model.QuizItem) error
	FindByID(ctx context.Context, id string, withItems bool) (*model.Quiz, error)
	ListByUser(ctx context.Context, userID string) ([]model.Quiz, error)
	UpdateScore(ctx context.Context, id string, score float64) error
}

// DetailCache 数据库之前的一层缓存，可以为空
type DetailCache interface {
	Get(ctx context.Context, subtopic string) (string, bool, error)
	Set(ctx context.Context, subtopic, text string, ttl time.Duration) error
}
