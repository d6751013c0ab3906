package service

import (
	"clarity_hub_backend/internal/util"
	"clarity_hub_backend/pkg/logger"
	"clarity_hub_backend/pkg/monitoring"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SubtopicDetailService 子主题讲解内容的读穿缓存
// 查找顺序：Redis -> 数据库 -> 生成服务。内容按子主题名称全局共享
type SubtopicDetailService struct {
	Store     SubtopicDetailStore
	Cache     DetailCache
	Generator ContentGenerator
	TTL       time.Duration

	group singleflight.Group
}

func NewSubtopicDetailService(store SubtopicDetailStore, cache DetailCache, generator ContentGenerator, ttl time.Duration) *SubtopicDetailService {
	return &SubtopicDetailService{
		Store:     store,
		Cache:     cache,
		Generator: generator,
		TTL:       ttl,
	}
}

type SubtopicDetailResponse struct {
	Details string `json:"details"`
}

func (s *SubtopicDetailService) GetDetail(ctx context.Context, userID, name string) (string, error) {
	if userID == "" {
		return "", util.ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", util.NewValidationError("name", "is required")
	}

	if s.Cache != nil {
		text, ok, err := s.Cache.Get(ctx, name)
		if err != nil {
			logger.Log.Warn("读取子主题缓存失败", zap.String("subtopic", name), zap.Error(err))
		} else if ok {
			monitoring.DetailCacheLookups.WithLabelValues("redis").Inc()
			return text, nil
		}
	}

	text, ok, err := s.Store.FindGeneratedText(ctx, name)
	if err != nil {
		return "", fmt.Errorf("find subtopic detail: %w", err)
	}
	if ok {
		monitoring.DetailCacheLookups.WithLabelValues("db").Inc()
		s.remember(ctx, name, text)
		return text, nil
	}

	return s.load(ctx, name)
}

// load 同名子主题的并发未命中只调用一次生成服务
func (s *SubtopicDetailService) load(ctx context.Context, name string) (string, error) {
	v, err, _ := s.group.Do(name, func() (interface{}, error) {
		return s.generate(context.WithoutCancel(ctx), name)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Warm 为还没有讲解内容的子主题预先生成，单个失败只记录日志，返回成功数量
func (s *SubtopicDetailService) Warm(ctx context.Context, limit int) (int, error) {
	names, err := s.Store.PendingSubtopics(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list pending subtopics: %w", err)
	}

	warmed := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}
		if _, err := s.load(ctx, name); err != nil {
			logger.Log.Warn("预生成子主题讲解失败", zap.String("subtopic", name), zap.Error(err))
			continue
		}
		warmed++
	}

	logger.Log.Info("子主题讲解预生成完成", zap.Int("pending", len(names)), zap.Int("warmed", warmed))
	return warmed, nil
}

func (s *SubtopicDetailService) generate(ctx context.Context, name string) (string, error) {
	// 等待期间可能已被其他请求写入
	if text, ok, err := s.Store.FindGeneratedText(ctx, name); err == nil && ok {
		monitoring.DetailCacheLookups.WithLabelValues("db").Inc()
		return text, nil
	}

	monitoring.DetailCacheLookups.WithLabelValues("miss").Inc()
	text, err := s.Generator.GenerateSubtopicDetail(ctx, name)
	if err != nil {
		return "", err
	}

	rows, err := s.Store.SaveGeneratedText(ctx, name, text)
	if err != nil {
		return "", fmt.Errorf("save subtopic detail: %w", err)
	}
	logger.Log.Debug("子主题讲解已生成", zap.String("subtopic", name), zap.Int64("items", rows))

	s.remember(ctx, name, text)
	return text, nil
}

func (s *SubtopicDetailService) remember(ctx context.Context, name, text string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, name, text, s.TTL); err != nil {
		logger.Log.Warn("写入子主题缓存失败", zap.String("subtopic", name), zap.Error(err))
	}
}
