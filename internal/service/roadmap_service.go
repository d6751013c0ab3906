package service

import (
	"clarity_hub_backend/internal/model"
	"clarity_hub_backend/internal/util"
	"clarity_hub_backend/pkg/logger"
	"clarity_hub_backend/pkg/monitoring"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type RoadmapService struct {
	Store     RoadmapStore
	Generator ContentGenerator
}

func NewRoadmapService(store RoadmapStore, generator ContentGenerator) *RoadmapService {
	return &RoadmapService{
		Store:     store,
		Generator: generator,
	}
}

// CreateRoadmapRequest 生成路线图的请求结构
type CreateRoadmapRequest struct {
	Subject        string               `json:"subject" binding:"required,max=255"`
	Level          string               `json:"level" binding:"max=100"`
	Exam           string               `json:"exam" binding:"max=100"`
	Topic          string               `json:"topic" binding:"required"`
	Difficulty     model.Difficulty     `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	Timeline       string               `json:"timeline" binding:"required"`
	PriorKnowledge model.PriorKnowledge `json:"priorKnowledge" binding:"required,oneof=none beginner intermediate advanced"`
}

// UpdateProgressRequest 切换子主题完成状态
type UpdateProgressRequest struct {
	TopicName    string `json:"topicName" binding:"required"`
	SubtopicName string `json:"subtopicName" binding:"required"`
	IsCompleted  *bool  `json:"isCompleted" binding:"required"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type SubtopicView struct {
	Name        string `json:"name"`
	IsCompleted bool   `json:"isCompleted"`
}

type TopicView struct {
	Name        string         `json:"name"`
	Subtopics   []SubtopicView `json:"subtopics"`
	Resources   []string       `json:"resources"`
	YoutubeLink string         `json:"youtube_link"`
}

// RoadmapView 路线图详情
type RoadmapView struct {
	Topics         []TopicView `json:"topics"`
	CompletionTime int         `json:"completion_time"`
}

// RoadmapSummary 列表页使用，Progress 为完成百分比
type RoadmapSummary struct {
	ID             string           `json:"id"`
	Subject        string           `json:"subject"`
	Syllabus       string           `json:"syllabus"`
	Difficulty     model.Difficulty `json:"difficulty"`
	CompletionTime int              `json:"completion_time"`
	Progress       int              `json:"progress"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// Create 调用生成服务并在一个事务中保存路线图及其主题
func (s *RoadmapService) Create(ctx context.Context, userID string, req *CreateRoadmapRequest) (string, error) {
	if userID == "" {
		return "", util.ErrUnauthenticated
	}
	if err := util.ValidateStruct(req); err != nil {
		return "", err
	}

	weeks, ok := util.ParseLeadingInt(req.Timeline)
	if !ok || weeks < 1 {
		return "", util.NewValidationError("timeline", "must start with a positive number of weeks")
	}

	topics, err := s.Generator.GenerateRoadmap(ctx, RoadmapPrompt{
		Syllabus:       req.Topic,
		Subject:        req.Subject,
		ClassLevel:     req.Level,
		Exam:           req.Exam,
		Difficulty:     string(req.Difficulty),
		Timeline:       req.Timeline,
		PriorKnowledge: string(req.PriorKnowledge),
	})
	if err != nil {
		return "", err
	}

	roadmap := &model.Roadmap{
		UserID:         userID,
		Syllabus:       req.Topic,
		Subject:        req.Subject,
		Level:          req.Level,
		Exam:           req.Exam,
		Difficulty:     req.Difficulty,
		CompletionTime: weeks,
		PriorKnowledge: req.PriorKnowledge,
	}

	items := make([]model.RoadmapItem, 0, len(topics))
	for _, t := range topics {
		items = append(items, model.RoadmapItem{
			Name:               t.Name,
			Subtopics:          datatypes.JSONSlice[string](t.Subtopics),
			CompletedSubtopics: datatypes.JSONSlice[string]{},
			CompletionTime:     t.CompletionTime.Int(),
			Resources:          datatypes.JSONSlice[string](t.Resources),
			YoutubeLink:        t.YoutubeLink,
		})
	}

	if err := s.Store.CreateWithItems(ctx, roadmap, items); err != nil {
		return "", fmt.Errorf("save roadmap: %w", err)
	}

	logger.Log.Info("路线图已创建",
		zap.String("roadmap_id", roadmap.ID),
		zap.String("user_id", userID),
		zap.Int("topics", len(items)))
	return roadmap.ID, nil
}

func (s *RoadmapService) Get(ctx context.Context, userID, id string) (*RoadmapView, error) {
	roadmap, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	view := &RoadmapView{
		Topics:         make([]TopicView, 0, len(roadmap.Items)),
		CompletionTime: roadmap.CompletionTime,
	}
	for i := range roadmap.Items {
		item := &roadmap.Items[i]
		topic := TopicView{
			Name:        item.Name,
			Subtopics:   make([]SubtopicView, 0, len(item.Subtopics)),
			Resources:   []string(item.Resources),
			YoutubeLink: item.YoutubeLink,
		}
		if topic.Resources == nil {
			topic.Resources = []string{}
		}
		for _, name := range item.Subtopics {
			topic.Subtopics = append(topic.Subtopics, SubtopicView{Name: name, IsCompleted: item.IsCompleted(name)})
		}
		view.Topics = append(view.Topics, topic)
	}
	return view, nil
}

func (s *RoadmapService) List(ctx context.Context, userID string) ([]RoadmapSummary, error) {
	if userID == "" {
		return nil, util.ErrUnauthenticated
	}

	roadmaps, err := s.Store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list roadmaps: %w", err)
	}

	summaries := make([]RoadmapSummary, 0, len(roadmaps))
	for i := range roadmaps {
		r := &roadmaps[i]
		summaries = append(summaries, RoadmapSummary{
			ID:             r.ID,
			Subject:        r.Subject,
			Syllabus:       r.Syllabus,
			Difficulty:     r.Difficulty,
			CompletionTime: r.CompletionTime,
			Progress:       progressPercent(r.Items),
			CreatedAt:      r.CreatedAt,
		})
	}
	return summaries, nil
}

// UpdateProgress 按集合语义切换子主题完成状态，重复调用不会产生额外效果
// 版本冲突时重新读取并重试，最多 util.MaxProgressAttempts 次
func (s *RoadmapService) UpdateProgress(ctx context.Context, userID, roadmapID string, req *UpdateProgressRequest) error {
	roadmap, err := s.findOwned(ctx, userID, roadmapID)
	if err != nil {
		return err
	}

	req.TopicName = strings.TrimSpace(req.TopicName)
	req.SubtopicName = strings.TrimSpace(req.SubtopicName)
	if err := util.ValidateStruct(req); err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		item := findItemByName(roadmap.Items, req.TopicName)
		if item == nil {
			return util.ErrTopicNotFound
		}
		if !item.HasSubtopic(req.SubtopicName) {
			return util.ErrSubtopicNotFound
		}

		next, changed := toggleSubtopic(item.CompletedSubtopics, req.SubtopicName, *req.IsCompleted)
		if !changed {
			return nil
		}

		err := s.Store.UpdateCompletedSubtopics(ctx, item.ID, item.Version, next)
		if err == nil {
			return nil
		}
		if !errors.Is(err, util.ErrConflict) {
			return fmt.Errorf("update progress: %w", err)
		}

		monitoring.ProgressConflicts.Inc()
		if attempt >= util.MaxProgressAttempts {
			logger.Log.Warn("进度更新多次冲突",
				zap.String("roadmap_id", roadmapID),
				zap.String("item_id", item.ID),
				zap.Int("attempts", attempt))
			return util.ErrProgressConflict
		}

		roadmap, err = s.Store.FindByID(ctx, roadmapID)
		if err != nil {
			return err
		}
	}
}

func (s *RoadmapService) findOwned(ctx context.Context, userID, id string) (*model.Roadmap, error) {
	if userID == "" {
		return nil, util.ErrUnauthenticated
	}
	roadmap, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if roadmap.UserID != userID {
		return nil, util.ErrForbidden
	}
	return roadmap, nil
}

func findItemByName(items []model.RoadmapItem, name string) *model.RoadmapItem {
	for i := range items {
		if items[i].Name == name {
			return &items[i]
		}
	}
	return nil
}

// toggleSubtopic 返回新的完成集合以及是否有变化
func toggleSubtopic(completed []string, name string, done bool) ([]string, bool) {
	present := util.ContainsString(completed, name)
	if present == done {
		return completed, false
	}

	if done {
		next := make([]string, 0, len(completed)+1)
		next = append(next, completed...)
		return util.UniqueStrings(append(next, name)), true
	}

	next := make([]string, 0, len(completed))
	for _, s := range completed {
		if s != name {
			next = append(next, s)
		}
	}
	return util.UniqueStrings(next), true
}

func progressPercent(items []model.RoadmapItem) int {
	total, done := 0, 0
	for i := range items {
		total += len(items[i].Subtopics)
		for _, name := range items[i].Subtopics {
			if items[i].IsCompleted(name) {
				done++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) * 100 / float64(total)))
}
