package service

import (
	"clarity_hub_backend/internal/model"
	"clarity_hub_backend/internal/util"
	"clarity_hub_backend/pkg/logger"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type QuizService struct {
	Store     QuizStore
	Generator ContentGenerator
}

func NewQuizService(store QuizStore, generator ContentGenerator) *QuizService {
	return &QuizService{
		Store:     store,
		Generator: generator,
	}
}

// CreateQuizRequest questionCount 可以是数字或数字字符串
// 范围与 util.MinQuestionCount / util.MaxQuestionCount 保持一致
type CreateQuizRequest struct {
	Topic         string             `json:"topic" binding:"required,max=255"`
	Difficulty    model.Difficulty   `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	QuestionCount util.FlexInt       `json:"questionCount" binding:"required,min=1,max=30"`
	QuestionType  model.QuestionType `json:"questionType" binding:"required,oneof=multiple-choice true-false mixed"`
}

type RecordScoreRequest struct {
	Score *float64 `json:"score" binding:"required,gte=0,lte=100"`
}

type QuestionView struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

type QuizView struct {
	Topic     string         `json:"topic"`
	Questions []QuestionView `json:"questions"`
}

// ScoreView 记录分数后返回的测验信息
type ScoreView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Topic     string    `json:"topic"`
	Score     *float64  `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

type QuizSummary struct {
	ID            string    `json:"id"`
	Topic         string    `json:"topic"`
	Score         *float64  `json:"score"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (s *QuizService) Create(ctx context.Context, userID string, req *CreateQuizRequest) (string, error) {
	if userID == "" {
		return "", util.ErrUnauthenticated
	}
	if err := util.ValidateStruct(req); err != nil {
		return "", err
	}

	questions, err := s.Generator.GenerateQuiz(ctx, QuizPrompt{
		Topic:         req.Topic,
		Difficulty:    string(req.Difficulty),
		QuestionCount: req.QuestionCount.Int(),
		QuestionType:  string(req.QuestionType),
	})
	if err != nil {
		return "", err
	}

	quiz := &model.Quiz{
		UserID:       userID,
		Topic:        req.Topic,
		Difficulty:   req.Difficulty,
		QuestionType: req.QuestionType,
	}
	items := make([]model.QuizItem, 0, len(questions))
	for _, q := range questions {
		items = append(items, model.QuizItem{
			Question: q.Question,
			Options:  datatypes.JSONSlice[string](q.Options),
			Answer:   q.Answer,
		})
	}

	if err := s.Store.CreateWithItems(ctx, quiz, items); err != nil {
		return "", fmt.Errorf("save quiz: %w", err)
	}

	logger.Log.Info("测验已创建",
		zap.String("quiz_id", quiz.ID),
		zap.String("user_id", userID),
		zap.Int("questions", len(items)))
	return quiz.ID, nil
}

func (s *QuizService) Get(ctx context.Context, userID, id string) (*QuizView, error) {
	quiz, err := s.findOwned(ctx, userID, id, true)
	if err != nil {
		return nil, err
	}

	view := &QuizView{
		Topic:     quiz.Topic,
		Questions: make([]QuestionView, 0, len(quiz.Items)),
	}
	for _, item := range quiz.Items {
		view.Questions = append(view.Questions, QuestionView{
			ID:       item.ID,
			Question: item.Question,
			Options:  []string(item.Options),
			Answer:   item.Answer,
		})
	}
	return view, nil
}

func (s *QuizService) List(ctx context.Context, userID string) ([]QuizSummary, error) {
	if userID == "" {
		return nil, util.ErrUnauthenticated
	}

	quizzes, err := s.Store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		summaries = append(summaries, QuizSummary{
			ID:            q.ID,
			Topic:         q.Topic,
			Score:         q.Score,
			QuestionCount: len(q.Items),
			CreatedAt:     q.CreatedAt,
		})
	}
	return summaries, nil
}

// RecordScore 覆盖测验分数，最后一次写入为准
func (s *QuizService) RecordScore(ctx context.Context, userID, id string, req *RecordScoreRequest) (*ScoreView, error) {
	quiz, err := s.findOwned(ctx, userID, id, false)
	if err != nil {
		return nil, err
	}
	if err := util.ValidateStruct(req); err != nil {
		return nil, err
	}

	score := *req.Score
	if err := s.Store.UpdateScore(ctx, quiz.ID, score); err != nil {
		return nil, err
	}
	quiz.Score = &score

	return &ScoreView{
		ID:        quiz.ID,
		UserID:    quiz.UserID,
		Topic:     quiz.Topic,
		Score:     quiz.Score,
		CreatedAt: quiz.CreatedAt,
	}, nil
}

func (s *QuizService) findOwned(ctx context.Context, userID, id string, withItems bool) (*model.Quiz, error) {
	if userID == "" {
		return nil, util.ErrUnauthenticated
	}
	quiz, err := s.Store.FindByID(ctx, id, withItems)
	if err != nil {
		return nil, err
	}
	if quiz.UserID != userID {
		return nil, util.ErrForbidden
	}
	return quiz, nil
}
