package repository

import (
	"clarity_hub_backend/internal/model"
	"clarity_hub_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) CreateWithItems(ctx context.Context, quiz *model.Quiz, items []model.QuizItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(quiz).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		for i := range items {
			items[i].QuizID = quiz.ID
			items[i].Position = i
		}
		if err := tx.CreateInBatches(&items, 100).Error; err != nil {
			return err
		}

		quiz.Items = items
		return nil
	})
}

func (r *QuizRepository) FindByID(ctx context.Context, id string, withItems bool) (*model.Quiz, error) {
	query := r.DB.WithContext(ctx)
	if withItems {
		query = query.Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		})
	}

	var q model.Quiz
	err := query.First(&q, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ListByUser 列表只需要题目数量，题目只加载 id 和 quiz_id
func (r *QuizRepository) ListByUser(ctx context.Context, userID string) ([]model.Quiz, error) {
	var qs []model.Quiz
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "quiz_id")
		}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&qs).Error
	return qs, err
}

// UpdateScore 覆盖写入分数，不保留历史
func (r *QuizRepository) UpdateScore(ctx context.Context, id string, score float64) error {
	res := r.DB.WithContext(ctx).
		Model(&model.Quiz{}).
		Where("id = ?", id).
		Update("score", score)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrQuizNotFound
	}
	return nil
}
