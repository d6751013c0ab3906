package repository

import (
	"clarity_hub_backend/internal/model"
	"clarity_hub_backend/internal/util"
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoadmapRepository struct {
	DB *gorm.DB
}

func NewRoadmapRepository(db *gorm.DB) *RoadmapRepository {
	return &RoadmapRepository{DB: db}
}

// CreateWithItems 在同一个事务中写入路线图、主题和子主题索引
func (r *RoadmapRepository) CreateWithItems(ctx context.Context, roadmap *model.Roadmap, items []model.RoadmapItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(roadmap).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		var index []model.RoadmapItemSubtopic
		for i := range items {
			item := &items[i]
			if item.ID == "" {
				item.ID = model.GenerateUUID()
			}
			item.RoadmapID = roadmap.ID
			item.Position = i
			item.Version = 1
			if item.CompletedSubtopics == nil {
				item.CompletedSubtopics = datatypes.JSONSlice[string]{}
			}
			for _, name := range item.Subtopics {
				index = append(index, model.RoadmapItemSubtopic{RoadmapItemID: item.ID, Name: name})
			}
		}

		if err := tx.CreateInBatches(&items, 100).Error; err != nil {
			return err
		}
		if len(index) > 0 {
			if err := tx.CreateInBatches(&index, 200).Error; err != nil {
				return err
			}
		}

		roadmap.Items = items
		return nil
	})
}

func (r *RoadmapRepository) FindByID(ctx context.Context, id string) (*model.Roadmap, error) {
	var m model.Roadmap
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRoadmapNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *RoadmapRepository) ListByUser(ctx context.Context, userID string) ([]model.Roadmap, error) {
	var ms []model.Roadmap
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&ms).Error
	return ms, err
}

// UpdateCompletedSubtopics 按版本号条件更新，版本不一致时返回 ErrProgressConflict
func (r *RoadmapRepository) UpdateCompletedSubtopics(ctx context.Context, itemID string, version int, completed []string) error {
	res := r.DB.WithContext(ctx).
		Model(&model.RoadmapItem{}).
		Where("id = ? AND version = ?", itemID, version).
		Updates(map[string]interface{}{
			"completed_subtopics": datatypes.JSONSlice[string](completed),
			"version":             gorm.Expr("version + ?", 1),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrProgressConflict
	}
	return nil
}

// FindGeneratedText 查找任意一行同名且已有讲解内容的子主题
func (r *RoadmapRepository) FindGeneratedText(ctx context.Context, subtopic string) (string, bool, error) {
	var row model.RoadmapItemSubtopic
	err := r.DB.WithContext(ctx).
		Where("name = ?", subtopic).
		Where("generated_text IS NOT NULL AND generated_text <> ?", "").
		Order("id asc").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if row.GeneratedText == nil {
		return "", false, nil
	}
	return *row.GeneratedText, true, nil
}

// SaveGeneratedText 把讲解内容写入所有同名子主题，返回更新行数（即包含它的主题数）
func (r *RoadmapRepository) SaveGeneratedText(ctx context.Context, subtopic, text string) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&model.RoadmapItemSubtopic{}).
		Where("name = ?", subtopic).
		Update("generated_text", text)
	return res.RowsAffected, res.Error
}

// PendingSubtopics 按名称排序返回还没有讲解内容的子主题
func (r *RoadmapRepository) PendingSubtopics(ctx context.Context, limit int) ([]string, error) {
	db := r.DB.WithContext(ctx)
	generated := db.Model(&model.RoadmapItemSubtopic{}).
		Select("name").
		Where("generated_text IS NOT NULL AND generated_text <> ?", "")

	query := db.Model(&model.RoadmapItemSubtopic{}).
		Where("name NOT IN (?)", generated).
		Order("name asc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var names []string
	if err := query.Distinct().Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}
