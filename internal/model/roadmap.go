package model

import (
	"gorm.io/datatypes"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

type PriorKnowledge string

const (
	PriorNone         PriorKnowledge = "none"
	PriorBeginner     PriorKnowledge = "beginner"
	PriorIntermediate PriorKnowledge = "intermediate"
	PriorAdvanced     PriorKnowledge = "advanced"
)

// swagger:model Roadmap
type Roadmap struct {
	UUIDBase
	UserID         string         `gorm:"size:191;index;not null" json:"userId"`
	Syllabus       string         `gorm:"type:text;not null" json:"syllabus"`
	Subject        string         `gorm:"size:255;not null" json:"subject"`
	Level          string         `gorm:"size:100" json:"level"`
	Exam           string         `gorm:"size:100" json:"exam"`
	Difficulty     Difficulty     `gorm:"size:20;not null" json:"difficulty"`
	CompletionTime int            `gorm:"not null" json:"completionTime"` // 周
	PriorKnowledge PriorKnowledge `gorm:"size:20;not null" json:"priorKnowledge"`
	Items          []RoadmapItem  `gorm:"foreignKey:RoadmapID" json:"items,omitempty"`
}

func (Roadmap) TableName() string {
	return "roadmaps"
}

// RoadmapItem 路线图中的一个主题
// CompletedSubtopics 必须是 Subtopics 的子集，Version 用于乐观锁
type RoadmapItem struct {
	UUIDBase
	RoadmapID          string                      `gorm:"index;type:varchar(36);not null" json:"roadmapId"`
	Position           int                         `gorm:"default:0" json:"position"`
	Name               string                      `gorm:"size:255;not null" json:"name"`
	Subtopics          datatypes.JSONSlice[string] `json:"subtopics"`
	CompletedSubtopics datatypes.JSONSlice[string] `json:"completedSubtopics"`
	CompletionTime     int                         `gorm:"default:0" json:"completionTime"`
	Resources          datatypes.JSONSlice[string] `json:"resources"`
	YoutubeLink        string                      `gorm:"size:512" json:"youtubeLink"`
	Version            int                         `gorm:"not null;default:1" json:"version"`
}

func (RoadmapItem) TableName() string {
	return "roadmap_items"
}

// RoadmapItemSubtopic 每个主题下的每个子主题一行
// GeneratedText 是该子主题的讲解内容，同名子主题之间共享
type RoadmapItemSubtopic struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoadmapItemID string  `gorm:"index;type:varchar(36);not null" json:"roadmapItemId"`
	Name          string  `gorm:"size:255;index;not null" json:"name"`
	GeneratedText *string `gorm:"type:text" json:"generatedText,omitempty"`
}

func (RoadmapItemSubtopic) TableName() string {
	return "roadmap_item_subtopics"
}

func (i *RoadmapItem) HasSubtopic(name string) bool {
	for _, s := range i.Subtopics {
		if s == name {
			return true
		}
	}
	return false
}

func (i *RoadmapItem) IsCompleted(name string) bool {
	for _, s := range i.CompletedSubtopics {
		if s == name {
			return true
		}
	}
	return false
}
