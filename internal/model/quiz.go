package model

import (
	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	Mixed          QuestionType = "mixed"
)

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	UserID       string       `gorm:"size:191;index;not null" json:"userId"`
	Topic        string       `gorm:"size:255;not null" json:"topic"`
	Difficulty   Difficulty   `gorm:"size:20" json:"difficulty"`
	QuestionType QuestionType `gorm:"size:20" json:"questionType"`
	Score        *float64     `json:"score"` // 0-100，未作答时为空
	Items        []QuizItem   `gorm:"foreignKey:QuizID" json:"items,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizItem Answer 必须是 Options 中的一项
type QuizItem struct {
	UUIDBase
	QuizID   string                      `gorm:"index;type:varchar(36);not null" json:"quizId"`
	Position int                         `gorm:"default:0" json:"position"`
	Question string                      `gorm:"type:text;not null" json:"question"`
	Options  datatypes.JSONSlice[string] `json:"options"`
	Answer   string                      `gorm:"type:text;not null" json:"answer"`
}

func (QuizItem) TableName() string {
	return "quiz_items"
}
