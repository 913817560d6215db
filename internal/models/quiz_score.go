package models

// QuizScoreModel stores the result of a submitted quiz.
type QuizScoreModel struct {
	Base
	UserID     string `json:"-"          gorm:"index;not null"`
	Topic      string `json:"topic"      gorm:"not null"`
	Score      int    `json:"score"      gorm:"not null"`
	Total      int    `json:"total"      gorm:"not null"`
	Difficulty string `json:"difficulty" gorm:"not null"`
	Provider   string `json:"provider"`
}

func (QuizScoreModel) TableName() string { return "quiz_scores" }
