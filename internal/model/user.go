package model

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// ExamTaskResult is the per-task outcome inside an exam record.
type ExamTaskResult struct {
	TaskID     uint   `json:"taskId"`
	IsCorrect  bool   `json:"isCorrect"`
	WrongValue string `json:"wrongValue,omitempty"`
}

// ExamRecord is one completed practice exam. Records are append-only;
// they are never mutated after being written.
type ExamRecord struct {
	Date       time.Time        `json:"date"`
	Correct    int              `json:"correct"`
	MaxPoints  int              `json:"maxPoints"`
	Percentage float64          `json:"percentage"`
	Grade      float64          `json:"grade"`
	Tags       []string         `json:"tags,omitempty"`
	Tasks      []ExamTaskResult `json:"tasks"`
}

// Badge is a gamification award. Membership in a user's badge set is
// monotonic: once awarded, a badge is never revoked.
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AwardedAt   time.Time `json:"awardedAt"`
}

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'user'" json:"role"`

	// Exam log and badge set live inside the user row, mirroring the
	// embedded arrays of the user document.
	Exams  []ExamRecord `gorm:"serializer:json" json:"exams"`
	Badges []Badge      `gorm:"serializer:json" json:"badges"`

	// Rolling aggregates, recomputed from the full exam history on
	// every recorded exam.
	TotalTasksSolved int     `gorm:"default:0" json:"totalTasksSolved"`
	ExamsTaken       int     `gorm:"default:0" json:"examsTaken"`
	AverageAccuracy  float64 `gorm:"default:0" json:"averageAccuracy"`
	AverageExamScore float64 `gorm:"default:0" json:"averageExamScore"`
	BestExamScore    float64 `gorm:"default:0" json:"bestExamScore"`
}

func (User) TableName() string {
	return "users"
}

// HasBadge reports whether the badge id is already in the user's set.
func (u *User) HasBadge(id string) bool {
	for _, b := range u.Badges {
		if b.ID == id {
			return true
		}
	}
	return false
}
