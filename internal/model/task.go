package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type TaskType string

const (
	TaskBooking        TaskType = "booking"
	TaskMultipleChoice TaskType = "multiple-choice"
	TaskText           TaskType = "text"
	TaskDragDrop       TaskType = "drag-drop"
)

// CreatedByNA marks tasks without a personal owner: public tasks
// authored by an admin and bulk-imported tasks.
const CreatedByNA = "N/A"

// Display aliases the client uses, mapped to canonical types.
var taskTypeAliases = map[string]TaskType{
	"kreuze":          TaskDragDrop,
	"buchungen":       TaskBooking,
	"lueckentext":     TaskText,
	"booking":         TaskBooking,
	"multiple-choice": TaskMultipleChoice,
	"text":            TaskText,
	"drag-drop":       TaskDragDrop,
}

// CanonicalTaskType maps a display alias onto its canonical task type.
// Unknown values are returned unchanged with ok=false.
func CanonicalTaskType(display string) (TaskType, bool) {
	if t, ok := taskTypeAliases[strings.ToLower(strings.TrimSpace(display))]; ok {
		return t, true
	}
	return TaskType(display), false
}

// ValidTaskTypes lists the canonical set, sorted, for error messages.
func ValidTaskTypes() []string {
	types := []string{
		string(TaskBooking),
		string(TaskMultipleChoice),
		string(TaskText),
		string(TaskDragDrop),
	}
	sort.Strings(types)
	return types
}

// Booking is one journal-entry line: debit account, credit account,
// amount.
type Booking struct {
	Soll   string  `json:"soll"`
	Haben  string  `json:"haben"`
	Betrag float64 `json:"betrag"`
}

// TaskContent is the variant payload of a task, keyed by Task.Type.
// Only the fields of the active variant are populated; Validate
// enforces the shape on write.
type TaskContent struct {
	// booking
	Scenario string    `json:"scenario,omitempty"`
	Bookings []Booking `json:"bookings,omitempty"`

	// multiple-choice
	Question      string   `json:"question,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer *float64 `json:"correctanswer,omitempty"`

	// text (Lückentext)
	Text    string   `json:"text,omitempty"`
	Answers []string `json:"answers,omitempty"`

	// drag-drop (Kontenkreuz)
	Account        string   `json:"account,omitempty"`
	Soll           []string `json:"soll,omitempty"`
	Haben          []string `json:"haben,omitempty"`
	InitialSide    string   `json:"initialside,omitempty"`
	Anfangsbestand *float64 `json:"anfangsbestand,omitempty"`
	Saldo          *float64 `json:"saldo,omitempty"`
}

// IsEmpty reports whether no content field at all is populated.
func (c TaskContent) IsEmpty() bool {
	return c.Scenario == "" && len(c.Bookings) == 0 &&
		c.Question == "" && len(c.Options) == 0 && c.CorrectAnswer == nil &&
		c.Text == "" && len(c.Answers) == 0 &&
		c.Account == "" && len(c.Soll) == 0 && len(c.Haben) == 0 &&
		c.InitialSide == "" && c.Anfangsbestand == nil && c.Saldo == nil
}

// Validate checks the content shape for the given task type.
func (c TaskContent) Validate(t TaskType) error {
	switch t {
	case TaskBooking:
		if len(c.Bookings) == 0 {
			return fmt.Errorf("booking task requires at least one booking")
		}
		for i, b := range c.Bookings {
			if b.Soll == "" || b.Haben == "" {
				return fmt.Errorf("booking %d requires soll and haben accounts", i+1)
			}
		}
	case TaskMultipleChoice:
		if c.Question == "" {
			return fmt.Errorf("multiple-choice task requires a question")
		}
		if len(c.Options) < 2 {
			return fmt.Errorf("multiple-choice task requires at least two options")
		}
		if c.CorrectAnswer == nil {
			return fmt.Errorf("multiple-choice task requires a correctanswer")
		}
		if idx := int(*c.CorrectAnswer); idx < 0 || idx >= len(c.Options) {
			return fmt.Errorf("correctanswer %d is out of range for %d options", idx, len(c.Options))
		}
	case TaskText:
		if c.Text == "" {
			return fmt.Errorf("text task requires a text")
		}
		if len(c.Answers) == 0 {
			return fmt.Errorf("text task requires answers")
		}
	case TaskDragDrop:
		if c.Account == "" {
			return fmt.Errorf("drag-drop task requires an account")
		}
		if len(c.Soll) == 0 && len(c.Haben) == 0 {
			return fmt.Errorf("drag-drop task requires soll or haben entries")
		}
	default:
		return fmt.Errorf("invalid task type %q, must be one of: %s", t, strings.Join(ValidTaskTypes(), ", "))
	}
	return nil
}

// swagger:model Task
type Task struct {
	// Sequential ids come from the counter allocator, never from
	// autoincrement; ids are unique forever and never reused.
	ID        uint        `gorm:"primaryKey" json:"id"`
	Type      TaskType    `gorm:"size:20;not null;index" json:"type"`
	Content   TaskContent `gorm:"serializer:json" json:"content"`
	Tags      []string    `gorm:"serializer:json" json:"tags"`
	IsPublic  bool        `gorm:"default:false;index" json:"isPublic"`
	CreatedBy string      `gorm:"size:100;index" json:"createdBy"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (Task) TableName() string {
	return "tasks"
}

// HasAllTags reports whether the task carries every tag in want
// (AND semantics).
func (t *Task) HasAllTags(want []string) bool {
	for _, w := range want {
		found := false
		for _, have := range t.Tags {
			if have == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
