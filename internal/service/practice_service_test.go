package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fibu_trainer_backend/internal/config"
	"fibu_trainer_backend/internal/model"
)

func pool(taskType model.TaskType, n int) []model.Task {
	tasks := make([]model.Task, n)
	for i := range tasks {
		tasks[i] = model.Task{ID: uint(i + 1), Type: taskType}
	}
	return tasks
}

func TestComposeFrom(t *testing.T) {
	t.Run("fills the target from a large balanced pool", func(t *testing.T) {
		byType := map[model.TaskType][]model.Task{
			model.TaskBooking:        pool(model.TaskBooking, 20),
			model.TaskMultipleChoice: pool(model.TaskMultipleChoice, 20),
			model.TaskText:           pool(model.TaskText, 20),
			model.TaskDragDrop:       pool(model.TaskDragDrop, 20),
		}

		got := composeFrom(byType, 17)
		require.Len(t, got, 17)

		// ceil(17/4) = 5 per type at most.
		counts := map[model.TaskType]int{}
		for _, task := range got {
			counts[task.Type]++
		}
		for taskType, n := range counts {
			assert.LessOrEqual(t, n, 5, fmt.Sprintf("type %s over its share", taskType))
		}
	})

	t.Run("small pool comes back whole", func(t *testing.T) {
		byType := map[model.TaskType][]model.Task{
			model.TaskBooking: pool(model.TaskBooking, 3),
			model.TaskText:    pool(model.TaskText, 2),
		}

		got := composeFrom(byType, 17)
		assert.Len(t, got, 5)
	})

	t.Run("single type pool caps at the target", func(t *testing.T) {
		byType := map[model.TaskType][]model.Task{
			model.TaskBooking: pool(model.TaskBooking, 40),
		}

		got := composeFrom(byType, 17)
		assert.Len(t, got, 17)
	})

	t.Run("empty pool yields an empty exam", func(t *testing.T) {
		assert.Empty(t, composeFrom(nil, 17))
		assert.Empty(t, composeFrom(map[model.TaskType][]model.Task{}, 17))
	})

	t.Run("no duplicates within one exam", func(t *testing.T) {
		byType := map[model.TaskType][]model.Task{
			model.TaskBooking: pool(model.TaskBooking, 20),
			model.TaskText:    pool(model.TaskText, 20),
		}

		got := composeFrom(byType, 17)
		seen := map[string]bool{}
		for _, task := range got {
			key := fmt.Sprintf("%s-%d", task.Type, task.ID)
			assert.False(t, seen[key], "duplicate task in exam")
			seen[key] = true
		}
	})
}

func TestComposeExam(t *testing.T) {
	db := newTestDB(t)
	taskService := newTestTaskService(t, db)
	cfg := &config.Config{}
	cfg.Practice.ExamSize = 4
	svc := NewPracticeService(taskService, cfg)

	for i := 0; i < 6; i++ {
		_, err := taskService.Create(adminClaims(), CreateTaskInput{Type: "booking", Content: bookingContent()})
		require.NoError(t, err)
	}

	got, err := svc.ComposeExam(userClaims("u@example.com"), TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 4)
}
