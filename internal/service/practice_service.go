package service

import (
	"math/rand"

	"fibu_trainer_backend/internal/config"
	"fibu_trainer_backend/internal/model"
	"fibu_trainer_backend/internal/util"
)

// PracticeService composes practice exams from the visible task pool,
// balanced across task types. The exam size is read from the live
// config so hot reloads take effect without a restart.
type PracticeService struct {
	taskService *TaskService
	cfg         *config.Config
}

func NewPracticeService(taskService *TaskService, cfg *config.Config) *PracticeService {
	return &PracticeService{taskService: taskService, cfg: cfg}
}

// ComposeExam samples an exam-sized, shuffled task set for the
// requester, honoring the same type and tag filters as task listing.
// When the pool is smaller than the exam size the whole pool comes
// back shuffled.
func (s *PracticeService) ComposeExam(requester *util.Claims, filter TaskFilter) ([]model.Task, error) {
	tasks, err := s.taskService.List(requester, filter)
	if err != nil {
		return nil, err
	}

	byType := make(map[model.TaskType][]model.Task)
	for _, t := range tasks {
		byType[t.Type] = append(byType[t.Type], t)
	}

	return composeFrom(byType, s.cfg.Practice.ExamSize), nil
}

// composeFrom draws up to ceil(target/numTypes) tasks per type so no
// single type dominates, then shuffles the union and truncates to the
// target size.
func composeFrom(byType map[model.TaskType][]model.Task, target int) []model.Task {
	if target <= 0 || len(byType) == 0 {
		return []model.Task{}
	}

	maxPerType := (target + len(byType) - 1) / len(byType)

	var picked []model.Task
	for _, pool := range byType {
		rand.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		n := maxPerType
		if n > len(pool) {
			n = len(pool)
		}
		picked = append(picked, pool[:n]...)
	}

	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	if len(picked) > target {
		picked = picked[:target]
	}
	if picked == nil {
		picked = []model.Task{}
	}
	return picked
}
