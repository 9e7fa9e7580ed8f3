package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fibu_trainer_backend/internal/model"
	"fibu_trainer_backend/internal/repository"
	"fibu_trainer_backend/internal/util"
)

const (
	tagCacheKey = "tasks:tags"
	tagCacheTTL = 5 * time.Minute
)

// CreateTaskInput carries a new task from the handler. IsPublic is a
// pointer so "absent" and "false" stay distinguishable; the policy
// fills the default.
type CreateTaskInput struct {
	Type     string            `json:"type" binding:"required"`
	Content  model.TaskContent `json:"content" binding:"required"`
	Tags     []string          `json:"tags"`
	IsPublic *bool             `json:"isPublic"`
}

// UpdateTaskInput carries a full replacement of a task's mutable
// fields. Ownership and creation time never change on update.
type UpdateTaskInput struct {
	Type     string            `json:"type" binding:"required"`
	Content  model.TaskContent `json:"content" binding:"required"`
	Tags     []string          `json:"tags"`
	IsPublic *bool             `json:"isPublic"`
}

// TaskFilter narrows list queries. Types accepts display aliases;
// Tags filters with AND semantics.
type TaskFilter struct {
	Types []string
	Tags  []string
}

type TaskService struct {
	taskRepo    *repository.TaskRepository
	counterRepo *repository.CounterRepository
	policy      *TaskPolicy
	redis       *redis.Client
	logger      *zap.Logger
}

func NewTaskService(taskRepo *repository.TaskRepository, counterRepo *repository.CounterRepository, policy *TaskPolicy, rdb *redis.Client, logger *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		counterRepo: counterRepo,
		policy:      policy,
		redis:       rdb,
		logger:      logger,
	}
}

// Create validates, allocates a sequential id and stores the task.
func (s *TaskService) Create(requester *util.Claims, input CreateTaskInput) (*model.Task, error) {
	taskType, ok := model.CanonicalTaskType(input.Type)
	if !ok {
		return nil, fmt.Errorf("%w %q, must be one of: %s", util.ErrInvalidTaskType, input.Type, strings.Join(model.ValidTaskTypes(), ", "))
	}
	if err := input.Content.Validate(taskType); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidContent, err)
	}

	isPublic, createdBy := s.policy.CreateDefaults(requester, input.IsPublic)

	id, err := s.counterRepo.NextTaskID()
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		ID:        id,
		Type:      taskType,
		Content:   input.Content,
		Tags:      input.Tags,
		IsPublic:  isPublic,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}

	s.invalidateTagCache()
	return task, nil
}

// Get fetches a single task, enforcing the read policy.
func (s *TaskService) Get(requester *util.Claims, id uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	if !s.policy.CanRead(requester, task) {
		return nil, util.ErrPermissionDenied
	}
	return task, nil
}

// Update replaces type, content, tags and visibility of a task the
// requester may write. Id, creator and creation time are preserved.
func (s *TaskService) Update(requester *util.Claims, id uint, input UpdateTaskInput) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	if !s.policy.CanWrite(requester, task) {
		return nil, util.ErrPermissionDenied
	}

	taskType, ok := model.CanonicalTaskType(input.Type)
	if !ok {
		return nil, fmt.Errorf("%w %q, must be one of: %s", util.ErrInvalidTaskType, input.Type, strings.Join(model.ValidTaskTypes(), ", "))
	}
	if err := input.Content.Validate(taskType); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidContent, err)
	}

	task.Type = taskType
	task.Content = input.Content
	task.Tags = input.Tags
	if input.IsPublic != nil {
		task.IsPublic = *input.IsPublic
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}

	s.invalidateTagCache()
	return task, nil
}

// Delete removes a task the requester may delete.
func (s *TaskService) Delete(requester *util.Claims, id uint) error {
	task, err := s.taskRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrTaskNotFound
	}
	if err != nil {
		return err
	}
	if !s.policy.CanDelete(requester, task) {
		return util.ErrPermissionDenied
	}

	if err := s.taskRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTaskNotFound
		}
		return err
	}

	s.invalidateTagCache()
	return nil
}

// List returns the tasks visible to the requester, filtered by type
// aliases and tags. An unknown type alias is a caller error, not an
// empty result.
func (s *TaskService) List(requester *util.Claims, filter TaskFilter) ([]model.Task, error) {
	var types []model.TaskType
	for _, raw := range filter.Types {
		if raw == "" {
			continue
		}
		t, ok := model.CanonicalTaskType(raw)
		if !ok {
			return nil, fmt.Errorf("%w %q, must be one of: %s", util.ErrInvalidTaskType, raw, strings.Join(model.ValidTaskTypes(), ", "))
		}
		types = append(types, t)
	}

	restrictTo := ""
	if !requester.IsAdmin() {
		restrictTo = requester.Email
	}

	tasks, err := s.taskRepo.List(types, restrictTo)
	if err != nil {
		return nil, err
	}

	if len(filter.Tags) > 0 {
		filtered := tasks[:0]
		for i := range tasks {
			if tasks[i].HasAllTags(filter.Tags) {
				filtered = append(filtered, tasks[i])
			}
		}
		tasks = filtered
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// DistinctTags returns the sorted set of tags across all tasks the
// requester can see. The admin-scope set is cached in redis because it
// never depends on the requester; the per-user set is computed fresh.
func (s *TaskService) DistinctTags(ctx context.Context, requester *util.Claims) ([]string, error) {
	if requester.IsAdmin() && s.redis != nil {
		if cached, err := s.redis.Get(ctx, tagCacheKey).Result(); err == nil {
			var tags []string
			if json.Unmarshal([]byte(cached), &tags) == nil {
				return tags, nil
			}
		}
	}

	tasks, err := s.List(requester, TaskFilter{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var tags []string
	for i := range tasks {
		for _, tag := range tasks[i].Tags {
			if tag != "" && !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	if tags == nil {
		tags = []string{}
	}

	if requester.IsAdmin() && s.redis != nil {
		if data, err := json.Marshal(tags); err == nil {
			if err := s.redis.Set(ctx, tagCacheKey, data, tagCacheTTL).Err(); err != nil {
				s.logger.Warn("tag cache write failed", zap.Error(err))
			}
		}
	}
	return tags, nil
}

// invalidateTagCache drops the cached tag set after any task mutation.
// A dead redis only costs cache freshness, never correctness.
func (s *TaskService) invalidateTagCache() {
	if s.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.redis.Del(ctx, tagCacheKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("tag cache invalidation failed", zap.Error(err))
	}
}
