package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"fibu_trainer_backend/internal/model"
	"fibu_trainer_backend/internal/repository"
	"fibu_trainer_backend/internal/util"
	"fibu_trainer_backend/pkg/monitoring"
)

// ImportTaskInput is one element of a JSON bulk import. Imported
// tasks keep their given ids so that re-importing an export is a
// no-op; items without an id get counter-allocated ones.
type ImportTaskInput struct {
	ID        uint              `json:"id"`
	Type      string            `json:"type"`
	Content   model.TaskContent `json:"content"`
	Tags      []string          `json:"tags"`
	IsPublic  *bool             `json:"isPublic"`
	CreatedBy string            `json:"createdBy"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ImportResult reports what a bulk import actually changed.
type ImportResult struct {
	InsertedCount int          `json:"insertedCount"`
	Tasks         []model.Task `json:"tasks"`
}

type ImportService struct {
	taskRepo    *repository.TaskRepository
	counterRepo *repository.CounterRepository
	taskService *TaskService
	storage     *StorageService
	logger      *zap.Logger
}

func NewImportService(taskRepo *repository.TaskRepository, counterRepo *repository.CounterRepository, taskService *TaskService, storage *StorageService, logger *zap.Logger) *ImportService {
	return &ImportService{
		taskRepo:    taskRepo,
		counterRepo: counterRepo,
		taskService: taskService,
		storage:     storage,
		logger:      logger,
	}
}

// Export returns every task, optionally narrowed to one type alias.
// The export surface deliberately skips visibility filtering.
func (s *ImportService) Export(typeFilter string) ([]model.Task, error) {
	var types []model.TaskType
	if typeFilter != "" {
		t, ok := model.CanonicalTaskType(typeFilter)
		if !ok {
			return nil, fmt.Errorf("%w %q, must be one of: %s", util.ErrInvalidTaskType, typeFilter, strings.Join(model.ValidTaskTypes(), ", "))
		}
		types = append(types, t)
	}

	tasks, err := s.taskRepo.List(types, "")
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// ImportJSON inserts a batch of tasks under their given ids, skipping
// ids already present so that re-importing an export changes nothing.
// Duplicate ids within the batch collapse last-wins while keeping the
// position of the first occurrence. Items without an id fall back to
// counter allocation.
func (s *ImportService) ImportJSON(ctx context.Context, batch []ImportTaskInput, raw []byte) (*ImportResult, error) {
	if s.storage != nil && len(raw) > 0 {
		s.storage.ArchiveImport(ctx, "batch.json", raw, "application/json")
	}

	// Dedup within the batch by client id, last occurrence wins.
	order := make([]uint, 0, len(batch))
	byID := make(map[uint]ImportTaskInput, len(batch))
	for _, item := range batch {
		if _, seen := byID[item.ID]; !seen {
			order = append(order, item.ID)
		}
		byID[item.ID] = item
	}

	var candidates []ImportTaskInput
	for _, id := range order {
		item := byID[id]
		taskType, ok := model.CanonicalTaskType(item.Type)
		if !ok {
			s.logger.Warn("import skipped task with unknown type",
				zap.Uint("clientId", item.ID),
				zap.String("type", item.Type))
			continue
		}
		if err := item.Content.Validate(taskType); err != nil {
			s.logger.Warn("import skipped invalid task",
				zap.Uint("clientId", item.ID),
				zap.Error(err))
			continue
		}
		item.Type = string(taskType)
		candidates = append(candidates, item)
	}
	if len(candidates) == 0 {
		return &ImportResult{InsertedCount: 0, Tasks: []model.Task{}}, nil
	}

	now := time.Now()
	var maxID uint
	tasks := make([]model.Task, 0, len(candidates))
	for _, item := range candidates {
		id := item.ID
		if id == 0 {
			var err error
			if id, err = s.counterRepo.NextTaskID(); err != nil {
				return nil, err
			}
		}
		if id > maxID {
			maxID = id
		}
		createdBy := item.CreatedBy
		if createdBy == "" {
			createdBy = model.CreatedByNA
		}
		isPublic := false
		if item.IsPublic != nil {
			isPublic = *item.IsPublic
		}
		createdAt := item.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		tasks = append(tasks, model.Task{
			ID:        id,
			Type:      model.TaskType(item.Type),
			Content:   item.Content,
			Tags:      item.Tags,
			IsPublic:  isPublic,
			CreatedBy: createdBy,
			CreatedAt: createdAt,
		})
	}

	inserted, err := s.taskRepo.InsertMissing(tasks)
	if err != nil {
		return nil, err
	}

	// Keep the allocator ahead of the highest imported id so later
	// creates cannot collide with it.
	if err := s.counterRepo.EnsureAtLeast(model.CounterTaskID, uint64(maxID)); err != nil {
		return nil, err
	}

	if inserted > 0 {
		s.taskService.invalidateTagCache()
		monitoring.TasksImported.WithLabelValues("json").Add(float64(inserted))
	}

	all, err := s.taskRepo.List(nil, "")
	if err != nil {
		return nil, err
	}
	return &ImportResult{InsertedCount: inserted, Tasks: all}, nil
}

var bookingLineRe = regexp.MustCompile(`^\d+\.\s*Soll:\s*([^,]+),\s*Haben:\s*([^,]+),\s*Betrag:\s*(\d+)`)

// ImportText parses the line-oriented upload format. Blocks separated
// by "===" lines carry "Key: Value" headers plus an optional numbered
// Bookings section. Blocks without a usable type or any content are
// dropped silently.
func (s *ImportService) ImportText(ctx context.Context, r io.Reader, filename string) (*ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if s.storage != nil {
		s.storage.ArchiveImport(ctx, filename, data, "text/plain")
	}

	parsed := parseTextBlocks(string(data))
	if len(parsed) == 0 {
		return nil, util.ErrEmptyImport
	}

	firstID, err := s.counterRepo.ReserveTaskIDs(len(parsed))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tasks := make([]model.Task, len(parsed))
	for i, p := range parsed {
		p.ID = firstID + uint(i)
		p.CreatedAt = now
		tasks[i] = p
	}

	inserted, err := s.taskRepo.InsertMissing(tasks)
	if err != nil {
		return nil, err
	}

	if inserted > 0 {
		s.taskService.invalidateTagCache()
		monitoring.TasksImported.WithLabelValues("txt").Add(float64(inserted))
	}
	return &ImportResult{InsertedCount: inserted, Tasks: tasks}, nil
}

// parseTextBlocks turns the raw text into tasks without ids. Text
// imports default to public and unowned unless a block says otherwise.
func parseTextBlocks(text string) []model.Task {
	var tasks []model.Task
	for _, block := range strings.Split(text, "===") {
		task, ok := parseTextBlock(block)
		if !ok {
			continue
		}
		task.CreatedBy = model.CreatedByNA
		tasks = append(tasks, task)
	}
	return tasks
}

func parseTextBlock(block string) (model.Task, bool) {
	task := model.Task{IsPublic: true}
	inBookings := false

	scanner := bufio.NewScanner(strings.NewReader(block))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if inBookings {
			if m := bookingLineRe.FindStringSubmatch(line); m != nil {
				betrag, _ := strconv.ParseFloat(m[3], 64)
				task.Content.Bookings = append(task.Content.Bookings, model.Booking{
					Soll:   strings.TrimSpace(m[1]),
					Haben:  strings.TrimSpace(m[2]),
					Betrag: betrag,
				})
				continue
			}
			inBookings = false
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch strings.ToLower(key) {
		case "typ", "type":
			if t, ok := model.CanonicalTaskType(value); ok {
				task.Type = t
			}
		case "tags":
			task.Tags = splitList(value)
		case "szenario", "scenario":
			task.Content.Scenario = value
		case "frage", "question":
			task.Content.Question = value
		case "text":
			task.Content.Text = value
		case "antworten", "answers":
			task.Content.Answers = splitList(value)
		case "optionen", "options":
			task.Content.Options = splitList(value)
		case "richtig", "correctanswer":
			if idx, err := strconv.ParseFloat(value, 64); err == nil {
				task.Content.CorrectAnswer = &idx
			}
		case "konto", "account":
			task.Content.Account = value
		case "soll":
			task.Content.Soll = splitList(value)
		case "haben":
			task.Content.Haben = splitList(value)
		case "initialside", "seite":
			task.Content.InitialSide = value
		case "anfangsbestand":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				task.Content.Anfangsbestand = &v
			}
		case "saldo":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				task.Content.Saldo = &v
			}
		case "ispublic":
			if b, err := strconv.ParseBool(value); err == nil {
				task.IsPublic = b
			}
		case "bookings", "buchungen":
			inBookings = true
		}
	}

	if task.Type == "" || task.Content.IsEmpty() {
		return model.Task{}, false
	}
	return task, true
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
