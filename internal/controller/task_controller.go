package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fibu_trainer_backend/internal/service"
	"fibu_trainer_backend/internal/util"
)

type TaskController struct {
	taskService *service.TaskService
}

func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{taskService: taskService}
}

// List godoc
// @Summary List visible tasks
// @Description With tags=true returns the distinct tag list instead.
// @Tags tasks
// @Produce json
// @Param type query string false "Task type or display alias"
// @Param types query string false "Comma-separated task types"
// @Param tags query string false "Comma-separated tag filter (AND), or true for the distinct tag list"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /tasks [get]
func (ctrl *TaskController) List(c *gin.Context) {
	requester := util.GetUserFromContext(c)
	if requester == nil {
		util.Unauthorized(c)
		return
	}

	tagsParam := c.Query("tags")
	if tagsParam == "true" {
		tags, err := ctrl.taskService.DistinctTags(c.Request.Context(), requester)
		if err != nil {
			util.LogInternalError(c, err)
			return
		}
		util.Success(c, tags)
		return
	}

	var filter service.TaskFilter
	if tagsParam != "" {
		filter.Tags = splitCSV(tagsParam)
	}
	if t := c.Query("type"); t != "" {
		filter.Types = append(filter.Types, t)
	}
	if ts := c.Query("types"); ts != "" {
		filter.Types = append(filter.Types, splitCSV(ts)...)
	}

	tasks, err := ctrl.taskService.List(requester, filter)
	if err != nil {
		if errors.Is(err, util.ErrInvalidTaskType) {
			util.BadRequest(c, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, tasks)
}

// Create godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body service.CreateTaskInput true "Task data"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /tasks [post]
func (ctrl *TaskController) Create(c *gin.Context) {
	requester := util.GetUserFromContext(c)
	if requester == nil {
		util.Unauthorized(c)
		return
	}

	var input service.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	task, err := ctrl.taskService.Create(requester, input)
	if err != nil {
		if errors.Is(err, util.ErrInvalidTaskType) || errors.Is(err, util.ErrInvalidContent) {
			util.BadRequest(c, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, task)
}

// Get godoc
// @Summary Fetch a single task
// @Tags tasks
// @Produce json
// @Param id path int true "Task id"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (ctrl *TaskController) Get(c *gin.Context) {
	requester := util.GetUserFromContext(c)
	if requester == nil {
		util.Unauthorized(c)
		return
	}

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := ctrl.taskService.Get(requester, id)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	util.Success(c, task)
}

// Update godoc
// @Summary Replace a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task id"
// @Param request body service.UpdateTaskInput true "Task data"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (ctrl *TaskController) Update(c *gin.Context) {
	requester := util.GetUserFromContext(c)
	if requester == nil {
		util.Unauthorized(c)
		return
	}

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var input service.UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	task, err := ctrl.taskService.Update(requester, id, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	util.Success(c, task)
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Param id path int true "Task id"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (ctrl *TaskController) Delete(c *gin.Context) {
	requester := util.GetUserFromContext(c)
	if requester == nil {
		util.Unauthorized(c)
		return
	}

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := ctrl.taskService.Delete(requester, id); err != nil {
		respondTaskError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "Task deleted"})
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseTaskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondTaskError(c, util.ErrInvalidTaskID)
		return 0, false
	}
	return uint(id), true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidTaskID):
		util.BadRequest(c, "Invalid task ID")
	case errors.Is(err, util.ErrTaskNotFound):
		util.NotFound(c, "Task not found")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c)
	case errors.Is(err, util.ErrInvalidTaskType), errors.Is(err, util.ErrInvalidContent):
		util.BadRequest(c, err.Error())
	default:
		util.LogInternalError(c, err)
	}
}
