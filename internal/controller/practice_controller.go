package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fibu_trainer_backend/internal/service"
	"fibu_trainer_backend/internal/util"
)

type PracticeController struct {
	practiceService *service.PracticeService
}

func NewPracticeController(practiceService *service.PracticeService) *PracticeController {
	return &PracticeController{practiceService: practiceService}
}

// ComposeExam godoc
// @Summary Compose a balanced practice exam
// @Tags practice
// @Produce json
// @Param types query string false "Comma-separated task types"
// @Param tags query string false "Comma-separated tag filter, AND semantics"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /practice/exam [get]
func (ctrl *PracticeController) ComposeExam(c *gin.Context) {
	requester := util.GetUserFromContext(c)
	if requester == nil {
		util.Unauthorized(c)
		return
	}

	var filter service.TaskFilter
	if tags := c.Query("tags"); tags != "" {
		filter.Tags = splitCSV(tags)
	}
	if ts := c.Query("types"); ts != "" {
		filter.Types = append(filter.Types, splitCSV(ts)...)
	}

	tasks, err := ctrl.practiceService.ComposeExam(requester, filter)
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
