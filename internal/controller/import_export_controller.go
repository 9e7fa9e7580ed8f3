package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"fibu_trainer_backend/internal/service"
	"fibu_trainer_backend/internal/util"
)

type ImportExportController struct {
	importService *service.ImportService
}

func NewImportExportController(importService *service.ImportService) *ImportExportController {
	return &ImportExportController{importService: importService}
}

// Export godoc
// @Summary Export tasks as a JSON download
// @Description Returns the raw task array with an attachment header.
// @Tags import-export
// @Produce json
// @Param type query string false "Restrict export to one task type"
// @Success 200 {array} model.Task
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /tasks/importexport [get]
func (ctrl *ImportExportController) Export(c *gin.Context) {
	tasks, err := ctrl.importService.Export(c.Query("type"))
	if err != nil {
		if errors.Is(err, util.ErrInvalidTaskType) {
			util.BadRequest(c, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=tasks.json")
	c.JSON(http.StatusOK, tasks)
}

// Import godoc
// @Summary Import a JSON task batch
// @Description Tasks keep their ids; existing ids are skipped.
// @Tags import-export
// @Accept json
// @Produce json
// @Success 200 {object} util.Response
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /tasks/importexport [post]
func (ctrl *ImportExportController) Import(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		util.BadRequest(c, "Payload muss ein Array sein.")
		return
	}

	var batch []service.ImportTaskInput
	if err := json.Unmarshal(raw, &batch); err != nil {
		util.BadRequest(c, "Payload muss ein Array sein.")
		return
	}

	result, err := ctrl.importService.ImportJSON(c.Request.Context(), batch, raw)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	if result.InsertedCount == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Keine neuen Tasks zum Importieren."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Import erfolgreich",
		"insertedCount": result.InsertedCount,
		"tasks":         result.Tasks,
	})
}

// ImportTxt godoc
// @Summary Import tasks from a line-oriented text upload
// @Description Admin only. Blocks separated by === lines.
// @Tags import-export
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Text file"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /tasks/importtxt [post]
func (ctrl *ImportExportController) ImportTxt(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "Please upload a valid .txt file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if filepath.Ext(fileHeader.Filename) != ".txt" && !strings.HasPrefix(contentType, "text/plain") {
		util.BadRequest(c, "Please upload a valid .txt file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	defer file.Close()

	result, err := ctrl.importService.ImportText(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, util.ErrEmptyImport) {
			util.BadRequest(c, "No valid tasks found in the file")
			return
		}
		util.LogInternalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Import erfolgreich",
		"insertedCount": result.InsertedCount,
		"tasks":         result.Tasks,
	})
}
