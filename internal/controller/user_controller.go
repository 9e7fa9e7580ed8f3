package controller

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"fibu_trainer_backend/internal/model"
	"fibu_trainer_backend/internal/service"
	"fibu_trainer_backend/internal/util"
)

type UserController struct {
	examService *service.ExamService
}

func NewUserController(examService *service.ExamService) *UserController {
	return &UserController{examService: examService}
}

// ExamRequest validates an incoming exam record. Numeric fields are
// pointers so that an omitted field is rejected instead of silently
// reading as zero.
type ExamRequest struct {
	Date       string                 `json:"date"`
	Correct    *int                   `json:"correct"`
	MaxPoints  *int                   `json:"maxPoints"`
	Percentage *float64               `json:"percentage"`
	Grade      *float64               `json:"grade"`
	Tags       []string               `json:"tags"`
	Tasks      []model.ExamTaskResult `json:"tasks"`
}

// BadgeRequest is one client-supplied badge to award.
type BadgeRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AwardedAt   string `json:"awardedAt"`
}

// AwardBadgesRequest wraps the badge array the client sends.
type AwardBadgesRequest struct {
	Badges []BadgeRequest `json:"badges"`
}

// GetExams godoc
// @Summary Exam history of the signed-in user
// @Tags user
// @Produce json
// @Success 200 {object} util.Response
// @Security BearerAuth
// @Router /user/exams [get]
func (ctrl *UserController) GetExams(c *gin.Context) {
	requester := util.GetUserFromContext(c)
	if requester == nil {
		util.Unauthorized(c)
		return
	}

	exams, err := ctrl.examService.History(requester.Email)
	if err != nil {
		respondUserError(c, err)
		return
	}
	util.Success(c, exams)
}

// PostExam godoc
// @Summary Record a completed exam
// @Description Updates rolling statistics and awards badges.
// @Tags user
// @Accept json
// @Produce json
// @Param request body ExamRequest true "Exam result"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /user/exams [post]
func (ctrl *UserController) PostExam(c *gin.Context) {
	requester := util.GetUserFromContext(c)
	if requester == nil {
		util.Unauthorized(c)
		return
	}

	var req ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid exam data")
		return
	}
	// Absent numeric fields decode to nil, which is distinct from a
	// legitimate zero. An omitted tasks array decodes to nil too.
	if req.Correct == nil || req.MaxPoints == nil || req.Percentage == nil || req.Grade == nil || req.Tasks == nil {
		util.BadRequest(c, "Invalid exam data")
		return
	}
	if *req.Correct < 0 || *req.MaxPoints <= 0 || *req.Percentage < 0 || *req.Percentage > 100 {
		util.BadRequest(c, "Invalid exam data")
		return
	}

	exam := model.ExamRecord{
		Correct:    *req.Correct,
		MaxPoints:  *req.MaxPoints,
		Percentage: *req.Percentage,
		Grade:      *req.Grade,
		Tags:       req.Tags,
		Tasks:      req.Tasks,
	}
	if req.Date != "" {
		date, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			util.BadRequest(c, "Invalid exam data")
			return
		}
		exam.Date = date
	}

	newBadges, err := ctrl.examService.RecordExam(requester.Email, exam)
	if err != nil {
		respondUserError(c, err)
		return
	}

	util.Success(c, gin.H{
		"message":   "Exam results saved",
		"newBadges": newBadges,
	})
}

// GetBadges godoc
// @Summary Badge set of the signed-in user
// @Tags user
// @Produce json
// @Success 200 {object} util.Response
// @Security BearerAuth
// @Router /user/badges [get]
func (ctrl *UserController) GetBadges(c *gin.Context) {
	requester := util.GetUserFromContext(c)
	if requester == nil {
		util.Unauthorized(c)
		return
	}

	badges, err := ctrl.examService.Badges(requester.Email)
	if err != nil {
		respondUserError(c, err)
		return
	}
	util.Success(c, badges)
}

// PostBadges godoc
// @Summary Award badges to the signed-in user
// @Description Already-owned badge ids are skipped.
// @Tags user
// @Accept json
// @Produce json
// @Param request body AwardBadgesRequest true "Badges to award"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /user/badges [post]
func (ctrl *UserController) PostBadges(c *gin.Context) {
	requester := util.GetUserFromContext(c)
	if requester == nil {
		util.Unauthorized(c)
		return
	}

	var req AwardBadgesRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Badges) == 0 {
		util.BadRequest(c, "Invalid badges data")
		return
	}

	badges := make([]model.Badge, 0, len(req.Badges))
	for _, r := range req.Badges {
		if r.ID == "" || r.Name == "" || r.Description == "" {
			util.BadRequest(c, "Invalid badge format")
			return
		}
		awardedAt, err := time.Parse(time.RFC3339, r.AwardedAt)
		if err != nil {
			util.BadRequest(c, "Invalid badge format")
			return
		}
		badges = append(badges, model.Badge{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			AwardedAt:   awardedAt,
		})
	}

	all, err := ctrl.examService.AwardBadges(requester.Email, badges)
	if err != nil {
		respondUserError(c, err)
		return
	}

	util.Success(c, gin.H{
		"message": "Badges awarded",
		"badges":  all,
	})
}

// GetProfile godoc
// @Summary Profile and rolling statistics of the signed-in user
// @Tags user
// @Produce json
// @Success 200 {object} util.Response
// @Security BearerAuth
// @Router /user/profile [get]
func (ctrl *UserController) GetProfile(c *gin.Context) {
	requester := util.GetUserFromContext(c)
	if requester == nil {
		util.Unauthorized(c)
		return
	}

	user, err := ctrl.examService.Profile(requester.Email)
	if err != nil {
		respondUserError(c, err)
		return
	}

	name := user.Name
	if name == "" {
		name = requester.Name
	}
	if name == "" {
		name = "Unbekannter Nutzer"
	}

	badges := user.Badges
	if badges == nil {
		badges = []model.Badge{}
	}

	util.Success(c, gin.H{
		"name":             name,
		"email":            user.Email,
		"role":             user.Role,
		"totalTasksSolved": user.TotalTasksSolved,
		"examsTaken":       user.ExamsTaken,
		"averageAccuracy":  user.AverageAccuracy,
		"averageExamScore": user.AverageExamScore,
		"bestExamScore":    user.BestExamScore,
		"badges":           badges,
	})
}

func respondUserError(c *gin.Context, err error) {
	if errors.Is(err, util.ErrUserNotFound) {
		util.NotFound(c, "User not found")
		return
	}
	util.LogInternalError(c, err)
}
