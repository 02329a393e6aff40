package controller

import (
	"strconv"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/abdallahade1/ConceptCatch/internal/service"
	"github.com/abdallahade1/ConceptCatch/internal/util"
	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// @Summary Student performance analytics
// @Description Students see their own analytics; teachers may pass student_id.
// @Tags analytics
// @Security BearerAuth
// @Produce json
// @Param student_id query int false "Student ID (teachers only)"
// @Success 200 {object} util.Response
// @Router /analytics/student [get]
func (ctl *AnalyticsController) Student(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	studentID := claims.UserID
	if raw := c.Query("student_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			util.BadRequest(c, "invalid student id")
			return
		}
		if uint(id) != claims.UserID && claims.Role == model.Student {
			util.Forbidden(c)
			return
		}
		studentID = uint(id)
	}

	analytics, err := ctl.AnalyticsService.StudentAnalytics(c.Request.Context(), studentID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, analytics)
}

// @Summary Teacher dashboard
// @Description Per-quiz attempt counts and average scores for the caller's quizzes.
// @Tags analytics
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response
// @Router /analytics/teacher [get]
func (ctl *AnalyticsController) Teacher(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	dashboard, err := ctl.AnalyticsService.TeacherDashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, dashboard)
}
