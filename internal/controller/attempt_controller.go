package controller

import (
	"errors"
	"strconv"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/abdallahade1/ConceptCatch/internal/service"
	"github.com/abdallahade1/ConceptCatch/internal/util"
	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	EvaluationService *service.EvaluationService
}

func NewAttemptController(evaluationService *service.EvaluationService) *AttemptController {
	return &AttemptController{EvaluationService: evaluationService}
}

// @Summary Start a quiz attempt
// @Description Opens an attempt and returns the quiz without answers.
// @Tags attempt
// @Security BearerAuth
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 201 {object} util.Response
// @Router /quiz/{id}/attempt [post]
func (ctl *AttemptController) Start(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid quiz id")
		return
	}

	claims := util.GetUserFromContext(c)
	attempt, content, err := ctl.EvaluationService.StartAttempt(uint(quizID), claims.UserID)
	if err != nil {
		ctl.writeAttemptError(c, err)
		return
	}

	util.Created(c, gin.H{
		"attempt": attempt,
		"quiz":    content,
	})
}

type SubmitRequest struct {
	// Answers maps question IDs to the student's answers.
	Answers map[string]string `json:"answers" binding:"required"`
	// TimeTaken is the client-measured duration in seconds. Optional.
	TimeTaken int `json:"time_taken"`
}

// @Summary Submit an attempt for grading
// @Tags attempt
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Attempt ID"
// @Param body body SubmitRequest true "Answers keyed by question ID"
// @Success 200 {object} util.Response
// @Router /attempts/{id}/submit [post]
func (ctl *AttemptController) Submit(c *gin.Context) {
	attemptID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid attempt id")
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, util.ErrInvalidResponses.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	result, err := ctl.EvaluationService.SubmitAttempt(c.Request.Context(), uint(attemptID), claims.UserID, req.Answers, req.TimeTaken)
	if err != nil {
		ctl.writeAttemptError(c, err)
		return
	}
	util.Success(c, result)
}

// @Summary Fetch one attempt with its responses
// @Tags attempt
// @Security BearerAuth
// @Produce json
// @Param id path int true "Attempt ID"
// @Success 200 {object} util.Response
// @Router /attempts/{id} [get]
func (ctl *AttemptController) Get(c *gin.Context) {
	attemptID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid attempt id")
		return
	}

	claims := util.GetUserFromContext(c)
	attempt, responses, err := ctl.EvaluationService.GetAttempt(uint(attemptID), claims.UserID, claims.Role)
	if err != nil {
		ctl.writeAttemptError(c, err)
		return
	}

	util.Success(c, gin.H{
		"attempt":   attempt,
		"responses": responses,
	})
}

// @Summary List completed attempts
// @Description Students see their own history; teachers may pass student_id.
// @Tags attempt
// @Security BearerAuth
// @Produce json
// @Param student_id query int false "Student ID (teachers only)"
// @Param page query int false "Page, default 1"
// @Param page_size query int false "Page size, default 20"
// @Success 200 {object} util.Response
// @Router /attempts [get]
func (ctl *AttemptController) List(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

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

	attempts, total, err := ctl.EvaluationService.ListAttempts(studentID, page, pageSize)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, gin.H{
		"attempts": attempts,
		"total":    total,
		"page":     page,
	})
}

// @Summary List attempts on a quiz
// @Description Quiz owners see every attempt; everyone else sees their own.
// @Tags attempt
// @Security BearerAuth
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /quiz/{id}/attempts [get]
func (ctl *AttemptController) ListForQuiz(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid quiz id")
		return
	}

	claims := util.GetUserFromContext(c)
	attempts, err := ctl.EvaluationService.ListQuizAttempts(uint(quizID), claims.UserID)
	if err != nil {
		ctl.writeAttemptError(c, err)
		return
	}
	util.Success(c, attempts)
}

func (ctl *AttemptController) writeAttemptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrAttemptNotFound):
		util.NotFound(c)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c)
	default:
		util.LogInternalError(c, err)
	}
}
