package controller

import (
	"github.com/abdallahade1/ConceptCatch/internal/service"
	"github.com/abdallahade1/ConceptCatch/internal/util"
	"github.com/gin-gonic/gin"
)

type FeedbackController struct {
	FeedbackService *service.FeedbackService
}

func NewFeedbackController(feedbackService *service.FeedbackService) *FeedbackController {
	return &FeedbackController{FeedbackService: feedbackService}
}

type FeedbackRequest struct {
	Question      string `json:"question" binding:"required"`
	CorrectAnswer string `json:"correct_answer" binding:"required"`
	StudentAnswer string `json:"student_answer"`
}

// @Summary Generate tutoring feedback for an answer
// @Tags feedback
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body FeedbackRequest true "Question, reference answer, and the student's answer"
// @Success 200 {object} util.Response
// @Router /feedback [post]
func (ctl *FeedbackController) Generate(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	fb, err := ctl.FeedbackService.Generate(c.Request.Context(), req.Question, req.CorrectAnswer, req.StudentAnswer)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, fb)
}
