package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/abdallahade1/ConceptCatch/internal/service"
	"github.com/abdallahade1/ConceptCatch/internal/util"
	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService     *service.QuizService
	DocumentService *service.DocumentService
	ExportService   *service.ExportService
}

func NewQuizController(
	quizService *service.QuizService,
	documentService *service.DocumentService,
	exportService *service.ExportService,
) *QuizController {
	return &QuizController{
		QuizService:     quizService,
		DocumentService: documentService,
		ExportService:   exportService,
	}
}

// @Summary Generate a quiz
// @Description Three modes: prompt (topic text), document (uploaded file), mistakes (a student's recorded weak concepts).
// @Tags quiz
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param mode formData string true "prompt | document | mistakes"
// @Param topic formData string false "Topic, required for prompt mode"
// @Param difficulty formData string false "Easy | Medium | Hard"
// @Param question_type formData string false "MCQ | True/False | Short Answer | Essay"
// @Param num_questions formData int false "1-20, default 5"
// @Param target_student formData int false "Student ID, required for mistakes mode"
// @Param file formData file false "Source document, required for document mode"
// @Success 201 {object} util.Response
// @Router /quiz/generate [post]
func (ctl *QuizController) Generate(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	numQuestions, _ := strconv.Atoi(c.PostForm("num_questions"))
	targetStudent, _ := strconv.ParseUint(c.PostForm("target_student"), 10, 32)

	req := service.GenerateRequest{
		Mode:          model.GenerationMode(c.PostForm("mode")),
		Topic:         c.PostForm("topic"),
		Difficulty:    c.PostForm("difficulty"),
		QuestionType:  c.PostForm("question_type"),
		NumQuestions:  numQuestions,
		TargetStudent: uint(targetStudent),
	}

	if req.Mode == model.ModeDocument {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			util.BadRequest(c, util.ErrFileRequired.Error())
			return
		}
		if err := ctl.DocumentService.Validate(fileHeader.Filename, fileHeader.Size); err != nil {
			util.BadRequest(c, err.Error())
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			util.LogInternalError(c, err)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			util.LogInternalError(c, err)
			return
		}

		text, err := ctl.DocumentService.ExtractText(fileHeader.Filename, data)
		if err != nil {
			util.BadRequest(c, err.Error())
			return
		}
		req.DocumentText = text
		req.DocumentName = fileHeader.Filename
	}

	if req.Mode == model.ModeMistakes && req.TargetStudent == 0 {
		util.BadRequest(c, "target_student is required for 'mistakes' mode")
		return
	}

	quiz, content, err := ctl.QuizService.Generate(c.Request.Context(), claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidMode),
			errors.Is(err, util.ErrTopicRequired),
			errors.Is(err, util.ErrEmptyDocument):
			util.BadRequest(c, err.Error())
		default:
			util.LogInternalError(c, err)
		}
		return
	}

	util.Created(c, gin.H{
		"quiz":    quiz,
		"content": content,
	})
}

// @Summary Fetch a quiz with its questions
// @Tags quiz
// @Security BearerAuth
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /quiz/{id} [get]
func (ctl *QuizController) Get(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid quiz id")
		return
	}

	claims := util.GetUserFromContext(c)
	quiz, content, err := ctl.QuizService.GetByID(uint(quizID))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}

	// Students only see the answer key on their own quizzes.
	if quiz.CreatedBy != claims.UserID && claims.Role == model.Student {
		stripped := content.Stripped()
		content = &stripped
	}

	util.Success(c, gin.H{
		"quiz":    quiz,
		"content": content,
	})
}

// @Summary List quizzes
// @Description mine=true lists the caller's quizzes; otherwise published quizzes.
// @Tags quiz
// @Security BearerAuth
// @Produce json
// @Param mine query bool false "Only my quizzes"
// @Param page query int false "Page, default 1"
// @Param page_size query int false "Page size, default 20"
// @Success 200 {object} util.Response
// @Router /quiz [get]
func (ctl *QuizController) List(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	var quizzes []model.Quiz
	var total int64
	var err error
	if c.Query("mine") == "true" {
		quizzes, total, err = ctl.QuizService.ListByCreator(claims.UserID, page, pageSize)
	} else {
		quizzes, total, err = ctl.QuizService.ListPublished(page, pageSize)
	}
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, gin.H{
		"quizzes": quizzes,
		"total":   total,
		"page":    page,
	})
}

type UpdateQuizRequest struct {
	Title     string               `json:"title"`
	Questions []model.QuizQuestion `json:"questions"`
}

// @Summary Edit quiz questions
// @Description Merges edits into the stored questions by question ID.
// @Tags quiz
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param body body UpdateQuizRequest true "Edited title and questions"
// @Success 200 {object} util.Response
// @Router /quiz/{id} [put]
func (ctl *QuizController) Update(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid quiz id")
		return
	}

	var req UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	content, err := ctl.QuizService.UpdateQuestions(uint(quizID), claims.UserID, req.Title, req.Questions)
	if err != nil {
		ctl.writeQuizError(c, err)
		return
	}
	util.Success(c, content)
}

// @Summary Publish a quiz
// @Tags quiz
// @Security BearerAuth
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /quiz/{id}/publish [post]
func (ctl *QuizController) Publish(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid quiz id")
		return
	}

	claims := util.GetUserFromContext(c)
	quiz, err := ctl.QuizService.Publish(uint(quizID), claims.UserID)
	if err != nil {
		ctl.writeQuizError(c, err)
		return
	}
	util.Success(c, quiz)
}

// @Summary Export a quiz as docx or json
// @Description Streams the rendered file; a copy is also uploaded to storage.
// @Tags quiz
// @Security BearerAuth
// @Produce octet-stream
// @Param id path int true "Quiz ID"
// @Param format query string false "docx | json, default docx"
// @Param include_answers query bool false "Include the answer key (quiz owner only)"
// @Success 200 {file} file
// @Router /quiz/{id}/export [get]
func (ctl *QuizController) Export(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid quiz id")
		return
	}

	format := c.DefaultQuery("format", "docx")
	includeAnswers := c.Query("include_answers") == "true"

	claims := util.GetUserFromContext(c)
	result, err := ctl.ExportService.Export(c.Request.Context(), uint(quizID), claims.UserID, format, includeAnswers)
	if err != nil {
		ctl.writeQuizError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(result.Filename)))
	c.Header("X-Export-URL", result.URL)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

type ShareRequest struct {
	ExpiresInHours int `json:"expires_in_hours"`
}

// @Summary Create a share link for a quiz
// @Tags quiz
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param body body ShareRequest false "Optional expiry"
// @Success 201 {object} util.Response
// @Router /quiz/{id}/share [post]
func (ctl *QuizController) Share(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid quiz id")
		return
	}

	var req ShareRequest
	c.ShouldBindJSON(&req)

	claims := util.GetUserFromContext(c)
	share, err := ctl.QuizService.CreateShare(uint(quizID), claims.UserID, req.ExpiresInHours)
	if err != nil {
		ctl.writeQuizError(c, err)
		return
	}
	util.Created(c, share)
}

// @Summary Open a shared quiz
// @Description Public endpoint; answers are stripped.
// @Tags quiz
// @Produce json
// @Param code path string true "Share code"
// @Success 200 {object} util.Response
// @Router /quiz/shared/{code} [get]
func (ctl *QuizController) Shared(c *gin.Context) {
	quiz, content, err := ctl.QuizService.ResolveShare(c.Param("code"))
	if err != nil {
		if errors.Is(err, util.ErrShareNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, gin.H{
		"quiz":    quiz,
		"content": content,
	})
}

func (ctl *QuizController) writeQuizError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound):
		util.NotFound(c)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c)
	case errors.Is(err, util.ErrUnsupportedFormat):
		util.BadRequest(c, err.Error())
	default:
		util.LogInternalError(c, err)
	}
}
