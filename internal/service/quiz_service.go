package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/abdallahade1/ConceptCatch/internal/repository"
	"github.com/abdallahade1/ConceptCatch/internal/util"
	"github.com/abdallahade1/ConceptCatch/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const shareCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type QuizService struct {
	quizRepo    *repository.QuizRepository
	shareRepo   *repository.ShareRepository
	mistakeRepo *repository.MistakeRepository
	llm         *LLMService
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	shareRepo *repository.ShareRepository,
	mistakeRepo *repository.MistakeRepository,
	llm *LLMService,
) *QuizService {
	return &QuizService{
		quizRepo:    quizRepo,
		shareRepo:   shareRepo,
		mistakeRepo: mistakeRepo,
		llm:         llm,
	}
}

// GenerateRequest carries the common knobs for all three generation
// modes. DocumentText is set by the controller after extraction;
// TargetStudent only matters in mistakes mode.
type GenerateRequest struct {
	Mode          model.GenerationMode
	Topic         string
	Difficulty    string
	QuestionType  string
	NumQuestions  int
	DocumentText  string
	DocumentName  string
	TargetStudent uint
}

func (s *QuizService) Generate(ctx context.Context, creatorID uint, req GenerateRequest) (*model.Quiz, *model.QuizContent, error) {
	if req.NumQuestions <= 0 {
		req.NumQuestions = 5
	}
	if req.NumQuestions > 20 {
		req.NumQuestions = 20
	}
	if req.Difficulty == "" {
		req.Difficulty = "Medium"
	}
	if req.QuestionType == "" {
		req.QuestionType = model.QuestionTypeMCQ
	}

	var userPrompt string
	var topic string
	switch req.Mode {
	case model.ModePrompt:
		if strings.TrimSpace(req.Topic) == "" {
			return nil, nil, util.ErrTopicRequired
		}
		topic = req.Topic
		userPrompt = s.buildPromptModePrompt(req)
	case model.ModeDocument:
		if strings.TrimSpace(req.DocumentText) == "" {
			return nil, nil, util.ErrEmptyDocument
		}
		topic = req.Topic
		if topic == "" {
			topic = req.DocumentName
		}
		userPrompt = s.buildDocumentModePrompt(req)
	case model.ModeMistakes:
		mistakes, err := s.mistakeRepo.TopByStudent(req.TargetStudent, 10)
		if err != nil {
			return nil, nil, err
		}
		if len(mistakes) == 0 {
			// No history yet: fall back to a general review quiz.
			topic = "General Review"
			req.Topic = topic
			userPrompt = s.buildPromptModePrompt(req)
		} else {
			topic = "Review: " + mistakes[0].Topic
			userPrompt = s.buildMistakesModePrompt(req, mistakes)
		}
	default:
		return nil, nil, util.ErrInvalidMode
	}

	var content model.QuizContent
	err := s.llm.ChatJSON(ctx, "quiz_generation", quizSystemPrompt, userPrompt, &content)
	if err != nil {
		logger.Log.Error("Quiz generation failed",
			zap.String("mode", string(req.Mode)),
			zap.Error(err))
		return nil, nil, err
	}

	s.normalizeContent(&content, topic, req)

	data, err := json.Marshal(content)
	if err != nil {
		return nil, nil, err
	}

	quiz := &model.Quiz{
		Title:          content.Title,
		Topic:          content.Topic,
		Difficulty:     content.Difficulty,
		QuestionType:   req.QuestionType,
		NumQuestions:   len(content.Questions),
		CreatedBy:      creatorID,
		GenerationMode: req.Mode,
		SourceDocument: req.DocumentName,
		Data:           datatypes.JSON(data),
	}
	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, nil, err
	}

	logger.Log.Info("Quiz generated",
		zap.Uint("quiz_id", quiz.ID),
		zap.String("mode", string(req.Mode)),
		zap.Int("questions", len(content.Questions)))

	return quiz, &content, nil
}

const quizSystemPrompt = `You are an expert educator who writes assessment questions. ` +
	`Respond with a single JSON object only, no commentary. The object must have keys: ` +
	`"title", "topic", "difficulty", "questions". Each question must have keys: ` +
	`"question", "options" (array of exactly 4 strings for multiple choice, ` +
	`["True","False"] for true/false, empty array otherwise), "correct_answer", ` +
	`"explanation", "concept" (the specific concept the question tests), and "points" (a number).`

func (s *QuizService) buildPromptModePrompt(req GenerateRequest) string {
	return fmt.Sprintf(
		"Create a %s quiz with %d %s questions about: %s.\n"+
			"Make the questions progressively challenging and cover distinct concepts within the topic.",
		req.Difficulty, req.NumQuestions, req.QuestionType, req.Topic)
}

func (s *QuizService) buildDocumentModePrompt(req GenerateRequest) string {
	text := req.DocumentText
	if len(text) > 12000 {
		text = text[:12000]
	}
	return fmt.Sprintf(
		"Create a %s quiz with %d %s questions based strictly on the following material. "+
			"Do not ask about anything the material does not cover.\n\n---\n%s\n---",
		req.Difficulty, req.NumQuestions, req.QuestionType, text)
}

func (s *QuizService) buildMistakesModePrompt(req GenerateRequest, mistakes []model.StudentMistake) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s remedial quiz with %d %s questions targeting the concepts this student keeps getting wrong:\n\n",
		req.Difficulty, req.NumQuestions, req.QuestionType)
	for _, m := range mistakes {
		fmt.Fprintf(&b, "- Topic: %s, Concept: %s (missed %d times, mistake type: %s)\n",
			m.Topic, m.Concept, m.Frequency, m.MistakeType)
	}
	b.WriteString("\nWeight the questions toward the most frequent mistakes and explain each answer thoroughly.")
	return b.String()
}

// normalizeContent fills in anything the model left out and clamps the
// question list to the requested count.
func (s *QuizService) normalizeContent(content *model.QuizContent, topic string, req GenerateRequest) {
	if content.Title == "" {
		switch {
		case req.Mode == model.ModeDocument && req.DocumentName != "":
			content.Title = "Quiz from " + req.DocumentName
		case req.Mode == model.ModeMistakes && topic == "General Review":
			content.Title = "Practice Quiz"
		default:
			content.Title = topic + " Quiz"
		}
	}
	if content.Topic == "" {
		content.Topic = topic
	}
	if content.Difficulty == "" {
		content.Difficulty = req.Difficulty
	}
	content.QuestionType = req.QuestionType
	content.GenerationMode = req.Mode
	content.SourceDocument = req.DocumentName
	content.TargetStudent = req.TargetStudent

	if len(content.Questions) > req.NumQuestions {
		content.Questions = content.Questions[:req.NumQuestions]
	}
	for i := range content.Questions {
		q := &content.Questions[i]
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.Points <= 0 {
			q.Points = 1
		}
		if q.Concept == "" {
			q.Concept = content.Topic
		}
	}
	content.NumQuestions = len(content.Questions)
}

func (s *QuizService) GetByID(id uint) (*model.Quiz, *model.QuizContent, error) {
	quiz, err := s.quizRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if quiz == nil {
		return nil, nil, util.ErrQuizNotFound
	}
	content, err := s.decodeContent(quiz)
	if err != nil {
		return nil, nil, err
	}
	return quiz, content, nil
}

func (s *QuizService) decodeContent(quiz *model.Quiz) (*model.QuizContent, error) {
	var content model.QuizContent
	if err := json.Unmarshal(quiz.Data, &content); err != nil {
		return nil, fmt.Errorf("decode quiz %d content: %w", quiz.ID, err)
	}
	return &content, nil
}

// UpdateQuestions merges edits into the stored payload by question ID.
// Unknown IDs are ignored rather than appended.
func (s *QuizService) UpdateQuestions(quizID, userID uint, title string, edits []model.QuizQuestion) (*model.QuizContent, error) {
	quiz, content, err := s.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatedBy != userID {
		return nil, util.ErrPermissionDenied
	}

	byID := make(map[string]model.QuizQuestion, len(edits))
	for _, e := range edits {
		byID[e.ID] = e
	}
	for i := range content.Questions {
		if e, ok := byID[content.Questions[i].ID]; ok {
			e.ID = content.Questions[i].ID
			if e.Points <= 0 {
				e.Points = content.Questions[i].Points
			}
			content.Questions[i] = e
		}
	}
	if title != "" {
		content.Title = title
		quiz.Title = title
	}

	data, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	quiz.Data = datatypes.JSON(data)
	if err := s.quizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *QuizService) Publish(quizID, userID uint) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, util.ErrQuizNotFound
	}
	if quiz.CreatedBy != userID {
		return nil, util.ErrPermissionDenied
	}
	quiz.IsPublished = true
	if err := s.quizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListByCreator(creatorID uint, page, pageSize int) ([]model.Quiz, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.quizRepo.ListByCreator(creatorID, (page-1)*pageSize, pageSize)
}

func (s *QuizService) ListPublished(page, pageSize int) ([]model.Quiz, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.quizRepo.ListPublished((page-1)*pageSize, pageSize)
}

// CreateShare mints a share link for a quiz the caller owns. Codes are
// 8 uppercase alphanumerics, retried on the rare collision.
func (s *QuizService) CreateShare(quizID, userID uint, expiresInHours int) (*model.QuizShare, error) {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, util.ErrQuizNotFound
	}
	if quiz.CreatedBy != userID {
		return nil, util.ErrPermissionDenied
	}

	var code string
	for attempt := 0; attempt < 5; attempt++ {
		code, err = generateShareCode(8)
		if err != nil {
			return nil, err
		}
		exists, err := s.shareRepo.CodeExists(code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
		code = ""
	}
	if code == "" {
		return nil, fmt.Errorf("could not allocate a unique share code")
	}

	share := &model.QuizShare{
		QuizID:    quizID,
		SharedBy:  userID,
		ShareCode: code,
		IsActive:  true,
	}
	if expiresInHours > 0 {
		t := time.Now().Add(time.Duration(expiresInHours) * time.Hour)
		share.ExpiresAt = &t
	}
	if err := s.shareRepo.Create(share); err != nil {
		return nil, err
	}
	return share, nil
}

// ResolveShare returns the shared quiz with answers stripped, suitable
// for unauthenticated access.
func (s *QuizService) ResolveShare(code string) (*model.Quiz, *model.QuizContent, error) {
	share, err := s.shareRepo.GetActiveByCode(strings.ToUpper(strings.TrimSpace(code)), time.Now())
	if err != nil {
		return nil, nil, err
	}
	if share == nil || share.Quiz == nil {
		return nil, nil, util.ErrShareNotFound
	}
	content, err := s.decodeContent(share.Quiz)
	if err != nil {
		return nil, nil, err
	}
	stripped := content.Stripped()
	return share.Quiz, &stripped, nil
}

func generateShareCode(n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(shareCodeAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = shareCodeAlphabet[idx.Int64()]
	}
	return string(b), nil
}
