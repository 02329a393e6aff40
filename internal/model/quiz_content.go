package model

// QuizContent is the quiz payload stored in quizzes.data. It carries
// everything the generator produced, including answers and explanations;
// student-facing views go through Stripped.
type QuizContent struct {
	Title          string         `json:"title"`
	Topic          string         `json:"topic"`
	Difficulty     string         `json:"difficulty"`
	QuestionType   string         `json:"question_type"`
	NumQuestions   int            `json:"num_questions"`
	GenerationMode GenerationMode `json:"generation_mode"`
	SourceDocument string         `json:"source_document,omitempty"`
	TargetStudent  uint           `json:"target_student,omitempty"`
	Questions      []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	Concept       string   `json:"concept,omitempty"`
	Points        float64  `json:"points,omitempty"`
}

// MaxPoints sums the attainable points across all questions.
func (c QuizContent) MaxPoints() float64 {
	var total float64
	for _, q := range c.Questions {
		total += q.MaxPoints()
	}
	return total
}

// MaxPoints defaults to 1 when the generator did not assign points.
func (q QuizQuestion) MaxPoints() float64 {
	if q.Points > 0 {
		return q.Points
	}
	return 1
}

// Stripped returns a copy safe to show students: answers and
// explanations removed.
func (c QuizContent) Stripped() QuizContent {
	out := c
	out.Questions = make([]QuizQuestion, len(c.Questions))
	for i, q := range c.Questions {
		q.CorrectAnswer = ""
		q.Explanation = ""
		out.Questions[i] = q
	}
	return out
}
