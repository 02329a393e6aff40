package service

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContent() *model.QuizContent {
	return &model.QuizContent{
		Title:      "Algebra Basics",
		Topic:      "Algebra",
		Difficulty: "Easy",
		Questions: []model.QuizQuestion{
			{
				ID:            "q1",
				Question:      "What is 2 < 3 called?",
				Options:       []string{"Inequality", "Equation", "Identity", "Function"},
				CorrectAnswer: "Inequality",
				Explanation:   "The < symbol denotes an inequality.",
				Points:        2,
			},
			{
				ID:            "q2",
				Question:      "Solve x + 1 = 2",
				CorrectAnswer: "x = 1",
			},
		},
	}
}

func readDocxDocument(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make(map[string]bool)
	var document string
	for _, f := range zr.File {
		names[f.Name] = true
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			raw, err := io.ReadAll(rc)
			rc.Close()
			require.NoError(t, err)
			document = string(raw)
		}
	}

	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["_rels/.rels"])
	require.NotEmpty(t, document)
	return document
}

func TestRenderDocxWithAnswers(t *testing.T) {
	data, err := renderDocx(sampleContent(), true)
	require.NoError(t, err)

	document := readDocxDocument(t, data)
	assert.Contains(t, document, "Algebra Basics")
	// XML special characters in question text must be escaped.
	assert.Contains(t, document, "What is 2 &lt; 3 called?")
	assert.Contains(t, document, "A) Inequality")
	assert.Contains(t, document, "Answer: Inequality")
	assert.Contains(t, document, "Explanation: The &lt; symbol denotes an inequality.")
}

func TestRenderDocxWithoutAnswers(t *testing.T) {
	stripped := sampleContent().Stripped()
	data, err := renderDocx(&stripped, false)
	require.NoError(t, err)

	document := readDocxDocument(t, data)
	assert.Contains(t, document, "A) Inequality")
	assert.NotContains(t, document, "Answer:")
	assert.NotContains(t, document, "Explanation:")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "algebra_basics", slugify("Algebra Basics"))
	assert.Equal(t, "quiz_2_review", slugify("Quiz #2 - Review!"))
	assert.Equal(t, "quiz", slugify("!!!"))
}
