package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

func TestExtractJSONObjectPlain(t *testing.T) {
	var p payload
	err := ExtractJSONObject(`{"title":"Algebra","count":5}`, &p)
	require.NoError(t, err)
	assert.Equal(t, "Algebra", p.Title)
	assert.Equal(t, 5, p.Count)
}

func TestExtractJSONObjectCodeBlock(t *testing.T) {
	text := "Here is your quiz:\n```json\n{\"title\":\"Biology\",\"count\":3}\n```\nEnjoy!"
	var p payload
	err := ExtractJSONObject(text, &p)
	require.NoError(t, err)
	assert.Equal(t, "Biology", p.Title)
}

func TestExtractJSONObjectUnlabeledFence(t *testing.T) {
	text := "```\n{\"title\":\"Chemistry\",\"count\":7}\n```"
	var p payload
	err := ExtractJSONObject(text, &p)
	require.NoError(t, err)
	assert.Equal(t, "Chemistry", p.Title)
}

func TestExtractJSONObjectSurroundingProse(t *testing.T) {
	text := `Sure! The object you asked for is {"title":"History","count":2} and that's all.`
	var p payload
	err := ExtractJSONObject(text, &p)
	require.NoError(t, err)
	assert.Equal(t, "History", p.Title)
	assert.Equal(t, 2, p.Count)
}

func TestExtractJSONObjectBracesInsideStrings(t *testing.T) {
	text := `Result: {"title":"Sets {a, b} and more","count":1}`
	var p payload
	err := ExtractJSONObject(text, &p)
	require.NoError(t, err)
	assert.Equal(t, "Sets {a, b} and more", p.Title)
}

func TestExtractJSONObjectNested(t *testing.T) {
	text := `{"outer": {"inner": true}, "title": "Nested", "count": 9}`
	var p payload
	err := ExtractJSONObject(text, &p)
	require.NoError(t, err)
	assert.Equal(t, "Nested", p.Title)
}

func TestExtractJSONObjectNoJSON(t *testing.T) {
	var p payload
	err := ExtractJSONObject("I could not produce a quiz, sorry.", &p)
	assert.Error(t, err)
}

func TestFirstJSONObjectUnbalanced(t *testing.T) {
	assert.Equal(t, "", firstJSONObject(`{"broken": `))
	assert.Equal(t, "", firstJSONObject("no braces at all"))
}
