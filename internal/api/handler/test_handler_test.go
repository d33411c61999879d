package handler

import (
	"testing"

	"ai-hire-go/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试示例笔试题库本身是合法的
func TestSampleQuestionsValid(t *testing.T) {
	require.Len(t, sampleQuestions, 5)
	for i, q := range sampleQuestions {
		assert.NotEmpty(t, q.QuestionText, "第%d题缺少题干", i+1)
		assert.True(t, validAnswerTag(q.CorrectAnswer), "第%d题答案标签非法", i+1)
		assert.Equal(t, 1, q.Marks, "示例题分值应为1")
	}
}

// 测试示例笔试全对得满分、全错得零分
func TestSampleQuestionsGrading(t *testing.T) {
	graded := make([]scoring.GradedQuestion, 0, len(sampleQuestions))
	allCorrect := make(map[uint64]string)
	allWrong := make(map[uint64]string)
	for i, q := range sampleQuestions {
		id := uint64(i + 1)
		graded = append(graded, scoring.GradedQuestion{ID: id, Correct: q.CorrectAnswer, Marks: q.Marks})
		allCorrect[id] = q.CorrectAnswer
		if q.CorrectAnswer == "A" {
			allWrong[id] = "B"
		} else {
			allWrong[id] = "A"
		}
	}

	perfect := scoring.GradeTest(graded, allCorrect)
	assert.Equal(t, 100, perfect.Score)
	assert.Equal(t, 5, perfect.Earned)
	assert.Equal(t, 5, perfect.Total)

	zero := scoring.GradeTest(graded, allWrong)
	assert.Equal(t, 0, zero.Score)
	assert.Equal(t, 0, zero.Earned)
}

func TestValidAnswerTag(t *testing.T) {
	for _, tag := range []string{"A", "B", "C", "D"} {
		assert.True(t, validAnswerTag(tag))
	}
	for _, tag := range []string{"", "a", "E", "AB"} {
		assert.False(t, validAnswerTag(tag))
	}
}
