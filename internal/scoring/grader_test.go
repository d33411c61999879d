package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGradeTestScenario 两题（1 分 + 2 分），只答对第一题 → earned=1, total=3, score=33
func TestGradeTestScenario(t *testing.T) {
	questions := []GradedQuestion{
		{ID: 1, Correct: "A", Marks: 1},
		{ID: 2, Correct: "B", Marks: 2},
	}
	answers := map[uint64]string{1: "A", 2: "C"}

	result := GradeTest(questions, answers)
	assert.Equal(t, 1, result.Earned)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 33, result.Score)
}

// TestGradeTestOrderIndependent 打乱题目顺序不影响得分
func TestGradeTestOrderIndependent(t *testing.T) {
	questions := []GradedQuestion{
		{ID: 1, Correct: "A", Marks: 1},
		{ID: 2, Correct: "B", Marks: 2},
		{ID: 3, Correct: "D", Marks: 3},
	}
	answers := map[uint64]string{1: "A", 2: "B", 3: "C"}

	forward := GradeTest(questions, answers)
	reversed := GradeTest([]GradedQuestion{questions[2], questions[0], questions[1]}, answers)
	assert.Equal(t, forward, reversed)
}

// TestGradeTestUnanswered 未作答的题目按 0 分处理，不报错
func TestGradeTestUnanswered(t *testing.T) {
	questions := []GradedQuestion{
		{ID: 1, Correct: "A", Marks: 2},
		{ID: 2, Correct: "B", Marks: 2},
	}
	result := GradeTest(questions, map[uint64]string{1: "A"})
	assert.Equal(t, 2, result.Earned)
	assert.Equal(t, 50, result.Score)

	// 完全未作答
	result = GradeTest(questions, nil)
	assert.Equal(t, 0, result.Earned)
	assert.Equal(t, 0, result.Score)
}

// TestGradeTestZeroWeight 无题或分值全为 0 时定义为 0 分，不能出现除零
func TestGradeTestZeroWeight(t *testing.T) {
	assert.Equal(t, TestResult{}, GradeTest(nil, nil))

	questions := []GradedQuestion{{ID: 1, Correct: "A", Marks: 0}}
	result := GradeTest(questions, map[uint64]string{1: "A"})
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.Total)
}

// TestGradeTestRange 得分始终落在 [0,100]
func TestGradeTestRange(t *testing.T) {
	questions := []GradedQuestion{
		{ID: 1, Correct: "A", Marks: 5},
		{ID: 2, Correct: "B", Marks: 5},
	}
	full := GradeTest(questions, map[uint64]string{1: "A", 2: "B"})
	assert.Equal(t, 100, full.Score)

	none := GradeTest(questions, map[uint64]string{1: "C", 2: "D"})
	assert.Equal(t, 0, none.Score)
}
