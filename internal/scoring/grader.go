package scoring

import "math"

// GradedQuestion 批卷所需的题目信息：正确选项标签（A/B/C/D）与该题分值。
type GradedQuestion struct {
	ID      uint64
	Correct string
	Marks   int
}

// TestResult 笔试批卷结果
type TestResult struct {
	Score  int `json:"score"`
	Earned int `json:"earned"`
	Total  int `json:"total"`
}

// GradeTest 按题目分值加权批改一次笔试提交。
// answers 以题目ID索引考生选择的选项标签，缺失的题目按未作答计 0 分。
// 得分 = round(实得分值 / 总分值 * 100)；总分值为 0（无题或全部 0 分值）时得 0 分。
// 批卷结果与题目顺序无关。
func GradeTest(questions []GradedQuestion, answers map[uint64]string) TestResult {
	var result TestResult
	for _, q := range questions {
		result.Total += q.Marks
		if answers[q.ID] == q.Correct {
			result.Earned += q.Marks
		}
	}
	if result.Total > 0 {
		result.Score = int(math.Round(float64(result.Earned) / float64(result.Total) * 100))
	}
	return result
}
