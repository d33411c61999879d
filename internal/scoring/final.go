package scoring

import "math"

// 最终得分的固定权重。原型期展示层出现过 30/35/35 的文案，
// 实际计算路径始终是 30/40/30，以这里为准。
const (
	resumeWeight    = 0.30
	testWeight      = 0.40
	interviewWeight = 0.30
)

// FinalScore 按固定权重合成最终得分：
// final = round(resume*0.3 + test*0.4 + interview*0.3)。
// 未完成的阶段得分按 0 传入。纯函数，输入不变则输出不变，可随时重算。
func FinalScore(resumeScore, testScore, interviewScore int) int {
	return int(math.Round(
		float64(resumeScore)*resumeWeight +
			float64(testScore)*testWeight +
			float64(interviewScore)*interviewWeight,
	))
}

// Grade 由最终得分导出报表用的等级：≥80 A、≥60 B、≥40 C、其余 D。
// 等级只用于展示，不落库。
func Grade(finalScore int) string {
	switch {
	case finalScore >= 80:
		return "A"
	case finalScore >= 60:
		return "B"
	case finalScore >= 40:
		return "C"
	default:
		return "D"
	}
}
