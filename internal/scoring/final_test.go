package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFinalScoreScenario resume=80, test=70, interview=60 → round(24+28+18)=70
func TestFinalScoreScenario(t *testing.T) {
	assert.Equal(t, 70, FinalScore(80, 70, 60))
}

// TestFinalScoreFormula 对采样输入逐一核对 round(0.3r+0.4t+0.3i)
func TestFinalScoreFormula(t *testing.T) {
	for _, r := range []int{0, 33, 50, 77, 100} {
		for _, ts := range []int{0, 33, 50, 77, 100} {
			for _, i := range []int{0, 33, 50, 77, 100} {
				expected := int(math.Round(0.3*float64(r) + 0.4*float64(ts) + 0.3*float64(i)))
				assert.Equal(t, expected, FinalScore(r, ts, i), "r=%d t=%d i=%d", r, ts, i)
			}
		}
	}
}

// TestFinalScoreDefaults 未完成的阶段按 0 分参与合成
func TestFinalScoreDefaults(t *testing.T) {
	assert.Equal(t, 0, FinalScore(0, 0, 0))
	assert.Equal(t, 24, FinalScore(80, 0, 0)) // 仅完成简历阶段
	assert.Equal(t, 52, FinalScore(80, 70, 0))
}

// TestFinalScoreIdempotent 输入不变时重算结果不变
func TestFinalScoreIdempotent(t *testing.T) {
	first := FinalScore(61, 47, 88)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, FinalScore(61, 47, 88))
	}
}

// TestGradeBanding 等级边界：≥80 A、≥60 B、≥40 C、其余 D
func TestGradeBanding(t *testing.T) {
	cases := []struct {
		score int
		grade string
	}{
		{100, "A"}, {80, "A"},
		{79, "B"}, {60, "B"},
		{59, "C"}, {40, "C"},
		{39, "D"}, {0, "D"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.grade, Grade(tc.score), "score=%d", tc.score)
	}
}
