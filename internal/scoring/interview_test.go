package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildQuestionsUnmappedSkill 未收录技能只产出 5 道通用题（场景：required=["Go"]）
func TestBuildQuestionsUnmappedSkill(t *testing.T) {
	questions := BuildInterviewQuestions([]string{"Go"})
	assert.Equal(t, genericInterviewQuestions, questions)
	assert.LessOrEqual(t, len(questions), maxInterviewQuestions)
}

// TestBuildQuestionsTopical 命中的技能各贡献 1 题，追加在通用题之后并截断到 6 题
func TestBuildQuestionsTopical(t *testing.T) {
	questions := BuildInterviewQuestions([]string{"JavaScript", "Python"})
	require.Len(t, questions, maxInterviewQuestions)

	// 前 5 题是通用题
	assert.Equal(t, genericInterviewQuestions, questions[:5])
	// 第 6 题来自第一个命中技能的题库首题
	assert.Equal(t, topicalInterviewQuestions["javascript"][0], questions[5])
}

// TestBuildQuestionsDeterministic 同样的技能列表总是产生同样的题目集
func TestBuildQuestionsDeterministic(t *testing.T) {
	skills := []string{"react", "sql", "docker"}
	first := BuildInterviewQuestions(skills)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildInterviewQuestions(skills))
	}
}

// TestBuildQuestionsCaseInsensitive 技能名大小写不影响题库查找
func TestBuildQuestionsCaseInsensitive(t *testing.T) {
	assert.Equal(t,
		BuildInterviewQuestions([]string{"PYTHON"}),
		BuildInterviewQuestions([]string{"python"}))
}

// TestAnalyzeResponseShortAnswer 过短回答三项一律保底 10 分
func TestAnalyzeResponseShortAnswer(t *testing.T) {
	baseline := ResponseScores{Relevance: 10, Confidence: 10, Clarity: 10}
	assert.Equal(t, baseline, AnalyzeResponse("Tell me about yourself.", ""))
	assert.Equal(t, baseline, AnalyzeResponse("Tell me about yourself.", "yes"))
	assert.Equal(t, baseline, AnalyzeResponse("Tell me about yourself.", "   ok    "))
}

// TestAnalyzeResponseFullMarks 场景：61 词、同时含工作词/积极词/结构词的回答三项全满
func TestAnalyzeResponseFullMarks(t *testing.T) {
	answer := "I led a team to build and develop a new platform, first defining requirements, then implementing it successfully " +
		strings.TrimSpace(strings.Repeat("with additional detail ", 15))
	require.Greater(t, len(strings.Fields(answer)), 60)

	scores := AnalyzeResponse("Describe a challenging project you worked on.", answer)
	assert.Equal(t, ResponseScores{Relevance: 100, Confidence: 100, Clarity: 100}, scores)
}

// TestAnalyzeResponseBaseOnly 无任何信号词的中等长度回答只有基础分
func TestAnalyzeResponseBaseOnly(t *testing.T) {
	scores := AnalyzeResponse("q", "my answer is quite plain indeed")
	assert.Equal(t, ResponseScores{Relevance: 40, Confidence: 50, Clarity: 50}, scores)
}

// TestAnalyzeResponseMonotonicInWordCount 词数跨过 30 和 60 阈值时各子评分不得下降
func TestAnalyzeResponseMonotonicInWordCount(t *testing.T) {
	wordCounts := []int{3, 29, 31, 59, 61}
	var prev ResponseScores
	for i, n := range wordCounts {
		answer := strings.TrimSpace(strings.Repeat("plain ", n))
		scores := AnalyzeResponse("q", answer)
		if i > 0 {
			assert.GreaterOrEqual(t, scores.Relevance, prev.Relevance, "词数 %d", n)
			assert.GreaterOrEqual(t, scores.Confidence, prev.Confidence, "词数 %d", n)
			assert.GreaterOrEqual(t, scores.Clarity, prev.Clarity, "词数 %d", n)
		}
		prev = scores
	}
}

// TestAnalyzeResponseCapped 任何回答都不会超过 100 分
func TestAnalyzeResponseCapped(t *testing.T) {
	answer := strings.Repeat("experience project team first because confident successfully ", 20)
	scores := AnalyzeResponse("q", answer)
	assert.LessOrEqual(t, scores.Relevance, 100)
	assert.LessOrEqual(t, scores.Confidence, 100)
	assert.LessOrEqual(t, scores.Clarity, 100)
}

// TestAggregateInterview 聚合取各子评分均值，overall 为三个均值的均值
func TestAggregateInterview(t *testing.T) {
	responses := []QA{
		{Question: "q1", Answer: "no"}, // 保底 10/10/10
		{Question: "q2", Answer: "my answer is quite plain indeed"}, // 40/50/50
	}
	result := AggregateInterview(responses)

	assert.Equal(t, 25, result.RelevanceScore)     // round((10+40)/2)
	assert.Equal(t, 30, result.ConfidenceScore)    // round((10+50)/2)
	assert.Equal(t, 30, result.CommunicationScore) // clarity 同上
	assert.Equal(t, 28, result.OverallScore)       // round((25+30+30)/3)
	assert.Len(t, result.Analysis, 2)
}

// TestAggregateInterviewEmotionsIsolated 情绪分布只是装饰数据，
// 相同回答多次聚合时各项得分必须稳定，不受随机情绪影响
func TestAggregateInterviewEmotionsIsolated(t *testing.T) {
	responses := []QA{{Question: "q", Answer: "I build and design systems with my team successfully"}}
	first := AggregateInterview(responses)
	for i := 0; i < 5; i++ {
		again := AggregateInterview(responses)
		assert.Equal(t, first.OverallScore, again.OverallScore)
		assert.Equal(t, first.RelevanceScore, again.RelevanceScore)
		assert.Equal(t, first.ConfidenceScore, again.ConfidenceScore)
		assert.Equal(t, first.CommunicationScore, again.CommunicationScore)
	}
}

// TestSynthesizeEmotionsRanges 各情绪值落在声明的固定区间内
func TestSynthesizeEmotionsRanges(t *testing.T) {
	for i := 0; i < 100; i++ {
		e := SynthesizeEmotions()
		assert.GreaterOrEqual(t, e.Neutral, 40)
		assert.LessOrEqual(t, e.Neutral, 70)
		assert.GreaterOrEqual(t, e.Happy, 20)
		assert.LessOrEqual(t, e.Happy, 50)
		assert.GreaterOrEqual(t, e.Nervous, 10)
		assert.LessOrEqual(t, e.Nervous, 30)
		assert.GreaterOrEqual(t, e.Confident, 20)
		assert.LessOrEqual(t, e.Confident, 40)
	}
}

// TestBuildTranscript 文字记录按 Q1/A 格式逐条拼接
func TestBuildTranscript(t *testing.T) {
	transcript := BuildTranscript([]QA{
		{Question: "Why us?", Answer: "Because."},
		{Question: "Strengths?", Answer: "Focus."},
	})
	assert.Equal(t, "Q1: Why us?\nA: Because.\n\nQ2: Strengths?\nA: Focus.", transcript)
}
