package scoring

import (
	"fmt"
	"math"
	"strings"
)

// maxInterviewQuestions 一场面试的题目数上限
const maxInterviewQuestions = 6

// shortAnswerBaseline 过短回答（去空白后不足 10 字符）的三项保底分
const shortAnswerBaseline = 10

// BuildInterviewQuestions 根据岗位要求技能组装面试题目集。
// 固定以 5 道通用行为题开头；随后按要求技能的给定顺序，从专项题库
// 中每个命中的技能取 1 题追加；未收录的技能静默跳过；最终截断到 6 题。
// 同样的技能列表总是产生同样的题目集，选题过程没有任何随机性。
func BuildInterviewQuestions(requiredSkills []string) []string {
	questions := make([]string, 0, maxInterviewQuestions)
	questions = append(questions, genericInterviewQuestions...)

	for _, skill := range requiredSkills {
		pool, ok := topicalInterviewQuestions[strings.ToLower(skill)]
		if !ok || len(pool) == 0 {
			continue
		}
		questions = append(questions, pool[0])
	}

	if len(questions) > maxInterviewQuestions {
		questions = questions[:maxInterviewQuestions]
	}
	return questions
}

// ResponseScores 单个回答的三项启发式子评分，均落在 [0,100]。
type ResponseScores struct {
	Relevance  int `json:"relevance"`
	Confidence int `json:"confidence"`
	Clarity    int `json:"clarity"`
}

// QA 一组面试问答
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AnalyzedResponse 带评分的问答记录
type AnalyzedResponse struct {
	QA
	ResponseScores
}

// AnalyzeResponse 对单条自由文本回答做启发式打分。
// 这是对 NLP 的刻意粗糙替代：阈值与加分值是对外可观测的契约，
// 不得"优化"。问题文本目前不参与打分，仅为未来替换真实模型预留。
//
// 规则：
//   - 去空白后不足 10 字符 → 三项一律 10 分（视为未作答）。
//   - relevance：基础 40；含工作相关词 +30；词数>30 再 +20；词数>60 再 +10。
//   - confidence：基础 50；含积极表述词 +25；词数>30 再 +25。
//   - clarity：基础 50；含结构连接词 +25；词数>30 再 +25。
//
// 三项均封顶 100。词数按空白分割统计。
func AnalyzeResponse(question, answer string) ResponseScores {
	if len(strings.TrimSpace(answer)) < 10 {
		return ResponseScores{
			Relevance:  shortAnswerBaseline,
			Confidence: shortAnswerBaseline,
			Clarity:    shortAnswerBaseline,
		}
	}

	lowerAnswer := strings.ToLower(answer)
	wordCount := len(strings.Fields(answer))
	isDetailed := wordCount > 30
	isVeryDetailed := wordCount > 60

	relevance := 40
	if containsAny(lowerAnswer, workKeywords) {
		relevance += 30
	}
	if isDetailed {
		relevance += 20
	}
	if isVeryDetailed {
		relevance += 10
	}

	confidence := 50
	if containsAny(lowerAnswer, positiveWords) {
		confidence += 25
	}
	if isDetailed {
		confidence += 25
	}

	clarity := 50
	if containsAny(lowerAnswer, structureWords) {
		clarity += 25
	}
	if isDetailed {
		clarity += 25
	}

	return ResponseScores{
		Relevance:  capScore(relevance),
		Confidence: capScore(confidence),
		Clarity:    capScore(clarity),
	}
}

// containsAny 判断文本（已转小写）是否包含任一信号词
func containsAny(lowerText string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lowerText, w) {
			return true
		}
	}
	return false
}

func capScore(score int) int {
	if score > 100 {
		return 100
	}
	return score
}

// InterviewResult 整场面试的聚合结果。
// Emotions 是合成的展示数据，见 emotions.go，永远不参与任何得分计算。
type InterviewResult struct {
	OverallScore       int                `json:"overall_score"`
	ConfidenceScore    int                `json:"confidence_score"`
	CommunicationScore int                `json:"communication_score"`
	RelevanceScore     int                `json:"relevance_score"`
	Emotions           Emotions           `json:"emotions"`
	Analysis           []AnalyzedResponse `json:"analysis"`
	Transcript         string             `json:"-"`
}

// AggregateInterview 逐条分析全部回答并聚合为整场面试得分。
// 三个子维度分别取各题得分的算术平均（四舍五入取整），
// overall = round(三个平均值的均值)。communication 对应 clarity 子评分。
// responses 为空时的拒绝在调用方（提交校验）完成，这里不做防御。
func AggregateInterview(responses []QA) InterviewResult {
	var totalRelevance, totalConfidence, totalClarity int
	analysis := make([]AnalyzedResponse, 0, len(responses))

	for _, r := range responses {
		scores := AnalyzeResponse(r.Question, r.Answer)
		totalRelevance += scores.Relevance
		totalConfidence += scores.Confidence
		totalClarity += scores.Clarity
		analysis = append(analysis, AnalyzedResponse{QA: r, ResponseScores: scores})
	}

	count := len(responses)
	avgRelevance := roundDiv(totalRelevance, count)
	avgConfidence := roundDiv(totalConfidence, count)
	avgClarity := roundDiv(totalClarity, count)

	return InterviewResult{
		OverallScore:       roundDiv(avgRelevance+avgConfidence+avgClarity, 3),
		ConfidenceScore:    avgConfidence,
		CommunicationScore: avgClarity,
		RelevanceScore:     avgRelevance,
		Emotions:           SynthesizeEmotions(),
		Analysis:           analysis,
		Transcript:         BuildTranscript(responses),
	}
}

// BuildTranscript 将问答对渲染为持久化用的面试文字记录
func BuildTranscript(responses []QA) string {
	var b strings.Builder
	for i, r := range responses {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Q%d: %s\nA: %s", i+1, r.Question, r.Answer)
	}
	return b.String()
}

// roundDiv 整数四舍五入除法
func roundDiv(sum, count int) int {
	return int(math.Round(float64(sum) / float64(count)))
}
