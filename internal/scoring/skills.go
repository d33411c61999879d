package scoring

import (
	"math"
	"strings"
)

// ExtractSkills 从任意文本（简历正文或降级时的文件名）中抽取技能关键词。
// 匹配规则：大小写不敏感的子串包含，不做词干化、不要求词边界。
// 返回结果保持词表顺序，文本不命中任何关键词时返回空切片。
func ExtractSkills(text string) []string {
	lowerText := strings.ToLower(text)
	skills := make([]string, 0, 8)
	for _, keyword := range skillVocabulary {
		if strings.Contains(lowerText, keyword) {
			skills = append(skills, keyword)
		}
	}
	return skills
}

// ResumeResult 简历评分结果
type ResumeResult struct {
	ExtractedSkills []string `json:"extracted_skills"`
	MatchedSkills   []string `json:"matched_skills"`
	Score           int      `json:"resume_score"`
}

// ScoreResume 将抽取到的技能与岗位要求技能做双向子串匹配并计算百分比得分。
// 某个要求技能只要与任意一个抽取技能互为子串（大小写不敏感）即视为命中。
// 得分 = round(命中数 / 要求技能数 * 100)；要求技能为空时得 0 分（防御默认值，不是错误）。
func ScoreResume(extractedSkills, requiredSkills []string) ResumeResult {
	result := ResumeResult{
		ExtractedSkills: extractedSkills,
		MatchedSkills:   make([]string, 0, len(requiredSkills)),
	}
	if len(requiredSkills) == 0 {
		return result
	}

	extractedLower := make([]string, len(extractedSkills))
	for i, s := range extractedSkills {
		extractedLower[i] = strings.ToLower(s)
	}

	for _, required := range requiredSkills {
		requiredLower := strings.ToLower(required)
		for _, extracted := range extractedLower {
			if strings.Contains(extracted, requiredLower) || strings.Contains(requiredLower, extracted) {
				result.MatchedSkills = append(result.MatchedSkills, required)
				break
			}
		}
	}

	result.Score = int(math.Round(float64(len(result.MatchedSkills)) / float64(len(requiredSkills)) * 100))
	return result
}

// FallbackResumeScore 简历文本解析失败时的固定降级得分。
// 此时仅用文件名做技能抽取，申请仍然正常落库。
const FallbackResumeScore = 30
