package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractSkillsBasic 验证基本的关键词抽取
func TestExtractSkillsBasic(t *testing.T) {
	text := "Senior engineer with Python, Docker and React experience. Built REST API services."
	skills := ExtractSkills(text)

	assert.Contains(t, skills, "python")
	assert.Contains(t, skills, "docker")
	assert.Contains(t, skills, "react")
	assert.Contains(t, skills, "rest api")
	assert.NotContains(t, skills, "kotlin")
}

// TestExtractSkillsSubsetAndOrder 验证输出是词表的子集且保持词表顺序
func TestExtractSkillsSubsetAndOrder(t *testing.T) {
	text := "redis docker python javascript"
	skills := ExtractSkills(text)

	// 输出必须是词表子集
	vocabIndex := make(map[string]int, len(skillVocabulary))
	for i, kw := range skillVocabulary {
		vocabIndex[kw] = i
	}
	prev := -1
	for _, s := range skills {
		idx, ok := vocabIndex[s]
		require.True(t, ok, "抽取结果 %q 不在词表中", s)
		assert.Greater(t, idx, prev, "输出顺序应与词表顺序一致")
		prev = idx
	}
}

// TestExtractSkillsSubstringBehavior "java" 作为 "javascript" 的子串同样命中，
// 这是既定行为而不是缺陷
func TestExtractSkillsSubstringBehavior(t *testing.T) {
	skills := ExtractSkills("I write JavaScript every day")
	assert.Contains(t, skills, "javascript")
	assert.Contains(t, skills, "java")
}

// TestExtractSkillsCaseInsensitive 匹配不区分大小写
func TestExtractSkillsCaseInsensitive(t *testing.T) {
	assert.Equal(t, ExtractSkills("PYTHON and MySQL"), ExtractSkills("python and mysql"))
}

// TestExtractSkillsEmpty 任何文本都返回合法的（可能为空的）列表
func TestExtractSkillsEmpty(t *testing.T) {
	assert.Empty(t, ExtractSkills(""))
	assert.Empty(t, ExtractSkills("没有任何技术关键词的文本"))
	assert.NotNil(t, ExtractSkills(""))
}

// TestScoreResumeScenario 岗位要求 ["Python","SQL"]，简历只命中 python → 50 分
func TestScoreResumeScenario(t *testing.T) {
	result := ScoreResume([]string{"python"}, []string{"Python", "SQL"})
	assert.Equal(t, 50, result.Score)
	assert.Equal(t, []string{"Python"}, result.MatchedSkills)
}

// TestScoreResumeBidirectional 要求技能与抽取技能互为子串都算命中
func TestScoreResumeBidirectional(t *testing.T) {
	// 抽取到 "node.js"，要求 "Node" —— 要求是抽取的子串
	result := ScoreResume([]string{"node.js"}, []string{"Node"})
	assert.Equal(t, 100, result.Score)

	// 抽取到 "sql"，要求 "MySQL" —— 抽取是要求的子串
	result = ScoreResume([]string{"sql"}, []string{"MySQL"})
	assert.Equal(t, 100, result.Score)
}

// TestScoreResumeEmptyRequired 要求技能为空时定义为 0 分，不是错误
func TestScoreResumeEmptyRequired(t *testing.T) {
	result := ScoreResume([]string{"python", "docker"}, nil)
	assert.Equal(t, 0, result.Score)
	assert.Empty(t, result.MatchedSkills)
}

// TestScoreResumeRange 得分始终落在 [0,100]
func TestScoreResumeRange(t *testing.T) {
	cases := []struct {
		extracted []string
		required  []string
	}{
		{nil, []string{"Go", "Rust", "Zig"}},
		{[]string{"python"}, []string{"Python"}},
		{[]string{"python", "sql", "docker"}, []string{"Python", "SQL"}},
	}
	for _, tc := range cases {
		result := ScoreResume(tc.extracted, tc.required)
		assert.GreaterOrEqual(t, result.Score, 0)
		assert.LessOrEqual(t, result.Score, 100)
	}
}

// TestScoreResumeRounding 1/3 命中 → round(33.33) = 33
func TestScoreResumeRounding(t *testing.T) {
	result := ScoreResume([]string{"python"}, []string{"Python", "Rust", "Zig"})
	assert.Equal(t, 33, result.Score)
}

// TestFallbackExtractionFromFilename 降级路径下仅凭文件名也能抽取技能
func TestFallbackExtractionFromFilename(t *testing.T) {
	skills := ExtractSkills("resume_python_react_developer.pdf")
	assert.Contains(t, skills, "python")
	assert.Contains(t, skills, "react")
	assert.True(t, strings.Contains("resume_python_react_developer.pdf", "python"))
}
