package scoring

// 本文件集中维护评分流水线使用的全部静态词表。
// 词表是纯数据，扩充关键词或题库时不需要改动任何评分逻辑。

// skillVocabulary 技能关键词词表（全小写）。
// 简历抽取按该顺序做大小写不敏感的子串匹配，顺序即输出顺序。
// 注意："java" 会命中 "javascript"，这是下游双向子串匹配所容忍的既定行为。
var skillVocabulary = []string{
	"javascript", "python", "java", "react", "node.js", "nodejs", "express",
	"sql", "mysql", "mongodb", "postgresql", "html", "css", "typescript",
	"angular", "vue", "php", "c++", "c#", "ruby", "swift", "kotlin",
	"docker", "kubernetes", "aws", "azure", "git", "linux", "rest api",
	"machine learning", "deep learning", "data science", "tensorflow", "pytorch",
	"flutter", "react native", "django", "flask", "spring", "laravel",
	"figma", "ui/ux", "agile", "scrum", "devops", "ci/cd", "redis",
	"graphql", "microservices", "blockchain", "android", "ios",
}

// genericInterviewQuestions 通用行为面试题，任何岗位都会出现，顺序固定。
var genericInterviewQuestions = []string{
	"Tell me about yourself and your experience.",
	"What are your greatest strengths?",
	"Where do you see yourself in 5 years?",
	"Describe a challenging project you worked on.",
	"How do you handle tight deadlines and pressure?",
}

// topicalInterviewQuestions 按技能（小写）索引的专项题库。
// 每个命中的技能最多贡献 1 题，未收录的技能直接跳过。
var topicalInterviewQuestions = map[string][]string{
	"javascript": {
		"Explain closures in JavaScript with an example.",
		"What is the difference between let, var, and const?",
		"How does the event loop work in JavaScript?",
	},
	"python": {
		"What are Python decorators and how do you use them?",
		"Explain the difference between a list and a tuple.",
		"What is a Python generator?",
	},
	"react": {
		"Explain the React component lifecycle.",
		"What is the difference between state and props?",
		"How does React hooks work?",
	},
	"java": {
		"Explain the concept of polymorphism in Java.",
		"What is the difference between an interface and an abstract class?",
		"Explain Java memory management.",
	},
	"sql": {
		"What is the difference between INNER JOIN and LEFT JOIN?",
		"Explain database normalization.",
		"What are indexes and why are they important?",
	},
}

// 回答启发式分析使用的三组信号词（均为小写子串匹配）。
var (
	// workKeywords 工作相关词，命中一次即给相关性加分
	workKeywords = []string{
		"experience", "project", "team", "build", "develop",
		"work", "implement", "manage", "create", "design",
	}

	// positiveWords 积极表述词，影响自信度
	positiveWords = []string{
		"confident", "experience", "skilled", "expert",
		"proficient", "successfully", "achieved",
	}

	// structureWords 结构连接词，影响表达清晰度
	structureWords = []string{
		"first", "second", "then", "also",
		"furthermore", "because", "therefore",
	}
)
