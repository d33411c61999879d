package constants

import "time"

// 应用状态机：applied → test_completed → interview_completed，只进不退。
const (
	StatusApplied            = "applied"
	StatusTestCompleted      = "test_completed"
	StatusInterviewCompleted = "interview_completed"
)

// 用户角色
const (
	RoleCandidate = "candidate"
	RoleAdmin     = "admin"
)

// Redis键
const (
	RankingCachePrefix  = "cache:rankings:"      // + job_id，排行榜缓存
	StatsCacheKey       = "cache:report_stats"   // 管理后台统计缓存
	StatsCacheDuration  = 30 * time.Second
	ResumeFileMD5SetKey = "resumes:file_md5s" // 简历原件MD5去重Set
)

// 评分事件类型（RabbitMQ candidate.scored 消息的 stage 字段）
const (
	StageResume    = "resume"
	StageTest      = "test"
	StageInterview = "interview"
)
