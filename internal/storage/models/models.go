package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// User 用户表（候选人与管理员共用）
type User struct {
	UserID       string    `gorm:"type:char(36);primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex:idx_users_email_unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);default:'candidate';index:idx_users_role"`
	CreatedAt    time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt    time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// Job 岗位信息表
type Job struct {
	JobID              string         `gorm:"type:char(36);primaryKey"`
	Title              string         `gorm:"type:varchar(255);not null"`
	Description        string         `gorm:"type:text"`
	RequiredSkillsJSON datatypes.JSON `gorm:"type:json;not null"` // 有序的要求技能列表
	ExperienceLevel    string         `gorm:"type:varchar(50);default:'junior'"`
	IsActive           bool           `gorm:"default:true;index:idx_jobs_is_active"`
	AdminID            string         `gorm:"type:char(36)"`
	CreatedAt          time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt          time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Job) TableName() string {
	return "jobs"
}

// RequiredSkills 解码岗位的要求技能列表
func (j *Job) RequiredSkills() []string {
	var skills []string
	if len(j.RequiredSkillsJSON) > 0 {
		_ = json.Unmarshal(j.RequiredSkillsJSON, &skills)
	}
	if skills == nil {
		skills = []string{}
	}
	return skills
}

// SetRequiredSkills 编码岗位的要求技能列表
func (j *Job) SetRequiredSkills(skills []string) error {
	data, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	j.RequiredSkillsJSON = data
	return nil
}

// Application 求职申请表。
// 同一候选人对同一岗位最多一条申请，由联合唯一索引在存储层兜底。
type Application struct {
	ApplicationID   string         `gorm:"type:char(36);primaryKey"`
	CandidateID     string         `gorm:"type:char(36);not null;uniqueIndex:idx_applications_candidate_job_unique"`
	JobID           string         `gorm:"type:char(36);not null;uniqueIndex:idx_applications_candidate_job_unique;index:idx_applications_job"`
	ResumeObjectKey string         `gorm:"type:varchar(512)"` // MinIO对象键
	ResumeSkillsJSON datatypes.JSON `gorm:"type:json"`
	ResumeScore     int            `gorm:"default:0"`
	TestScore       int            `gorm:"default:0"`
	InterviewScore  int            `gorm:"default:0"`
	FinalScore      int            `gorm:"default:0;index:idx_applications_final_score"`
	Status          string         `gorm:"type:varchar(30);default:'applied'"`
	CreatedAt       time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt       time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Application) TableName() string {
	return "applications"
}

// ResumeSkills 解码申请上记录的简历技能列表
func (a *Application) ResumeSkills() []string {
	var skills []string
	if len(a.ResumeSkillsJSON) > 0 {
		_ = json.Unmarshal(a.ResumeSkillsJSON, &skills)
	}
	if skills == nil {
		skills = []string{}
	}
	return skills
}

// SetResumeSkills 编码简历技能列表
func (a *Application) SetResumeSkills(skills []string) error {
	data, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	a.ResumeSkillsJSON = data
	return nil
}

// Test 笔试表，每个岗位最多一套
type Test struct {
	TestID          string    `gorm:"type:char(36);primaryKey"`
	JobID           string    `gorm:"type:char(36);not null;uniqueIndex:idx_tests_job_unique"`
	Title           string    `gorm:"type:varchar(255);not null"`
	DurationMinutes int       `gorm:"default:30"`
	CreatedAt       time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
}

func (Test) TableName() string {
	return "tests"
}

// Question 笔试题目表，四选一，按分值加权
type Question struct {
	QuestionID    uint64 `gorm:"primaryKey;autoIncrement"`
	TestID        string `gorm:"type:char(36);not null;index:idx_questions_test"`
	QuestionText  string `gorm:"type:text;not null"`
	OptionA       string `gorm:"type:varchar(500);not null"`
	OptionB       string `gorm:"type:varchar(500);not null"`
	OptionC       string `gorm:"type:varchar(500);not null"`
	OptionD       string `gorm:"type:varchar(500);not null"`
	CorrectAnswer string `gorm:"type:char(1);not null"` // A/B/C/D
	Marks         int    `gorm:"default:1"`
}

func (Question) TableName() string {
	return "questions"
}

// TestAttempt 笔试作答记录。
// 每条申请对每套笔试只允许一次作答，首次成绩即最终成绩。
type TestAttempt struct {
	AttemptID     uint64         `gorm:"primaryKey;autoIncrement"`
	ApplicationID string         `gorm:"type:char(36);not null;uniqueIndex:idx_test_attempts_app_test_unique"`
	TestID        string         `gorm:"type:char(36);not null;uniqueIndex:idx_test_attempts_app_test_unique"`
	AnswersJSON   datatypes.JSON `gorm:"type:json"` // question_id → 所选选项标签
	Score         int            `gorm:"default:0"`
	CompletedAt   time.Time      `gorm:"type:datetime(6)"`
}

func (TestAttempt) TableName() string {
	return "test_attempts"
}

// Answers 解码作答映射
func (t *TestAttempt) Answers() map[uint64]string {
	answers := make(map[uint64]string)
	if len(t.AnswersJSON) > 0 {
		_ = json.Unmarshal(t.AnswersJSON, &answers)
	}
	return answers
}

// SetAnswers 编码作答映射
func (t *TestAttempt) SetAnswers(answers map[uint64]string) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	t.AnswersJSON = data
	return nil
}

// Interview 面试记录表，每条申请最多一场面试。
// EmotionsJSON 是合成的展示数据，绝不参与评分。
type Interview struct {
	InterviewID        uint64         `gorm:"primaryKey;autoIncrement"`
	ApplicationID      string         `gorm:"type:char(36);not null;uniqueIndex:idx_interviews_application_unique"`
	Transcript         string         `gorm:"type:text"`
	EmotionsJSON       datatypes.JSON `gorm:"type:json"`
	ConfidenceScore    int            `gorm:"default:0"`
	CommunicationScore int            `gorm:"default:0"`
	RelevanceScore     int            `gorm:"default:0"`
	OverallScore       int            `gorm:"default:0"`
	CompletedAt        time.Time      `gorm:"type:datetime(6)"`
}

func (Interview) TableName() string {
	return "interviews"
}
