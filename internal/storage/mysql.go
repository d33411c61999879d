package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-hire-go/internal/config"
	"ai-hire-go/internal/storage/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var mysqlTracer = otel.Tracer("ai-hire-go/storage/mysql")

// GormTracingPlugin GORM插件，为数据库操作补充OpenTelemetry追踪点
type GormTracingPlugin struct {
	tracer trace.Tracer
	dbName string
}

// NewGormTracingPlugin 创建追踪插件
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{
		tracer: mysqlTracer,
		dbName: dbName,
	}
}

// Name 返回插件名称
func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize 为增删改查注册Before/After回调
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op       string
		register func(before, after func(*gorm.DB)) error
	}{
		{"CREATE", func(before, after func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register("otel:before_create", before); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register("otel:after_create", after)
		}},
		{"SELECT", func(before, after func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register("otel:before_query", before); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register("otel:after_query", after)
		}},
		{"UPDATE", func(before, after func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register("otel:before_update", before); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register("otel:after_update", after)
		}},
		{"DELETE", func(before, after func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", before); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register("otel:after_delete", after)
		}},
	}
	for _, h := range hooks {
		if err := h.register(p.before(h.op), p.after()); err != nil {
			return err
		}
	}
	return nil
}

func (p *GormTracingPlugin) before(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		// span 在 after 回调中通过 SpanFromContext 取出并结束
		ctx, _ := p.tracer.Start(db.Statement.Context, "gorm."+operation,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				semconv.DBName(p.dbName),
				attribute.String("db.operation", operation),
			),
		)
		db.Statement.Context = ctx
	}
}

func (p *GormTracingPlugin) after() func(*gorm.DB) {
	return func(db *gorm.DB) {
		span := trace.SpanFromContext(db.Statement.Context)
		if !span.IsRecording() {
			return
		}
		span.SetAttributes(
			attribute.String("db.statement.table", db.Statement.Table),
			attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
		)
		// 未命中记录对读路径来说不是错误
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}
		span.End()
	}
}

// MySQL MySQL存储适配器
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 连接MySQL并自动迁移表结构
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	var logLevel gormlogger.LogLevel
	switch cfg.LogLevel {
	case 1:
		logLevel = gormlogger.Silent
	case 2:
		logLevel = gormlogger.Error
	case 3:
		logLevel = gormlogger.Warn
	default:
		logLevel = gormlogger.Info
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(logLevel),
		PrepareStmt:                              true,
		// 把底层驱动的唯一键冲突翻译成 gorm.ErrDuplicatedKey，
		// "至多一次"约束依赖这一点
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)

	if err := db.Use(NewGormTracingPlugin(cfg.Database)); err != nil {
		return nil, fmt.Errorf("注册追踪插件失败: %w", err)
	}

	m := &MySQL{db: db, cfg: cfg}
	if err := m.autoMigrateSchema(); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("自动迁移数据库结构失败: %w", err)
	}
	return m, nil
}

// autoMigrateSchema 自动迁移全部业务表
func (m *MySQL) autoMigrateSchema() error {
	return m.db.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.Application{},
		&models.Test{},
		&models.Question{},
		&models.TestAttempt{},
		&models.Interview{},
	)
}

// DB 暴露底层 *gorm.DB，供需要组合查询的调用方使用
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translateError 把GORM错误翻译成存储层哨兵错误
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrAlreadyExists
	default:
		return err
	}
}

// ========== 用户 ==========

// CreateUser 创建用户，邮箱唯一
func (m *MySQL) CreateUser(ctx context.Context, user *models.User) error {
	return translateError(m.db.WithContext(ctx).Create(user).Error)
}

// GetUserByEmail 按邮箱查找用户
func (m *MySQL) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := m.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// GetUserByID 按ID查找用户
func (m *MySQL) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := m.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// ========== 岗位 ==========

// CreateJob 创建岗位
func (m *MySQL) CreateJob(ctx context.Context, job *models.Job) error {
	return translateError(m.db.WithContext(ctx).Create(job).Error)
}

// UpdateJob 管理员显式更新岗位
func (m *MySQL) UpdateJob(ctx context.Context, job *models.Job) error {
	result := m.db.WithContext(ctx).Model(&models.Job{}).
		Where("job_id = ?", job.JobID).
		Updates(map[string]interface{}{
			"title":                job.Title,
			"description":          job.Description,
			"required_skills_json": job.RequiredSkillsJSON,
			"experience_level":     job.ExperienceLevel,
			"is_active":            job.IsActive,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteJob 删除岗位
func (m *MySQL) DeleteJob(ctx context.Context, jobID string) error {
	result := m.db.WithContext(ctx).Where("job_id = ?", jobID).Delete(&models.Job{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetJobByID 按ID查找岗位
func (m *MySQL) GetJobByID(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	err := m.db.WithContext(ctx).Where("job_id = ?", jobID).First(&job).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &job, nil
}

// ListActiveJobs 列出所有在招岗位（公开接口）
func (m *MySQL) ListActiveJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	err := m.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, translateError(err)
}

// JobWithApplicantCount 岗位及其申请人数（管理端列表）
type JobWithApplicantCount struct {
	models.Job
	ApplicantCount int64 `gorm:"column:applicant_count"`
}

// ListAllJobs 列出全部岗位并附带申请人数
func (m *MySQL) ListAllJobs(ctx context.Context) ([]JobWithApplicantCount, error) {
	var jobs []JobWithApplicantCount
	err := m.db.WithContext(ctx).Model(&models.Job{}).
		Select("jobs.*, (SELECT COUNT(*) FROM applications WHERE applications.job_id = jobs.job_id) AS applicant_count").
		Order("jobs.created_at DESC").
		Find(&jobs).Error
	return jobs, translateError(err)
}

// ========== 申请 ==========

// CreateApplication 创建申请。
// (candidate_id, job_id) 唯一索引保证重复申请在并发下也会被拒绝。
func (m *MySQL) CreateApplication(ctx context.Context, app *models.Application) error {
	return translateError(m.db.WithContext(ctx).Create(app).Error)
}

// GetApplicationByID 按ID查找申请
func (m *MySQL) GetApplicationByID(ctx context.Context, applicationID string) (*models.Application, error) {
	var app models.Application
	err := m.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&app).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &app, nil
}

// CandidateApplicationRow 候选人视角的申请列表行
type CandidateApplicationRow struct {
	models.Application
	JobTitle           string         `gorm:"column:job_title"`
	JobDescription     string         `gorm:"column:job_description"`
	RequiredSkillsJSON []byte         `gorm:"column:job_required_skills"`
	TestID             *string        `gorm:"column:test_id"`
}

// ListApplicationsByCandidate 列出候选人的全部申请，附岗位与笔试信息
func (m *MySQL) ListApplicationsByCandidate(ctx context.Context, candidateID string) ([]CandidateApplicationRow, error) {
	var rows []CandidateApplicationRow
	err := m.db.WithContext(ctx).Model(&models.Application{}).
		Select("applications.*, jobs.title AS job_title, jobs.description AS job_description, jobs.required_skills_json AS job_required_skills, tests.test_id AS test_id").
		Joins("JOIN jobs ON jobs.job_id = applications.job_id").
		Joins("LEFT JOIN tests ON tests.job_id = jobs.job_id").
		Where("applications.candidate_id = ?", candidateID).
		Order("applications.created_at DESC").
		Find(&rows).Error
	return rows, translateError(err)
}

// ApplicationWithCandidate 管理端岗位申请列表行
type ApplicationWithCandidate struct {
	models.Application
	CandidateName  string `gorm:"column:candidate_name"`
	CandidateEmail string `gorm:"column:candidate_email"`
}

// ListApplicationsByJob 列出某岗位的全部申请，按最终得分降序。
// 并列时按创建时间升序，保证排名确定性。
func (m *MySQL) ListApplicationsByJob(ctx context.Context, jobID string) ([]ApplicationWithCandidate, error) {
	var rows []ApplicationWithCandidate
	err := m.db.WithContext(ctx).Model(&models.Application{}).
		Select("applications.*, users.name AS candidate_name, users.email AS candidate_email").
		Joins("JOIN users ON users.user_id = applications.candidate_id").
		Where("applications.job_id = ?", jobID).
		Order("applications.final_score DESC, applications.created_at ASC").
		Find(&rows).Error
	return rows, translateError(err)
}

// UpdateApplicationScores 更新申请上的评分字段。
// 每个阶段完成后由调用方重算 final_score 并随同写入。
func (m *MySQL) UpdateApplicationScores(ctx context.Context, applicationID string, updates map[string]interface{}) error {
	result := m.db.WithContext(ctx).Model(&models.Application{}).
		Where("application_id = ?", applicationID).
		Updates(updates)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ========== 笔试 ==========

// CreateTestWithQuestions 在一个事务中创建笔试与全部题目。
// 一个岗位只允许一套笔试，冲突返回 ErrAlreadyExists。
func (m *MySQL) CreateTestWithQuestions(ctx context.Context, test *models.Test, questions []models.Question) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(test).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].TestID = test.TestID
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translateError(err)
}

// GetTestByJobID 查找岗位对应的笔试
func (m *MySQL) GetTestByJobID(ctx context.Context, jobID string) (*models.Test, error) {
	var test models.Test
	err := m.db.WithContext(ctx).Where("job_id = ?", jobID).First(&test).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &test, nil
}

// GetTestByID 按ID查找笔试
func (m *MySQL) GetTestByID(ctx context.Context, testID string) (*models.Test, error) {
	var test models.Test
	err := m.db.WithContext(ctx).Where("test_id = ?", testID).First(&test).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &test, nil
}

// GetQuestionsByTestID 列出笔试的全部题目（含答案，调用方负责脱敏）
func (m *MySQL) GetQuestionsByTestID(ctx context.Context, testID string) ([]models.Question, error) {
	var questions []models.Question
	err := m.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("question_id ASC").
		Find(&questions).Error
	return questions, translateError(err)
}

// CreateTestAttempt 记录一次笔试作答。
// (application_id, test_id) 唯一索引保证二次提交被拒绝且不改动已有成绩。
func (m *MySQL) CreateTestAttempt(ctx context.Context, attempt *models.TestAttempt) error {
	return translateError(m.db.WithContext(ctx).Create(attempt).Error)
}

// ========== 面试 ==========

// CreateInterview 记录一场面试。application_id 唯一索引保证至多一场。
func (m *MySQL) CreateInterview(ctx context.Context, interview *models.Interview) error {
	return translateError(m.db.WithContext(ctx).Create(interview).Error)
}

// GetInterviewByApplicationID 查找申请对应的面试记录
func (m *MySQL) GetInterviewByApplicationID(ctx context.Context, applicationID string) (*models.Interview, error) {
	var interview models.Interview
	err := m.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&interview).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &interview, nil
}

// InterviewResultRow 管理端某岗位的面试结果行
type InterviewResultRow struct {
	models.Interview
	FinalScore     int    `gorm:"column:final_score"`
	ResumeScore    int    `gorm:"column:resume_score"`
	TestScore      int    `gorm:"column:test_score"`
	CandidateName  string `gorm:"column:candidate_name"`
	CandidateEmail string `gorm:"column:candidate_email"`
}

// ListInterviewsByJob 列出某岗位的全部面试结果，按最终得分降序
func (m *MySQL) ListInterviewsByJob(ctx context.Context, jobID string) ([]InterviewResultRow, error) {
	var rows []InterviewResultRow
	err := m.db.WithContext(ctx).Model(&models.Interview{}).
		Select("interviews.*, applications.final_score, applications.resume_score, applications.test_score, users.name AS candidate_name, users.email AS candidate_email").
		Joins("JOIN applications ON applications.application_id = interviews.application_id").
		Joins("JOIN users ON users.user_id = applications.candidate_id").
		Where("applications.job_id = ?", jobID).
		Order("applications.final_score DESC, applications.created_at ASC").
		Find(&rows).Error
	return rows, translateError(err)
}

// ========== 报表 ==========

// DashboardStats 管理后台统计
type DashboardStats struct {
	TotalJobs           int64   `json:"total_jobs"`
	ActiveJobs          int64   `json:"active_jobs"`
	TotalCandidates     int64   `json:"total_candidates"`
	TotalApplications   int64   `json:"total_applications"`
	CompletedInterviews int64   `json:"completed_interviews"`
	AvgFinalScore       int     `json:"avg_final_score"`
}

// GetDashboardStats 汇总管理后台统计数据
func (m *MySQL) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	db := m.db.WithContext(ctx)

	if err := db.Model(&models.Job{}).Count(&stats.TotalJobs).Error; err != nil {
		return nil, translateError(err)
	}
	if err := db.Model(&models.Job{}).Where("is_active = ?", true).Count(&stats.ActiveJobs).Error; err != nil {
		return nil, translateError(err)
	}
	if err := db.Model(&models.User{}).Where("role = ?", "candidate").Count(&stats.TotalCandidates).Error; err != nil {
		return nil, translateError(err)
	}
	if err := db.Model(&models.Application{}).Count(&stats.TotalApplications).Error; err != nil {
		return nil, translateError(err)
	}
	if err := db.Model(&models.Interview{}).Count(&stats.CompletedInterviews).Error; err != nil {
		return nil, translateError(err)
	}

	var avg *float64
	if err := db.Model(&models.Application{}).
		Where("final_score > 0").
		Select("AVG(final_score)").
		Scan(&avg).Error; err != nil {
		return nil, translateError(err)
	}
	if avg != nil {
		stats.AvgFinalScore = int(*avg + 0.5)
	}
	return stats, nil
}

// RankedCandidateRow 岗位排行榜行，含面试子评分
type RankedCandidateRow struct {
	ApplicationID      string    `gorm:"column:application_id" json:"application_id"`
	ResumeScore        int       `gorm:"column:resume_score" json:"resume_score"`
	TestScore          int       `gorm:"column:test_score" json:"test_score"`
	InterviewScore     int       `gorm:"column:interview_score" json:"interview_score"`
	FinalScore         int       `gorm:"column:final_score" json:"final_score"`
	Status             string    `gorm:"column:status" json:"status"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
	CandidateName      string    `gorm:"column:candidate_name" json:"candidate_name"`
	CandidateEmail     string    `gorm:"column:candidate_email" json:"candidate_email"`
	ConfidenceScore    *int      `gorm:"column:confidence_score" json:"confidence_score,omitempty"`
	CommunicationScore *int      `gorm:"column:communication_score" json:"communication_score,omitempty"`
	RelevanceScore     *int      `gorm:"column:relevance_score" json:"relevance_score,omitempty"`
	ResumeSkillsJSON   []byte    `gorm:"column:resume_skills_json" json:"-"`
}

// GetJobRankings 查询某岗位的候选人排行，按最终得分降序、
// 并列按申请时间升序。rank 与 grade 由调用方在读出后派生，不落库。
func (m *MySQL) GetJobRankings(ctx context.Context, jobID string) ([]RankedCandidateRow, error) {
	var rows []RankedCandidateRow
	err := m.db.WithContext(ctx).Model(&models.Application{}).
		Select(`applications.application_id, applications.resume_score, applications.test_score,
			applications.interview_score, applications.final_score, applications.status,
			applications.created_at, applications.resume_skills_json,
			users.name AS candidate_name, users.email AS candidate_email,
			interviews.confidence_score, interviews.communication_score, interviews.relevance_score`).
		Joins("JOIN users ON users.user_id = applications.candidate_id").
		Joins("LEFT JOIN interviews ON interviews.application_id = applications.application_id").
		Where("applications.job_id = ?", jobID).
		Order("applications.final_score DESC, applications.created_at ASC").
		Find(&rows).Error
	return rows, translateError(err)
}

// ActivityRow 最近动态行
type ActivityRow struct {
	ApplicationID string    `gorm:"column:application_id" json:"application_id"`
	Status        string    `gorm:"column:status" json:"status"`
	FinalScore    int       `gorm:"column:final_score" json:"final_score"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	CandidateName string    `gorm:"column:candidate_name" json:"candidate_name"`
	JobTitle      string    `gorm:"column:job_title" json:"job_title"`
}

// GetRecentActivity 最近10条申请动态
func (m *MySQL) GetRecentActivity(ctx context.Context) ([]ActivityRow, error) {
	var rows []ActivityRow
	err := m.db.WithContext(ctx).Model(&models.Application{}).
		Select("applications.application_id, applications.status, applications.final_score, applications.created_at, users.name AS candidate_name, jobs.title AS job_title").
		Joins("JOIN users ON users.user_id = applications.candidate_id").
		Joins("JOIN jobs ON jobs.job_id = applications.job_id").
		Order("applications.created_at DESC").
		Limit(10).
		Find(&rows).Error
	return rows, translateError(err)
}
