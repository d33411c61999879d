package handler

import (
	"context"
	"fmt"

	"ai-hire-go/internal/config"
	"ai-hire-go/internal/storage"
	"ai-hire-go/internal/storage/models"

	"github.com/gofrs/uuid/v5"
)

// JobHandler 岗位管理
type JobHandler struct {
	cfg     *config.Config
	storage *storage.Storage
}

// NewJobHandler 创建岗位处理器
func NewJobHandler(cfg *config.Config, storage *storage.Storage) *JobHandler {
	return &JobHandler{cfg: cfg, storage: storage}
}

// JobRequest 创建/更新岗位请求
type JobRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	RequiredSkills  []string `json:"required_skills"`
	ExperienceLevel string   `json:"experience_level"`
	IsActive        *bool    `json:"is_active"`
}

// JobView 岗位视图，要求技能已解码
type JobView struct {
	JobID           string   `json:"job_id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	RequiredSkills  []string `json:"required_skills"`
	ExperienceLevel string   `json:"experience_level"`
	IsActive        bool     `json:"is_active"`
	CreatedAt       string   `json:"created_at"`
	ApplicantCount  *int64   `json:"applicant_count,omitempty"`
}

func jobToView(job *models.Job) JobView {
	return JobView{
		JobID:           job.JobID,
		Title:           job.Title,
		Description:     job.Description,
		RequiredSkills:  job.RequiredSkills(),
		ExperienceLevel: job.ExperienceLevel,
		IsActive:        job.IsActive,
		CreatedAt:       job.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// CreateJob 创建岗位（管理员）
func (h *JobHandler) CreateJob(ctx context.Context, adminID string, req *JobRequest) (*JobView, error) {
	if req.Title == "" || len(req.RequiredSkills) == 0 {
		return nil, fmt.Errorf("%w: 标题与要求技能必填", ErrInvalidInput)
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成岗位ID失败: %w", err)
	}

	job := &models.Job{
		JobID:           uuidV7.String(),
		Title:           req.Title,
		Description:     req.Description,
		ExperienceLevel: req.ExperienceLevel,
		IsActive:        true,
		AdminID:         adminID,
	}
	if job.ExperienceLevel == "" {
		job.ExperienceLevel = "junior"
	}
	if err := job.SetRequiredSkills(req.RequiredSkills); err != nil {
		return nil, fmt.Errorf("编码要求技能失败: %w", err)
	}

	if err := h.storage.MySQL.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	view := jobToView(job)
	return &view, nil
}

// UpdateJob 管理员显式更新岗位
func (h *JobHandler) UpdateJob(ctx context.Context, jobID string, req *JobRequest) error {
	if req.Title == "" || len(req.RequiredSkills) == 0 {
		return fmt.Errorf("%w: 标题与要求技能必填", ErrInvalidInput)
	}

	job := &models.Job{
		JobID:           jobID,
		Title:           req.Title,
		Description:     req.Description,
		ExperienceLevel: req.ExperienceLevel,
		IsActive:        req.IsActive == nil || *req.IsActive,
	}
	if err := job.SetRequiredSkills(req.RequiredSkills); err != nil {
		return fmt.Errorf("编码要求技能失败: %w", err)
	}
	return h.storage.MySQL.UpdateJob(ctx, job)
}

// DeleteJob 删除岗位（管理员）
func (h *JobHandler) DeleteJob(ctx context.Context, jobID string) error {
	return h.storage.MySQL.DeleteJob(ctx, jobID)
}

// GetJob 查询单个岗位
func (h *JobHandler) GetJob(ctx context.Context, jobID string) (*JobView, error) {
	job, err := h.storage.MySQL.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	view := jobToView(job)
	return &view, nil
}

// ListActiveJobs 列出在招岗位（公开）
func (h *JobHandler) ListActiveJobs(ctx context.Context) ([]JobView, error) {
	jobs, err := h.storage.MySQL.ListActiveJobs(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]JobView, 0, len(jobs))
	for i := range jobs {
		views = append(views, jobToView(&jobs[i]))
	}
	return views, nil
}

// ListAllJobs 列出全部岗位及申请人数（管理员）
func (h *JobHandler) ListAllJobs(ctx context.Context) ([]JobView, error) {
	jobs, err := h.storage.MySQL.ListAllJobs(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]JobView, 0, len(jobs))
	for i := range jobs {
		view := jobToView(&jobs[i].Job)
		count := jobs[i].ApplicantCount
		view.ApplicantCount = &count
		views = append(views, view)
	}
	return views, nil
}
