package handler

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"ai-hire-go/internal/config"
	"ai-hire-go/internal/constants"
	"ai-hire-go/internal/logger"
	"ai-hire-go/internal/parser"
	"ai-hire-go/internal/scoring"
	"ai-hire-go/internal/storage"
	"ai-hire-go/internal/storage/models"

	"github.com/gofrs/uuid/v5"
)

// ApplicationHandler 求职申请：简历入库与简历阶段评分
type ApplicationHandler struct {
	cfg       *config.Config
	storage   *storage.Storage
	extractor *parser.PDFTextExtractor
}

// NewApplicationHandler 创建申请处理器。extractor 可为nil，
// 此时所有申请都走降级路径（仅凭文件名抽取技能）。
func NewApplicationHandler(cfg *config.Config, storage *storage.Storage, extractor *parser.PDFTextExtractor) *ApplicationHandler {
	return &ApplicationHandler{cfg: cfg, storage: storage, extractor: extractor}
}

// ApplyResponse 申请成功响应
type ApplyResponse struct {
	ApplicationID   string   `json:"application_id"`
	ResumeScore     int      `json:"resume_score"`
	FinalScore      int      `json:"final_score"`
	ExtractedSkills []string `json:"extracted_skills"`
	MatchedSkills   []string `json:"matched_skills"`
	Degraded        bool     `json:"degraded"`         // 简历解析失败走了降级评分
	DuplicateResume bool     `json:"duplicate_resume"` // 简历文件与历史上传重复
	Message         string   `json:"message"`
}

// Apply 申请岗位：上传简历、抽取技能、计算简历阶段得分并落库。
// 全流程在请求内同步完成。同一候选人重复申请同一岗位由
// 唯一索引拒绝（storage.ErrAlreadyExists）。
func (h *ApplicationHandler) Apply(ctx context.Context, candidateID, jobID, filename string, fileBytes []byte) (*ApplyResponse, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%w: job_id必填", ErrInvalidInput)
	}
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("%w: 简历文件必填", ErrInvalidInput)
	}

	job, err := h.storage.MySQL.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	requiredSkills := job.RequiredSkills()

	// 简历文件MD5查重：重复文件不拒绝申请，只在响应中提示
	fileMD5 := md5.Sum(fileBytes)
	fileMD5Hex := hex.EncodeToString(fileMD5[:])
	duplicateResume := false
	if h.storage.Redis != nil {
		exists, err := h.storage.Redis.CheckResumeFileMD5Exists(ctx, fileMD5Hex)
		if err != nil {
			logger.Warn().Err(err).Msg("查询简历MD5去重Set失败")
		} else if exists {
			duplicateResume = true
			logger.Info().Str("md5", fileMD5Hex).Str("filename", filename).
				Msg("检测到重复的简历文件MD5")
		}
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成申请ID失败: %w", err)
	}
	applicationID := uuidV7.String()

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}

	// 上传简历原件到MinIO。对象存储不可用时继续流程，评分不依赖原件。
	var objectKey string
	if h.storage.MinIO != nil {
		objectKey, err = h.storage.MinIO.UploadResumeFile(ctx, applicationID, ext, bytes.NewReader(fileBytes), int64(len(fileBytes)))
		if err != nil {
			logger.Warn().Err(err).Str("application_id", applicationID).Msg("上传简历到MinIO失败")
			objectKey = ""
		} else if h.storage.Redis != nil {
			if err := h.storage.Redis.AddResumeFileMD5(ctx, fileMD5Hex); err != nil {
				logger.Warn().Err(err).Str("md5", fileMD5Hex).Msg("记录简历MD5失败")
			}
		}
	}

	// 简历阶段评分。PDF解析失败走降级路径：固定30分，仅凭文件名抽取技能。
	var result scoring.ResumeResult
	degraded := false
	resumeText, err := h.extractResumeText(ctx, fileBytes, filename)
	if err != nil {
		logger.Warn().Err(err).Str("filename", filename).
			Msg("简历文本提取失败，启用降级评分")
		degraded = true
		extracted := scoring.ExtractSkills(filename)
		result = scoring.ScoreResume(extracted, requiredSkills)
		result.Score = scoring.FallbackResumeScore
	} else {
		extracted := scoring.ExtractSkills(resumeText)
		result = scoring.ScoreResume(extracted, requiredSkills)
	}

	finalScore := scoring.FinalScore(result.Score, 0, 0)

	app := &models.Application{
		ApplicationID:   applicationID,
		CandidateID:     candidateID,
		JobID:           jobID,
		ResumeObjectKey: objectKey,
		ResumeScore:     result.Score,
		FinalScore:      finalScore,
		Status:          constants.StatusApplied,
	}
	if err := app.SetResumeSkills(result.ExtractedSkills); err != nil {
		return nil, fmt.Errorf("编码简历技能失败: %w", err)
	}
	if err := h.storage.MySQL.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	publishStageEvent(ctx, h.storage, applicationID, jobID,
		constants.StageResume, result.Score, finalScore, app.Status)
	invalidateJobCaches(ctx, h.storage, jobID)

	return &ApplyResponse{
		ApplicationID:   applicationID,
		ResumeScore:     result.Score,
		FinalScore:      finalScore,
		ExtractedSkills: result.ExtractedSkills,
		MatchedSkills:   result.MatchedSkills,
		Degraded:        degraded,
		DuplicateResume: duplicateResume,
		Message:         "申请提交成功",
	}, nil
}

// extractResumeText 提取简历全文，提取器缺失视同提取失败
func (h *ApplicationHandler) extractResumeText(ctx context.Context, fileBytes []byte, filename string) (string, error) {
	if h.extractor == nil {
		return "", fmt.Errorf("PDF提取器未初始化")
	}
	return h.extractor.ExtractText(ctx, bytes.NewReader(fileBytes), filename)
}

// ApplicationView 申请视图
type ApplicationView struct {
	ApplicationID  string   `json:"application_id"`
	JobID          string   `json:"job_id"`
	JobTitle       string   `json:"job_title,omitempty"`
	JobDescription string   `json:"job_description,omitempty"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	ResumeSkills   []string `json:"resume_skills"`
	ResumeScore    int      `json:"resume_score"`
	TestScore      int      `json:"test_score"`
	InterviewScore int      `json:"interview_score"`
	FinalScore     int      `json:"final_score"`
	Status         string   `json:"status"`
	TestID         *string  `json:"test_id,omitempty"`
	CandidateName  string   `json:"candidate_name,omitempty"`
	CandidateEmail string   `json:"candidate_email,omitempty"`
	Rank           int      `json:"rank,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

// MyApplications 候选人查看自己的全部申请
func (h *ApplicationHandler) MyApplications(ctx context.Context, candidateID string) ([]ApplicationView, error) {
	rows, err := h.storage.MySQL.ListApplicationsByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	views := make([]ApplicationView, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		view := ApplicationView{
			ApplicationID:  row.ApplicationID,
			JobID:          row.JobID,
			JobTitle:       row.JobTitle,
			JobDescription: row.JobDescription,
			ResumeSkills:   row.ResumeSkills(),
			ResumeScore:    row.ResumeScore,
			TestScore:      row.TestScore,
			InterviewScore: row.InterviewScore,
			FinalScore:     row.FinalScore,
			Status:         row.Status,
			TestID:         row.TestID,
			CreatedAt:      row.CreatedAt.Format(time.RFC3339),
		}
		if len(row.RequiredSkillsJSON) > 0 {
			_ = json.Unmarshal(row.RequiredSkillsJSON, &view.RequiredSkills)
		}
		views = append(views, view)
	}
	return views, nil
}

// JobApplications 管理员查看某岗位的全部申请，按最终得分排名
func (h *ApplicationHandler) JobApplications(ctx context.Context, jobID string) ([]ApplicationView, error) {
	rows, err := h.storage.MySQL.ListApplicationsByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	views := make([]ApplicationView, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		views = append(views, ApplicationView{
			ApplicationID:  row.ApplicationID,
			JobID:          row.JobID,
			ResumeSkills:   row.ResumeSkills(),
			ResumeScore:    row.ResumeScore,
			TestScore:      row.TestScore,
			InterviewScore: row.InterviewScore,
			FinalScore:     row.FinalScore,
			Status:         row.Status,
			CandidateName:  row.CandidateName,
			CandidateEmail: row.CandidateEmail,
			Rank:           i + 1, // 行序即排名：SQL已按最终得分降序、并列按申请时间升序
			CreatedAt:      row.CreatedAt.Format(time.RFC3339),
		})
	}
	return views, nil
}

// GetApplication 查看单条申请。候选人只能看自己的，管理员不受限。
func (h *ApplicationHandler) GetApplication(ctx context.Context, applicationID, requesterID string, isAdmin bool) (*ApplicationView, error) {
	app, err := h.storage.MySQL.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && app.CandidateID != requesterID {
		return nil, ErrForbidden
	}

	view := &ApplicationView{
		ApplicationID:  app.ApplicationID,
		JobID:          app.JobID,
		ResumeSkills:   app.ResumeSkills(),
		ResumeScore:    app.ResumeScore,
		TestScore:      app.TestScore,
		InterviewScore: app.InterviewScore,
		FinalScore:     app.FinalScore,
		Status:         app.Status,
		CreatedAt:      app.CreatedAt.Format(time.RFC3339),
	}
	if job, err := h.storage.MySQL.GetJobByID(ctx, app.JobID); err == nil {
		view.JobTitle = job.Title
		view.RequiredSkills = job.RequiredSkills()
	}
	return view, nil
}

// DownloadResume 管理员下载简历原件。
// 申请时MinIO上传失败（或未配置）的申请没有原件，返回 ErrNotFound。
func (h *ApplicationHandler) DownloadResume(ctx context.Context, applicationID string) ([]byte, string, error) {
	app, err := h.storage.MySQL.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, "", err
	}
	if app.ResumeObjectKey == "" || h.storage.MinIO == nil {
		return nil, "", fmt.Errorf("简历原件不存在: %w", storage.ErrNotFound)
	}
	data, err := h.storage.MinIO.GetResumeFile(ctx, app.ResumeObjectKey)
	if err != nil {
		return nil, "", fmt.Errorf("读取简历原件失败: %w", err)
	}
	return data, app.ResumeObjectKey, nil
}
