package handler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ai-hire-go/internal/config"
	"ai-hire-go/internal/logger"
	"ai-hire-go/internal/scoring"
	"ai-hire-go/internal/storage"
)

// ReportHandler 管理端统计、排行与动态报表
type ReportHandler struct {
	cfg     *config.Config
	storage *storage.Storage
}

// NewReportHandler 创建报表处理器
func NewReportHandler(cfg *config.Config, storage *storage.Storage) *ReportHandler {
	return &ReportHandler{cfg: cfg, storage: storage}
}

// Stats 管理后台统计。命中Redis缓存时直接返回，未命中则回源并写缓存；
// Redis不可用时静默降级为直查MySQL。
func (h *ReportHandler) Stats(ctx context.Context) (*storage.DashboardStats, error) {
	if h.storage.Redis != nil {
		var cached storage.DashboardStats
		err := h.storage.Redis.GetCachedStats(ctx, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, storage.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("读取统计缓存失败，回源查询")
		}
	}

	stats, err := h.storage.MySQL.GetDashboardStats(ctx)
	if err != nil {
		return nil, err
	}
	if h.storage.Redis != nil {
		if err := h.storage.Redis.SetCachedStats(ctx, stats); err != nil {
			logger.Warn().Err(err).Msg("写入统计缓存失败")
		}
	}
	return stats, nil
}

// RankedCandidateView 排行榜一行。Rank 从 1 起，Grade 由最终得分派生。
type RankedCandidateView struct {
	Rank               int       `json:"rank"`
	ApplicationID      string    `json:"application_id"`
	CandidateName      string    `json:"candidate_name"`
	CandidateEmail     string    `json:"candidate_email"`
	ResumeScore        int       `json:"resume_score"`
	TestScore          int       `json:"test_score"`
	InterviewScore     int       `json:"interview_score"`
	FinalScore         int       `json:"final_score"`
	Grade              string    `json:"grade"`
	Status             string    `json:"status"`
	ResumeSkills       []string  `json:"resume_skills"`
	ConfidenceScore    *int      `json:"confidence_score,omitempty"`
	CommunicationScore *int      `json:"communication_score,omitempty"`
	RelevanceScore     *int      `json:"relevance_score,omitempty"`
	AppliedAt          time.Time `json:"applied_at"`
}

// Rankings 某岗位的候选人排行榜。名次由排序位置派生，
// 并列得分按申请时间先到先排，同一数据集下结果稳定。
func (h *ReportHandler) Rankings(ctx context.Context, jobID string) ([]RankedCandidateView, error) {
	if h.storage.Redis != nil {
		var cached []RankedCandidateView
		err := h.storage.Redis.GetCachedRankings(ctx, jobID, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, storage.ErrCacheMiss) {
			logger.Warn().Err(err).Str("job_id", jobID).Msg("读取排行缓存失败，回源查询")
		}
	}

	if _, err := h.storage.MySQL.GetJobByID(ctx, jobID); err != nil {
		return nil, err
	}
	rows, err := h.storage.MySQL.GetJobRankings(ctx, jobID)
	if err != nil {
		return nil, err
	}

	views := make([]RankedCandidateView, 0, len(rows))
	for i, row := range rows {
		var skills []string
		if len(row.ResumeSkillsJSON) > 0 {
			_ = json.Unmarshal(row.ResumeSkillsJSON, &skills)
		}
		if skills == nil {
			skills = []string{}
		}
		views = append(views, RankedCandidateView{
			Rank:               i + 1,
			ApplicationID:      row.ApplicationID,
			CandidateName:      row.CandidateName,
			CandidateEmail:     row.CandidateEmail,
			ResumeScore:        row.ResumeScore,
			TestScore:          row.TestScore,
			InterviewScore:     row.InterviewScore,
			FinalScore:         row.FinalScore,
			Grade:              scoring.Grade(row.FinalScore),
			Status:             row.Status,
			ResumeSkills:       skills,
			ConfidenceScore:    row.ConfidenceScore,
			CommunicationScore: row.CommunicationScore,
			RelevanceScore:     row.RelevanceScore,
			AppliedAt:          row.CreatedAt,
		})
	}

	if h.storage.Redis != nil {
		if err := h.storage.Redis.SetCachedRankings(ctx, jobID, views); err != nil {
			logger.Warn().Err(err).Str("job_id", jobID).Msg("写入排行缓存失败")
		}
	}
	return views, nil
}

// Activity 最近申请动态
func (h *ReportHandler) Activity(ctx context.Context) ([]storage.ActivityRow, error) {
	return h.storage.MySQL.GetRecentActivity(ctx)
}
