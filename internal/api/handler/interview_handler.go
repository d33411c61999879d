package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-hire-go/internal/config"
	"ai-hire-go/internal/constants"
	"ai-hire-go/internal/scoring"
	"ai-hire-go/internal/storage"
	"ai-hire-go/internal/storage/models"
)

// InterviewHandler 面试出题、提交与结果查询
type InterviewHandler struct {
	cfg     *config.Config
	storage *storage.Storage
}

// NewInterviewHandler 创建面试处理器
func NewInterviewHandler(cfg *config.Config, storage *storage.Storage) *InterviewHandler {
	return &InterviewHandler{cfg: cfg, storage: storage}
}

// InterviewQuestionsResponse 面试题目集
type InterviewQuestionsResponse struct {
	ApplicationID string   `json:"application_id"`
	Questions     []string `json:"questions"`
}

// GetQuestions 候选人获取面试题目。
// 题目由岗位要求技能确定性生成，重复请求总得到同一套题。
func (h *InterviewHandler) GetQuestions(ctx context.Context, candidateID, applicationID string) (*InterviewQuestionsResponse, error) {
	app, err := h.storage.MySQL.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.CandidateID != candidateID {
		return nil, ErrForbidden
	}
	job, err := h.storage.MySQL.GetJobByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	return &InterviewQuestionsResponse{
		ApplicationID: applicationID,
		Questions:     scoring.BuildInterviewQuestions(job.RequiredSkills()),
	}, nil
}

// SubmitInterviewRequest 面试提交请求
type SubmitInterviewRequest struct {
	ApplicationID string       `json:"application_id"`
	Responses     []scoring.QA `json:"responses"`
}

// InterviewResultView 整场面试的结果视图
type InterviewResultView struct {
	ApplicationID      string                     `json:"application_id"`
	OverallScore       int                        `json:"overall_score"`
	ConfidenceScore    int                        `json:"confidence_score"`
	CommunicationScore int                        `json:"communication_score"`
	RelevanceScore     int                        `json:"relevance_score"`
	Emotions           scoring.Emotions           `json:"emotions"`
	Analysis           []scoring.AnalyzedResponse `json:"analysis,omitempty"`
	FinalScore         int                        `json:"final_score"`
	Message            string                     `json:"message,omitempty"`
}

// SubmitInterview 候选人提交整场面试回答。
// 空回答集在评分前即拒绝；面试记录先落库——application_id 唯一索引
// 保证并发重复提交只会成功一次——之后再更新申请上的得分与状态。
func (h *InterviewHandler) SubmitInterview(ctx context.Context, candidateID string, req *SubmitInterviewRequest) (*InterviewResultView, error) {
	if req.ApplicationID == "" {
		return nil, fmt.Errorf("%w: application_id必填", ErrInvalidInput)
	}
	if len(req.Responses) == 0 {
		return nil, fmt.Errorf("%w: 回答不能为空", ErrInvalidInput)
	}
	for i, r := range req.Responses {
		if strings.TrimSpace(r.Question) == "" {
			return nil, fmt.Errorf("%w: 第%d条回答缺少对应问题", ErrInvalidInput, i+1)
		}
	}

	app, err := h.storage.MySQL.GetApplicationByID(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app.CandidateID != candidateID {
		return nil, ErrForbidden
	}

	result := scoring.AggregateInterview(req.Responses)

	emotionsJSON, err := json.Marshal(result.Emotions)
	if err != nil {
		return nil, fmt.Errorf("编码情绪分布失败: %w", err)
	}
	interview := &models.Interview{
		ApplicationID:      req.ApplicationID,
		Transcript:         result.Transcript,
		EmotionsJSON:       emotionsJSON,
		ConfidenceScore:    result.ConfidenceScore,
		CommunicationScore: result.CommunicationScore,
		RelevanceScore:     result.RelevanceScore,
		OverallScore:       result.OverallScore,
		CompletedAt:        time.Now(),
	}
	if err := h.storage.MySQL.CreateInterview(ctx, interview); err != nil {
		return nil, err // 重复提交时为 storage.ErrAlreadyExists，首次结果不变
	}

	finalScore := scoring.FinalScore(app.ResumeScore, app.TestScore, result.OverallScore)
	err = h.storage.MySQL.UpdateApplicationScores(ctx, req.ApplicationID, map[string]interface{}{
		"interview_score": result.OverallScore,
		"final_score":     finalScore,
		"status":          constants.StatusInterviewCompleted,
	})
	if err != nil {
		return nil, err
	}

	publishStageEvent(ctx, h.storage, req.ApplicationID, app.JobID,
		constants.StageInterview, result.OverallScore, finalScore, constants.StatusInterviewCompleted)
	invalidateJobCaches(ctx, h.storage, app.JobID)

	return &InterviewResultView{
		ApplicationID:      req.ApplicationID,
		OverallScore:       result.OverallScore,
		ConfidenceScore:    result.ConfidenceScore,
		CommunicationScore: result.CommunicationScore,
		RelevanceScore:     result.RelevanceScore,
		Emotions:           result.Emotions,
		Analysis:           result.Analysis,
		FinalScore:         finalScore,
		Message:            "面试提交成功",
	}, nil
}

// GetResult 查询某条申请的面试结果。候选人只能查自己的申请。
func (h *InterviewHandler) GetResult(ctx context.Context, userID, role, applicationID string) (*InterviewResultView, error) {
	app, err := h.storage.MySQL.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if role != constants.RoleAdmin && app.CandidateID != userID {
		return nil, ErrForbidden
	}

	interview, err := h.storage.MySQL.GetInterviewByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	var emotions scoring.Emotions
	if len(interview.EmotionsJSON) > 0 {
		_ = json.Unmarshal(interview.EmotionsJSON, &emotions)
	}
	return &InterviewResultView{
		ApplicationID:      applicationID,
		OverallScore:       interview.OverallScore,
		ConfidenceScore:    interview.ConfidenceScore,
		CommunicationScore: interview.CommunicationScore,
		RelevanceScore:     interview.RelevanceScore,
		Emotions:           emotions,
		FinalScore:         app.FinalScore,
	}, nil
}

// JobInterviewRow 管理端某岗位面试结果行
type JobInterviewRow struct {
	ApplicationID      string           `json:"application_id"`
	CandidateName      string           `json:"candidate_name"`
	CandidateEmail     string           `json:"candidate_email"`
	OverallScore       int              `json:"overall_score"`
	ConfidenceScore    int              `json:"confidence_score"`
	CommunicationScore int              `json:"communication_score"`
	RelevanceScore     int              `json:"relevance_score"`
	Emotions           scoring.Emotions `json:"emotions"`
	ResumeScore        int              `json:"resume_score"`
	TestScore          int              `json:"test_score"`
	FinalScore         int              `json:"final_score"`
	CompletedAt        time.Time        `json:"completed_at"`
}

// JobInterviews 管理员按岗位列出全部面试结果，按最终得分降序
func (h *InterviewHandler) JobInterviews(ctx context.Context, jobID string) ([]JobInterviewRow, error) {
	if _, err := h.storage.MySQL.GetJobByID(ctx, jobID); err != nil {
		return nil, err
	}
	rows, err := h.storage.MySQL.ListInterviewsByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	views := make([]JobInterviewRow, 0, len(rows))
	for _, row := range rows {
		var emotions scoring.Emotions
		if len(row.EmotionsJSON) > 0 {
			_ = json.Unmarshal(row.EmotionsJSON, &emotions)
		}
		views = append(views, JobInterviewRow{
			ApplicationID:      row.ApplicationID,
			CandidateName:      row.CandidateName,
			CandidateEmail:     row.CandidateEmail,
			OverallScore:       row.OverallScore,
			ConfidenceScore:    row.ConfidenceScore,
			CommunicationScore: row.CommunicationScore,
			RelevanceScore:     row.RelevanceScore,
			Emotions:           emotions,
			ResumeScore:        row.ResumeScore,
			TestScore:          row.TestScore,
			FinalScore:         row.FinalScore,
			CompletedAt:        row.CompletedAt,
		})
	}
	return views, nil
}
