package handler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ai-hire-go/internal/config"
	"ai-hire-go/internal/constants"
	"ai-hire-go/internal/scoring"
	"ai-hire-go/internal/storage"
	"ai-hire-go/internal/storage/models"

	"github.com/gofrs/uuid/v5"
)

// TestHandler 笔试管理与批卷
type TestHandler struct {
	cfg     *config.Config
	storage *storage.Storage
}

// NewTestHandler 创建笔试处理器
func NewTestHandler(cfg *config.Config, storage *storage.Storage) *TestHandler {
	return &TestHandler{cfg: cfg, storage: storage}
}

// QuestionInput 创建笔试的题目输入
type QuestionInput struct {
	QuestionText  string `json:"question_text"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer"`
	Marks         int    `json:"marks"`
}

// CreateTestRequest 创建笔试请求
type CreateTestRequest struct {
	JobID           string          `json:"job_id"`
	Title           string          `json:"title"`
	DurationMinutes int             `json:"duration_minutes"`
	Questions       []QuestionInput `json:"questions"`
}

// CreateTest 管理员创建笔试。一个岗位只允许一套，冲突返回409。
func (h *TestHandler) CreateTest(ctx context.Context, req *CreateTestRequest) (string, error) {
	if req.JobID == "" || req.Title == "" || len(req.Questions) == 0 {
		return "", fmt.Errorf("%w: job_id、标题与题目必填", ErrInvalidInput)
	}
	for i, q := range req.Questions {
		if !validAnswerTag(q.CorrectAnswer) {
			return "", fmt.Errorf("%w: 第%d题的正确答案必须是A/B/C/D", ErrInvalidInput, i+1)
		}
	}
	if _, err := h.storage.MySQL.GetJobByID(ctx, req.JobID); err != nil {
		return "", err
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("生成笔试ID失败: %w", err)
	}

	test := &models.Test{
		TestID:          uuidV7.String(),
		JobID:           req.JobID,
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
	}
	if test.DurationMinutes <= 0 {
		test.DurationMinutes = 30
	}

	questions := make([]models.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		marks := q.Marks
		if marks <= 0 {
			marks = 1
		}
		questions = append(questions, models.Question{
			QuestionText:  q.QuestionText,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			CorrectAnswer: q.CorrectAnswer,
			Marks:         marks,
		})
	}

	if err := h.storage.MySQL.CreateTestWithQuestions(ctx, test, questions); err != nil {
		return "", err
	}
	return test.TestID, nil
}

func validAnswerTag(tag string) bool {
	return tag == "A" || tag == "B" || tag == "C" || tag == "D"
}

// QuestionView 候选人视角的题目（无答案）
type QuestionView struct {
	QuestionID   uint64 `json:"question_id"`
	QuestionText string `json:"question_text"`
	OptionA      string `json:"option_a"`
	OptionB      string `json:"option_b"`
	OptionC      string `json:"option_c"`
	OptionD      string `json:"option_d"`
	Marks        int    `json:"marks"`
}

// TestView 笔试视图
type TestView struct {
	TestID          string         `json:"test_id"`
	JobID           string         `json:"job_id"`
	Title           string         `json:"title"`
	DurationMinutes int            `json:"duration_minutes"`
	Questions       []QuestionView `json:"questions,omitempty"`
	// 仅管理端视图填充
	QuestionsWithAnswers []models.Question `json:"questions_with_answers,omitempty"`
}

// GetTestForJob 候选人获取岗位笔试，正确答案一律脱敏
func (h *TestHandler) GetTestForJob(ctx context.Context, jobID string) (*TestView, error) {
	test, err := h.storage.MySQL.GetTestByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	questions, err := h.storage.MySQL.GetQuestionsByTestID(ctx, test.TestID)
	if err != nil {
		return nil, err
	}

	view := &TestView{
		TestID:          test.TestID,
		JobID:           test.JobID,
		Title:           test.Title,
		DurationMinutes: test.DurationMinutes,
	}
	for _, q := range questions {
		view.Questions = append(view.Questions, QuestionView{
			QuestionID:   q.QuestionID,
			QuestionText: q.QuestionText,
			OptionA:      q.OptionA,
			OptionB:      q.OptionB,
			OptionC:      q.OptionC,
			OptionD:      q.OptionD,
			Marks:        q.Marks,
		})
	}
	return view, nil
}

// GetTestAdmin 管理员获取笔试（含答案与分值）
func (h *TestHandler) GetTestAdmin(ctx context.Context, testID string) (*TestView, error) {
	test, err := h.storage.MySQL.GetTestByID(ctx, testID)
	if err != nil {
		return nil, err
	}
	questions, err := h.storage.MySQL.GetQuestionsByTestID(ctx, test.TestID)
	if err != nil {
		return nil, err
	}
	return &TestView{
		TestID:               test.TestID,
		JobID:                test.JobID,
		Title:                test.Title,
		DurationMinutes:      test.DurationMinutes,
		QuestionsWithAnswers: questions,
	}, nil
}

// SubmitTestRequest 笔试提交请求。answers 以题目ID（字符串）索引所选选项。
type SubmitTestRequest struct {
	ApplicationID string            `json:"application_id"`
	TestID        string            `json:"test_id"`
	Answers       map[string]string `json:"answers"`
}

// SubmitTestResponse 批卷结果
type SubmitTestResponse struct {
	Score      int    `json:"score"`
	Earned     int    `json:"earned"`
	Total      int    `json:"total"`
	FinalScore int    `json:"final_score"`
	Message    string `json:"message"`
}

// SubmitTest 候选人提交笔试。
// 先插入作答记录——(application, test) 唯一索引保证并发下二次提交
// 也会被拒绝且不触碰已有成绩——再更新申请上的得分与状态。
func (h *TestHandler) SubmitTest(ctx context.Context, candidateID string, req *SubmitTestRequest) (*SubmitTestResponse, error) {
	if req.ApplicationID == "" || req.TestID == "" {
		return nil, fmt.Errorf("%w: application_id与test_id必填", ErrInvalidInput)
	}

	app, err := h.storage.MySQL.GetApplicationByID(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app.CandidateID != candidateID {
		return nil, ErrForbidden
	}

	questions, err := h.storage.MySQL.GetQuestionsByTestID(ctx, req.TestID)
	if err != nil {
		return nil, err
	}

	// 题目ID在JSON里只能是字符串键，这里转回数值；非法键按未作答处理
	answers := make(map[uint64]string, len(req.Answers))
	for key, tag := range req.Answers {
		questionID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			continue
		}
		answers[questionID] = tag
	}

	graded := make([]scoring.GradedQuestion, 0, len(questions))
	for _, q := range questions {
		graded = append(graded, scoring.GradedQuestion{
			ID:      q.QuestionID,
			Correct: q.CorrectAnswer,
			Marks:   q.Marks,
		})
	}
	result := scoring.GradeTest(graded, answers)

	attempt := &models.TestAttempt{
		ApplicationID: req.ApplicationID,
		TestID:        req.TestID,
		Score:         result.Score,
		CompletedAt:   time.Now(),
	}
	if err := attempt.SetAnswers(answers); err != nil {
		return nil, fmt.Errorf("编码作答记录失败: %w", err)
	}
	if err := h.storage.MySQL.CreateTestAttempt(ctx, attempt); err != nil {
		return nil, err // 二次提交时为 storage.ErrAlreadyExists，原成绩不变
	}

	// 笔试得分变化后立即重算最终得分
	finalScore := scoring.FinalScore(app.ResumeScore, result.Score, app.InterviewScore)
	err = h.storage.MySQL.UpdateApplicationScores(ctx, req.ApplicationID, map[string]interface{}{
		"test_score":  result.Score,
		"final_score": finalScore,
		"status":      constants.StatusTestCompleted,
	})
	if err != nil {
		return nil, err
	}

	publishStageEvent(ctx, h.storage, req.ApplicationID, app.JobID,
		constants.StageTest, result.Score, finalScore, constants.StatusTestCompleted)
	invalidateJobCaches(ctx, h.storage, app.JobID)

	return &SubmitTestResponse{
		Score:      result.Score,
		Earned:     result.Earned,
		Total:      result.Total,
		FinalScore: finalScore,
		Message:    "笔试提交成功",
	}, nil
}

// sampleQuestions 示例笔试的固定题目
var sampleQuestions = []QuestionInput{
	{
		QuestionText:  "What does OOP stand for?",
		OptionA:       "Object Oriented Programming",
		OptionB:       "Open Online Platform",
		OptionC:       "Object Operating Protocol",
		OptionD:       "None of the above",
		CorrectAnswer: "A",
		Marks:         1,
	},
	{
		QuestionText:  "Which data structure uses LIFO principle?",
		OptionA:       "Queue",
		OptionB:       "Stack",
		OptionC:       "Array",
		OptionD:       "Tree",
		CorrectAnswer: "B",
		Marks:         1,
	},
	{
		QuestionText:  "What is the time complexity of binary search?",
		OptionA:       "O(n)",
		OptionB:       "O(n^2)",
		OptionC:       "O(log n)",
		OptionD:       "O(1)",
		CorrectAnswer: "C",
		Marks:         1,
	},
	{
		QuestionText:  "Which HTTP method is used to update a resource?",
		OptionA:       "GET",
		OptionB:       "POST",
		OptionC:       "PUT",
		OptionD:       "DELETE",
		CorrectAnswer: "C",
		Marks:         1,
	},
	{
		QuestionText:  "What does SQL stand for?",
		OptionA:       "Structured Query Language",
		OptionB:       "Simple Query Language",
		OptionC:       "Standard Query Logic",
		OptionD:       "System Query Language",
		CorrectAnswer: "A",
		Marks:         1,
	},
}

// GenerateSampleTest 管理员一键为岗位生成示例笔试
func (h *TestHandler) GenerateSampleTest(ctx context.Context, jobID string) (string, error) {
	job, err := h.storage.MySQL.GetJobByID(ctx, jobID)
	if err != nil {
		return "", err
	}
	return h.CreateTest(ctx, &CreateTestRequest{
		JobID:           jobID,
		Title:           fmt.Sprintf("%s Assessment", job.Title),
		DurationMinutes: 30,
		Questions:       sampleQuestions,
	})
}
