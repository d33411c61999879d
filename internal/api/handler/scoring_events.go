package handler

import (
	"context"
	"time"

	"ai-hire-go/internal/logger"
	"ai-hire-go/internal/storage"
)

// publishStageEvent 发布阶段评分事件。
// 事件只是通知性副产物，发布失败记录告警但绝不影响评分结果本身。
func publishStageEvent(ctx context.Context, st *storage.Storage, applicationID, jobID, stage string, stageScore, finalScore int, status string) {
	if st.RabbitMQ == nil {
		return
	}
	event := storage.ScoringEvent{
		ApplicationID: applicationID,
		JobID:         jobID,
		Stage:         stage,
		StageScore:    stageScore,
		FinalScore:    finalScore,
		Status:        status,
		OccurredAt:    time.Now(),
	}
	if err := st.RabbitMQ.PublishScoringEvent(ctx, event); err != nil {
		logger.Warn().Err(err).
			Str("application_id", applicationID).
			Str("stage", stage).
			Msg("发布评分事件失败")
	}
}

// invalidateJobCaches 任一阶段得分变化后使该岗位排行榜缓存失效
func invalidateJobCaches(ctx context.Context, st *storage.Storage, jobID string) {
	if st.Redis == nil {
		return
	}
	if err := st.Redis.InvalidateRankings(ctx, jobID); err != nil {
		logger.Warn().Err(err).Str("job_id", jobID).Msg("失效排行榜缓存失败")
	}
}
