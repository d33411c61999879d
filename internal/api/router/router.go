package router

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"ai-hire-go/internal/api/handler"
	"ai-hire-go/internal/api/middleware"
	"ai-hire-go/internal/config"
	"ai-hire-go/internal/constants"
	"ai-hire-go/internal/storage"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Handlers 路由所需的全部业务处理器
type Handlers struct {
	Auth        *handler.AuthHandler
	Job         *handler.JobHandler
	Application *handler.ApplicationHandler
	Test        *handler.TestHandler
	Interview   *handler.InterviewHandler
	Report      *handler.ReportHandler
}

// respondError 统一错误响应：按错误类别映射HTTP状态码
func respondError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, handler.ErrInvalidInput):
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
	case errors.Is(err, handler.ErrInvalidCredentials):
		ctx.JSON(consts.StatusUnauthorized, utils.H{"error": err.Error()})
	case errors.Is(err, handler.ErrForbidden):
		ctx.JSON(consts.StatusForbidden, utils.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		ctx.JSON(consts.StatusNotFound, utils.H{"error": "资源不存在"})
	case errors.Is(err, storage.ErrAlreadyExists):
		ctx.JSON(consts.StatusConflict, utils.H{"error": "资源已存在，请勿重复提交"})
	default:
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "服务器内部错误"})
	}
}

// Register 注册全部API路由
func Register(h *server.Hertz, cfg *config.Config, handlers *Handlers) {
	h.Use(middleware.RequestID())

	authed := middleware.Auth(&cfg.Auth)
	adminOnly := middleware.AdminOnly()

	api := h.Group("/api/v1")

	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	// ========== 认证 ==========
	auth := api.Group("/auth")
	auth.POST("/register", func(c context.Context, ctx *app.RequestContext) {
		var req handler.RegisterRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
			return
		}
		resp, err := handlers.Auth.Register(c, &req)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusCreated, resp)
	})
	auth.POST("/login", func(c context.Context, ctx *app.RequestContext) {
		var req handler.LoginRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
			return
		}
		resp, err := handlers.Auth.Login(c, &req)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	// ========== 岗位 ==========
	jobs := api.Group("/jobs")
	jobs.GET("", func(c context.Context, ctx *app.RequestContext) {
		list, err := handlers.Job.ListActiveJobs(c)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"jobs": list})
	})
	jobs.GET("/all", authed, adminOnly, func(c context.Context, ctx *app.RequestContext) {
		list, err := handlers.Job.ListAllJobs(c)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"jobs": list})
	})
	jobs.GET("/:id", func(c context.Context, ctx *app.RequestContext) {
		job, err := handlers.Job.GetJob(c, ctx.Param("id"))
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, job)
	})
	jobs.POST("", authed, adminOnly, func(c context.Context, ctx *app.RequestContext) {
		var req handler.JobRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
			return
		}
		job, err := handlers.Job.CreateJob(c, middleware.UserID(ctx), &req)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusCreated, job)
	})
	jobs.PUT("/:id", authed, adminOnly, func(c context.Context, ctx *app.RequestContext) {
		var req handler.JobRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
			return
		}
		if err := handlers.Job.UpdateJob(c, ctx.Param("id"), &req); err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"message": "岗位已更新"})
	})
	jobs.DELETE("/:id", authed, adminOnly, func(c context.Context, ctx *app.RequestContext) {
		if err := handlers.Job.DeleteJob(c, ctx.Param("id")); err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"message": "岗位已删除"})
	})

	// ========== 申请 ==========
	applications := api.Group("/applications", authed)
	applications.POST("/apply", func(c context.Context, ctx *app.RequestContext) {
		jobID := ctx.PostForm("job_id")
		fileHeader, err := ctx.FormFile("resume")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "简历文件未找到"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()
		fileBytes, err := io.ReadAll(file)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "读取文件失败"})
			return
		}

		resp, err := handlers.Application.Apply(c, middleware.UserID(ctx), jobID, fileHeader.Filename, fileBytes)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusCreated, resp)
	})
	applications.GET("/my", func(c context.Context, ctx *app.RequestContext) {
		apps, err := handlers.Application.MyApplications(c, middleware.UserID(ctx))
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"applications": apps})
	})
	applications.GET("/job/:job_id", adminOnly, func(c context.Context, ctx *app.RequestContext) {
		apps, err := handlers.Application.JobApplications(c, ctx.Param("job_id"))
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"applications": apps})
	})
	applications.GET("/:id/resume", adminOnly, func(c context.Context, ctx *app.RequestContext) {
		data, objectKey, err := handlers.Application.DownloadResume(c, ctx.Param("id"))
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.Header("Content-Disposition", "attachment; filename="+filepath.Base(objectKey))
		ctx.Data(consts.StatusOK, "application/octet-stream", data)
	})
	applications.GET("/:id", func(c context.Context, ctx *app.RequestContext) {
		isAdmin := middleware.UserRole(ctx) == constants.RoleAdmin
		view, err := handlers.Application.GetApplication(c, ctx.Param("id"), middleware.UserID(ctx), isAdmin)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, view)
	})

	// ========== 笔试 ==========
	tests := api.Group("/tests", authed)
	tests.GET("/job/:job_id", func(c context.Context, ctx *app.RequestContext) {
		test, err := handlers.Test.GetTestForJob(c, ctx.Param("job_id"))
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, test)
	})
	tests.GET("/:id/admin", adminOnly, func(c context.Context, ctx *app.RequestContext) {
		test, err := handlers.Test.GetTestAdmin(c, ctx.Param("id"))
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, test)
	})
	tests.POST("", adminOnly, func(c context.Context, ctx *app.RequestContext) {
		var req handler.CreateTestRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
			return
		}
		testID, err := handlers.Test.CreateTest(c, &req)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusCreated, utils.H{"test_id": testID})
	})
	tests.POST("/submit", func(c context.Context, ctx *app.RequestContext) {
		var req handler.SubmitTestRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
			return
		}
		resp, err := handlers.Test.SubmitTest(c, middleware.UserID(ctx), &req)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})
	tests.POST("/generate-sample/:job_id", adminOnly, func(c context.Context, ctx *app.RequestContext) {
		testID, err := handlers.Test.GenerateSampleTest(c, ctx.Param("job_id"))
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusCreated, utils.H{"test_id": testID})
	})

	// ========== 面试 ==========
	interviews := api.Group("/interviews", authed)
	interviews.GET("/questions/:application_id", func(c context.Context, ctx *app.RequestContext) {
		resp, err := handlers.Interview.GetQuestions(c, middleware.UserID(ctx), ctx.Param("application_id"))
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})
	interviews.POST("/submit", func(c context.Context, ctx *app.RequestContext) {
		var req handler.SubmitInterviewRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
			return
		}
		resp, err := handlers.Interview.SubmitInterview(c, middleware.UserID(ctx), &req)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})
	interviews.GET("/result/:application_id", func(c context.Context, ctx *app.RequestContext) {
		resp, err := handlers.Interview.GetResult(c, middleware.UserID(ctx), middleware.UserRole(ctx), ctx.Param("application_id"))
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})
	interviews.GET("/job/:job_id", adminOnly, func(c context.Context, ctx *app.RequestContext) {
		rows, err := handlers.Interview.JobInterviews(c, ctx.Param("job_id"))
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"interviews": rows})
	})

	// ========== 报表 ==========
	reports := api.Group("/reports", authed, adminOnly)
	reports.GET("/stats", func(c context.Context, ctx *app.RequestContext) {
		stats, err := handlers.Report.Stats(c)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, stats)
	})
	reports.GET("/rankings/:job_id", func(c context.Context, ctx *app.RequestContext) {
		rankings, err := handlers.Report.Rankings(c, ctx.Param("job_id"))
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"rankings": rankings})
	})
	reports.GET("/activity", func(c context.Context, ctx *app.RequestContext) {
		activity, err := handlers.Report.Activity(c)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"activity": activity})
	})
}
