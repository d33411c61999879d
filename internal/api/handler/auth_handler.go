package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-hire-go/internal/api/middleware"
	"ai-hire-go/internal/config"
	"ai-hire-go/internal/constants"
	"ai-hire-go/internal/logger"
	"ai-hire-go/internal/storage"
	"ai-hire-go/internal/storage/models"

	"github.com/gofrs/uuid/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler 注册与登录
type AuthHandler struct {
	cfg     *config.Config
	storage *storage.Storage
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, storage *storage.Storage) *AuthHandler {
	return &AuthHandler{cfg: cfg, storage: storage}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse 登录/注册成功响应
type TokenResponse struct {
	Token string `json:"token"`
	User  struct {
		UserID string `json:"user_id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Role   string `json:"role"`
	} `json:"user"`
}

// Register 候选人注册，成功后直接签发token
func (h *AuthHandler) Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: 姓名、邮箱必填，密码至少6位", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成用户ID失败: %w", err)
	}

	user := &models.User{
		UserID:       uuidV7.String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         constants.RoleCandidate,
	}
	if err := h.storage.MySQL.CreateUser(ctx, user); err != nil {
		return nil, err // 邮箱重复时为 storage.ErrAlreadyExists
	}
	return h.issueToken(user)
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login 校验邮箱与密码，签发token
func (h *AuthHandler) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: 邮箱与密码必填", ErrInvalidInput)
	}

	user, err := h.storage.MySQL.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return h.issueToken(user)
}

// EnsureDefaultAdmin 首次启动时创建默认管理员账号
func (h *AuthHandler) EnsureDefaultAdmin(ctx context.Context) error {
	if h.cfg.Auth.AdminEmail == "" {
		return nil
	}
	_, err := h.storage.MySQL.GetUserByEmail(ctx, h.cfg.Auth.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(h.cfg.Auth.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("密码哈希失败: %w", err)
	}
	uuidV7, err := uuid.NewV7()
	if err != nil {
		return err
	}
	admin := &models.User{
		UserID:       uuidV7.String(),
		Name:         h.cfg.Auth.AdminName,
		Email:        h.cfg.Auth.AdminEmail,
		PasswordHash: string(hash),
		Role:         constants.RoleAdmin,
	}
	if err := h.storage.MySQL.CreateUser(ctx, admin); err != nil {
		// 并发启动时另一实例可能已创建
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil
		}
		return err
	}
	logger.Info().Str("email", admin.Email).Msg("默认管理员账号已创建")
	return nil
}

func (h *AuthHandler) issueToken(user *models.User) (*TokenResponse, error) {
	token, err := middleware.GenerateToken(&h.cfg.Auth, user.UserID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("签发token失败: %w", err)
	}
	resp := &TokenResponse{Token: token}
	resp.User.UserID = user.UserID
	resp.User.Name = user.Name
	resp.User.Email = user.Email
	resp.User.Role = user.Role
	return resp, nil
}
