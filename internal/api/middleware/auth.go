package middleware

import (
	"context"
	"fmt"
	"time"

	"ai-hire-go/internal/config"
	"ai-hire-go/internal/constants"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hertz-contrib/keyauth"
)

// RequestContext 中存放身份信息的键
const (
	CtxKeyUserID = "auth_user_id"
	CtxKeyRole   = "auth_role"
)

// Claims JWT载荷
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken 为用户签发JWT
func GenerateToken(cfg *config.AuthConfig, userID, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.TokenExpireHours) * time.Hour)),
			Issuer:    "ai-hire-go",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// parseToken 解析并校验JWT
func parseToken(cfg *config.AuthConfig, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("不支持的签名算法: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("无效的token")
	}
	return claims, nil
}

// Auth 认证中间件。通过 keyauth 从 Authorization: Bearer 头提取token，
// 校验JWT后把用户身份写入RequestContext。
func Auth(cfg *config.AuthConfig) app.HandlerFunc {
	return keyauth.New(
		keyauth.WithKeyLookUp("header:Authorization", "Bearer"),
		keyauth.WithValidator(func(ctx context.Context, c *app.RequestContext, token string) (bool, error) {
			claims, err := parseToken(cfg, token)
			if err != nil {
				return false, err
			}
			c.Set(CtxKeyUserID, claims.UserID)
			c.Set(CtxKeyRole, claims.Role)
			return true, nil
		}),
		keyauth.WithErrorHandler(func(ctx context.Context, c *app.RequestContext, err error) {
			c.JSON(consts.StatusUnauthorized, utils.H{"error": "未认证或token无效"})
			c.Abort()
		}),
	)
}

// AdminOnly 管理员权限中间件，必须在 Auth 之后挂载
func AdminOnly() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if UserRole(c) != constants.RoleAdmin {
			c.JSON(consts.StatusForbidden, utils.H{"error": "需要管理员权限"})
			c.Abort()
			return
		}
		c.Next(ctx)
	}
}

// UserID 从RequestContext取出当前用户ID
func UserID(c *app.RequestContext) string {
	if v, ok := c.Get(CtxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// UserRole 从RequestContext取出当前用户角色
func UserRole(c *app.RequestContext) string {
	if v, ok := c.Get(CtxKeyRole); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
