package middleware

import (
	"testing"

	"ai-hire-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:        "test-secret",
		TokenExpireHours: 24,
	}
}

// 测试签发的token能被解析回原始身份
func TestGenerateAndParseToken(t *testing.T) {
	cfg := testAuthConfig()

	token, err := GenerateToken(cfg, "user-123", "candidate")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := parseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "candidate", claims.Role)
	assert.Equal(t, "ai-hire-go", claims.Issuer)
}

// 测试用错误密钥签发的token被拒绝
func TestParseTokenWrongSecret(t *testing.T) {
	cfg := testAuthConfig()
	token, err := GenerateToken(cfg, "user-123", "admin")
	require.NoError(t, err)

	other := &config.AuthConfig{JWTSecret: "another-secret", TokenExpireHours: 24}
	_, err = parseToken(other, token)
	assert.Error(t, err)
}

// 测试过期token被拒绝
func TestParseTokenExpired(t *testing.T) {
	cfg := &config.AuthConfig{
		JWTSecret:        "test-secret",
		TokenExpireHours: -1, // 签发即过期
	}
	token, err := GenerateToken(cfg, "user-123", "candidate")
	require.NoError(t, err)

	_, err = parseToken(cfg, token)
	assert.Error(t, err)
}

// 测试乱码token被拒绝
func TestParseTokenGarbage(t *testing.T) {
	_, err := parseToken(testAuthConfig(), "not-a-jwt")
	assert.Error(t, err)
}
