package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfig 验证YAML配置能被正确加载且默认值被填充
func TestLoadConfig(t *testing.T) {
	yamlContent := `
server:
  address: ":9090"
mysql:
  host: "db.internal"
  port: 3306
  username: "hire"
  database: "ai_hire"
redis:
  address: "cache.internal:6379"
auth:
  jwt_secret: "test-secret"
`
	tmpDir, err := os.MkdirTemp("", "config-test")
	require.NoError(t, err, "无法创建临时目录")
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	err = os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err, "无法写入临时配置文件")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err, "加载合法配置不应返回错误")
	require.NotNil(t, cfg)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "db.internal", cfg.MySQL.Host)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)

	// 未显式配置的字段应有默认值
	assert.Equal(t, 24, cfg.Auth.TokenExpireHours)
	assert.Equal(t, 60, cfg.Redis.RankingCacheTTLSeconds)
	assert.Equal(t, "hiring.scoring.events", cfg.RabbitMQ.ScoringExchange)
	assert.Equal(t, "info", cfg.Logger.Level)
}

// TestLoadConfigEnvOverride 密钥类配置可被环境变量覆盖
func TestLoadConfigEnvOverride(t *testing.T) {
	yamlContent := `
auth:
  jwt_secret: "from-file"
`
	tmpDir, err := os.MkdirTemp("", "config-test-env")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	t.Setenv("AIHIRE_JWT_SECRET", "from-env")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret, "环境变量应覆盖文件中的密钥")
}

// TestLoadConfigMissingFile 指定的配置文件不存在时返回错误
func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(os.TempDir(), "definitely-not-there.yaml"))
	assert.Error(t, err)
}

// TestMySQLDSN 验证DSN拼接
func TestMySQLDSN(t *testing.T) {
	cfg := MySQLConfig{
		Host:     "localhost",
		Port:     3306,
		Username: "root",
		Password: "secret",
		Database: "ai_hire",
	}
	assert.Equal(t,
		"root:secret@tcp(localhost:3306)/ai_hire?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DSN())
}
