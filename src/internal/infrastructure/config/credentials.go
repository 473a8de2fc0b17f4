package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CredentialsEnv 管理工具讀取憑證檔案路徑的環境變數
const CredentialsEnv = "GRANT_APPLICATION_CREDENTIALS"

// ErrNoCredentials 沒有指定憑證檔案
var ErrNoCredentials = errors.New("no service credentials: pass --credentials or set " + CredentialsEnv)

// Credentials 服務憑證檔案（YAML 或 JSON）
//
// 管理工具憑此直接存取資料庫與簽章金鑰，不經過 HTTP 服務。
type Credentials struct {
	ProjectID string         `yaml:"project_id" json:"project_id"`
	Database  DatabaseConfig `yaml:"database" json:"database"`
	Auth      AuthConfig     `yaml:"auth" json:"auth"`
}

// CredentialsPath 決定憑證檔案路徑：旗標優先，其次是環境變數
func CredentialsPath(flagValue string) (string, error) {
	if path := strings.TrimSpace(flagValue); path != "" {
		return path, nil
	}
	if path := envString(CredentialsEnv); path != "" {
		return path, nil
	}
	return "", ErrNoCredentials
}

// LoadCredentials 讀取憑證檔案
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials %s: %w", path, err)
	}

	creds := Credentials{
		Database: Default().Database,
		Auth:     Default().Auth,
	}
	// YAML 是 JSON 的超集，JSON 格式的憑證檔案也能直接解析
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials %s: %w", path, err)
	}
	if strings.TrimSpace(creds.ProjectID) == "" {
		return nil, fmt.Errorf("credentials %s: project_id is required", path)
	}
	return &creds, nil
}
