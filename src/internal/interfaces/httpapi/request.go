package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/jackyeh168/point_grant/src/internal/application/grant"
)

const maxBodyBytes = 64 << 10

// grantRequest 簡單發放請求
type grantRequest struct {
	TargetUID string          `json:"targetUid"`
	Points    json.RawMessage `json:"points"`
}

func (r grantRequest) command() grant.GrantPointsCommand {
	return grant.GrantPointsCommand{TargetUID: r.TargetUID, Points: rawPoints(r.Points)}
}

// claimRequest 冪等發放請求
type claimRequest struct {
	ClaimID    string          `json:"claimId"`
	StudentUID string          `json:"studentUid"`
	Points     json.RawMessage `json:"points"`
	TargetID   string          `json:"targetId"`
}

func (r claimRequest) command() grant.ClaimPointsCommand {
	return grant.ClaimPointsCommand{
		ClaimID:    r.ClaimID,
		StudentUID: r.StudentUID,
		Points:     rawPoints(r.Points),
		TargetID:   r.TargetID,
	}
}

type grantResponse struct {
	Success bool `json:"success"`
}

type claimResponse struct {
	Success              bool   `json:"success"`
	AlreadyProcessed     bool   `json:"alreadyProcessed"`
	AuditID              string `json:"auditId"`
	NewPoints            int64  `json:"newPoints"`
	TotalPointsObtained  int64  `json:"totalPointsObtained"`
	TotalPointsRemaining int64  `json:"totalPointsRemaining"`
}

func newClaimResponse(result *grant.ClaimPointsResult) claimResponse {
	return claimResponse{
		Success:              result.Success,
		AlreadyProcessed:     result.AlreadyProcessed,
		AuditID:              result.AuditID,
		NewPoints:            result.NewPoints,
		TotalPointsObtained:  result.TotalPointsObtained,
		TotalPointsRemaining: result.TotalPointsRemaining,
	}
}

type auditResponse struct {
	AuditID    string `json:"auditId"`
	Issuer     string `json:"issuer"`
	Target     string `json:"target"`
	Points     int64  `json:"points"`
	TargetID   string `json:"targetId,omitempty"`
	Idempotent bool   `json:"idempotent"`
	CreatedAt  string `json:"createdAt"`
}

func newAuditResponse(view *grant.AuditRecordView) auditResponse {
	return auditResponse{
		AuditID:    view.AuditID,
		Issuer:     view.Issuer,
		Target:     view.Target,
		Points:     view.Points,
		TargetID:   view.TargetID,
		Idempotent: view.Idempotent,
		CreatedAt:  view.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

type balanceResponse struct {
	UID                  string `json:"uid"`
	Role                 string `json:"role"`
	Points               int64  `json:"points"`
	TotalPointsObtained  int64  `json:"totalPointsObtained"`
	TotalPointsRemaining int64  `json:"totalPointsRemaining"`
}

// rawPoints 把 points 欄位還原成文字交給驗證器
//
// JSON 數字保留原始字面值；JSON 字串去掉引號；缺失或 null 為空字串。
// 其他型別（布林、物件）原樣返回，由驗證器拒絕。
func rawPoints(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return string(trimmed)
		}
		return s
	}
	return string(trimmed)
}

// decodeJSON 解析請求 body；空 body 視為空物件
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) *goerrors.Error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return badRequest("request body is too large or unreadable", "body")
	}
	return decodeBytes(body, dst)
}

func decodeBytes(body []byte, dst any) *goerrors.Error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			field := typeErr.Field
			if i := strings.LastIndex(field, "."); i >= 0 {
				field = field[i+1:]
			}
			return badRequest("invalid "+field, field)
		}
		return badRequest("request body must be a JSON object", "body")
	}
	return nil
}
