package grant

import "time"

// ===========================
// 命令與結果
// ===========================

// GrantPointsCommand 簡單發放（不去重）
//
// Points 保留原始文字（JSON 數字或數字字串），由 GrantValidator 解析。
type GrantPointsCommand struct {
	TargetUID string
	Points    string
}

// GrantPointsResult 簡單發放結果
type GrantPointsResult struct {
	Success bool
	AuditID string
}

// ClaimPointsCommand 冪等發放
//
// ClaimID 是冪等鍵；同一 ClaimID 最多生效一次。
// TargetID 是可選的關聯標籤（例如活動 ID），只寫入審計記錄。
type ClaimPointsCommand struct {
	ClaimID    string
	StudentUID string
	Points     string
	TargetID   string
}

// ClaimPointsResult 冪等發放結果
//
// AlreadyProcessed 為 true 時，餘額是目標帳戶目前的值，本次沒有任何寫入。
type ClaimPointsResult struct {
	Success              bool
	AlreadyProcessed     bool
	AuditID              string
	NewPoints            int64
	TotalPointsObtained  int64
	TotalPointsRemaining int64
}

// AuditRecordView 審計記錄查詢結果
type AuditRecordView struct {
	AuditID    string
	Issuer     string
	Target     string
	Points     int64
	TargetID   string
	Idempotent bool
	CreatedAt  time.Time
}
