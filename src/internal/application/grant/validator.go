package grant

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ===========================
// GrantValidator
// ===========================

// ValidatedGrant 通過驗證的發放請求
type ValidatedGrant struct {
	Target     points.AccountID
	Amount     points.GrantAmount
	AuditID    points.AuditID
	Idempotent bool
	TargetTag  string
}

// GrantValidator 驗證發放請求的格式與範圍（無副作用）
type GrantValidator struct {
	minPoints   decimal.Decimal
	maxPoints   decimal.Decimal
	maxExponent int32
}

// maxPointsLiteral 積分原始文字的最大長度
const maxPointsLiteral = 32

// NewGrantValidator 建立驗證器
func NewGrantValidator() *GrantValidator {
	return &GrantValidator{
		minPoints:   decimal.NewFromInt(points.MinGrantPoints),
		maxPoints:   decimal.NewFromInt(points.MaxGrantPoints),
		// 指數大於上限位數減一時，非零值必定超過上限
		maxExponent: int32(len(strconv.FormatInt(points.MaxGrantPoints, 10)) - 1),
	}
}

// ValidateGrant 驗證簡單發放；每次生成新的審計 ID
func (v *GrantValidator) ValidateGrant(cmd GrantPointsCommand) (*ValidatedGrant, error) {
	target, err := v.parseTarget("targetUid", cmd.TargetUID)
	if err != nil {
		return nil, err
	}
	amount, err := v.parsePoints(cmd.Points)
	if err != nil {
		return nil, err
	}

	return &ValidatedGrant{
		Target:     target,
		Amount:     amount,
		AuditID:    points.NewAuditID(),
		Idempotent: false,
	}, nil
}

// ValidateClaim 驗證冪等發放
func (v *GrantValidator) ValidateClaim(cmd ClaimPointsCommand) (*ValidatedGrant, error) {
	auditID, err := points.AuditIDFromString(cmd.ClaimID)
	if err != nil {
		return nil, fieldError(ErrInvalidClaimID, "claimId", err)
	}
	target, err := v.parseTarget("studentUid", cmd.StudentUID)
	if err != nil {
		return nil, err
	}
	amount, err := v.parsePoints(cmd.Points)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(cmd.TargetID) > points.MaxTargetTagLength {
		return nil, ErrInvalidTargetTag.WithContext(
			"field", "targetId",
			"max", points.MaxTargetTagLength,
		)
	}

	return &ValidatedGrant{
		Target:     target,
		Amount:     amount,
		AuditID:    auditID,
		Idempotent: true,
		TargetTag:  cmd.TargetID,
	}, nil
}

func (v *GrantValidator) parseTarget(field, raw string) (points.AccountID, error) {
	target, err := points.AccountIDFromString(raw)
	if err != nil {
		return points.AccountID{}, fieldError(ErrInvalidTarget, field, err)
	}
	return target, nil
}

// parsePoints 解析原始積分文字
//
// 接受 JSON 數字與數字字串；"5.0"、"1e2" 是整數，"5.5" 不是。
// 比較大小前先以長度與指數排除極端值，避免 "1e10000000" 展開成巨大整數。
func (v *GrantValidator) parsePoints(raw string) (points.GrantAmount, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxPointsLiteral {
		return points.GrantAmount{}, ErrInvalidPoints.WithContext(
			"field", "points",
			"reason", "out of range",
		)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return points.GrantAmount{}, ErrInvalidPoints.WithContext(
			"field", "points",
			"reason", "not a number",
		)
	}
	if exp := value.Exponent(); exp > v.maxExponent || exp < -maxPointsLiteral {
		return points.GrantAmount{}, ErrInvalidPoints.WithContext(
			"field", "points",
			"reason", "out of range",
		)
	}
	if !value.IsInteger() {
		return points.GrantAmount{}, ErrInvalidPoints.WithContext(
			"field", "points",
			"reason", "not an integer",
		)
	}
	if value.LessThan(v.minPoints) || value.GreaterThan(v.maxPoints) {
		return points.GrantAmount{}, ErrInvalidPoints.WithContext(
			"field", "points",
			"reason", "out of range",
		)
	}

	amount, err := points.NewGrantAmount(value.IntPart())
	if err != nil {
		return points.GrantAmount{}, ErrInvalidPoints.WithContext("field", "points")
	}
	return amount, nil
}

func fieldError(template *shared.DomainError, field string, cause error) error {
	reason := ""
	if domainErr, ok := shared.AsDomainError(cause); ok {
		reason = domainErr.ContextValue("reason")
	}
	return template.WithContext("field", field, "reason", reason)
}
