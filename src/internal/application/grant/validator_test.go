package grant

import (
	"strings"
	"testing"
	"time"

	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test 1: 接受的積分格式
func TestGrantValidator_AcceptedPointForms(t *testing.T) {
	validator := NewGrantValidator()
	tests := map[string]int64{
		"1":    1,
		"5":    5,
		"5.0":  5,
		"1e2":  100,
		" 7 ":  7,
		"1000": 1000,
	}

	for raw, want := range tests {
		// Act
		g, err := validator.ValidateGrant(GrantPointsCommand{TargetUID: "user-u", Points: raw})

		// Assert
		require.NoError(t, err, raw)
		assert.Equal(t, want, g.Amount.Value(), raw)
	}
}

// Test 2: 拒絕的積分格式，錯誤指出 points 欄位
func TestGrantValidator_RejectedPointForms(t *testing.T) {
	validator := NewGrantValidator()
	tests := []string{"", "0", "-1", "1001", "5.5", "abc", "true", "null", "1e4", "NaN"}

	for _, raw := range tests {
		// Act
		_, err := validator.ValidateClaim(ClaimPointsCommand{ClaimID: "c1", StudentUID: "user-u", Points: raw})

		// Assert
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrInvalidPoints, raw)
		assert.Equal(t, shared.KindInvalidArgument, shared.KindOf(err), raw)
		domainErr, _ := shared.AsDomainError(err)
		assert.Equal(t, "points", domainErr.ContextValue("field"), raw)
	}
}

// Test 3: 目標與 claimId 欄位
func TestGrantValidator_FieldErrors(t *testing.T) {
	validator := NewGrantValidator()
	tests := []struct {
		name  string
		cmd   ClaimPointsCommand
		err   error
		field string
	}{
		{"缺少 claimId", ClaimPointsCommand{StudentUID: "u", Points: "5"}, ErrInvalidClaimID, "claimId"},
		{"空白 claimId", ClaimPointsCommand{ClaimID: "  ", StudentUID: "u", Points: "5"}, ErrInvalidClaimID, "claimId"},
		{"缺少 studentUid", ClaimPointsCommand{ClaimID: "c1", Points: "5"}, ErrInvalidTarget, "studentUid"},
		{"studentUid 過長", ClaimPointsCommand{ClaimID: "c1", StudentUID: strings.Repeat("u", 129), Points: "5"}, ErrInvalidTarget, "studentUid"},
		{"targetId 過長", ClaimPointsCommand{ClaimID: "c1", StudentUID: "u", Points: "5", TargetID: strings.Repeat("t", 257)}, ErrInvalidTargetTag, "targetId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := validator.ValidateClaim(tt.cmd)

			// Assert
			assert.ErrorIs(t, err, tt.err)
			domainErr, ok := shared.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, domainErr.ContextValue("field"))
		})
	}
}

// Test 4: 簡單發放每次生成不同的審計 ID
func TestGrantValidator_ValidateGrant_FreshAuditIDs(t *testing.T) {
	validator := NewGrantValidator()
	cmd := GrantPointsCommand{TargetUID: "user-u", Points: "5"}

	// Act
	g1, err1 := validator.ValidateGrant(cmd)
	g2, err2 := validator.ValidateGrant(cmd)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.False(t, g1.Idempotent)
	assert.NotEqual(t, g1.AuditID, g2.AuditID)
}

// Test 5: 冪等發放使用 claimId 作為審計 ID
func TestGrantValidator_ValidateClaim_UsesClaimID(t *testing.T) {
	// Act
	g, err := NewGrantValidator().ValidateClaim(ClaimPointsCommand{ClaimID: "c1", StudentUID: "user-u", Points: "5", TargetID: "event-1"})

	// Assert
	require.NoError(t, err)
	assert.True(t, g.Idempotent)
	assert.Equal(t, "c1", g.AuditID.String())
	assert.Equal(t, "user-u", g.Target.String())
	assert.Equal(t, "event-1", g.TargetTag)
}

// Test 6: 極端指數與過長文字在比較大小前就被拒絕
func TestGrantValidator_ExtremeMagnitude_RejectedQuickly(t *testing.T) {
	validator := NewGrantValidator()
	tests := []string{
		"1e10000000",
		"-1e10000000",
		"0e10000000",
		"0e-10000000",
		"1e-10000000",
		"1e4",
		strings.Repeat("0", 40) + "5",
	}

	for _, raw := range tests {
		// Act
		start := time.Now()
		_, err := validator.ValidateGrant(GrantPointsCommand{TargetUID: "user-u", Points: raw})
		elapsed := time.Since(start)

		// Assert
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrInvalidPoints, raw)
		assert.Equal(t, shared.KindInvalidArgument, shared.KindOf(err), raw)
		domainErr, _ := shared.AsDomainError(err)
		assert.Equal(t, "out of range", domainErr.ContextValue("reason"), raw)
		assert.Less(t, elapsed, 100*time.Millisecond, raw)
	}
}
