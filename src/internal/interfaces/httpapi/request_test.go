package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/jackyeh168/point_grant/src/internal/application/grant"
	"github.com/jackyeh168/point_grant/src/internal/domain/access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test 1: rawPoints 還原 points 欄位原始文字
func TestRawPoints(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`5`, "5"},
		{`5.0`, "5.0"},
		{`1e2`, "1e2"},
		{`"12"`, "12"},
		{` "  3 " `, "  3 "},
		{`null`, ""},
		{``, ""},
		{`true`, "true"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, rawPoints(json.RawMessage(tt.raw)), tt.raw)
	}
}

// Test 2: toServiceError 保留錯誤鏈並映射分類
func TestToServiceError_WrappedDomainError(t *testing.T) {
	// Arrange
	err := fmt.Errorf("load grant target: %w", grant.ErrInvalidTarget.WithContext("field", "targetUid"))

	// Act
	svcErr := toServiceError(err)

	// Assert
	require.NotNil(t, svcErr)
	assert.Equal(t, goerrors.CategoryBadInput, svcErr.Category)
	assert.Equal(t, http.StatusBadRequest, svcErr.Code)
	assert.Equal(t, statusInvalidArgument, svcErr.TextCode)
	assert.Equal(t, "targetUid", svcErr.Metadata["field"])
	assert.Equal(t, string(grant.ErrCodeInvalidTarget), svcErr.Metadata["code"])
	assert.ErrorIs(t, svcErr, grant.ErrInvalidTarget)
}

// Test 3: 內部錯誤隱藏原始訊息
func TestToServiceError_Internal_HidesCause(t *testing.T) {
	// Arrange
	err := fmt.Errorf("%w: %v", access.ErrRoleLookupFailed, "connection refused")

	// Act
	svcErr := toServiceError(err)

	// Assert
	assert.Equal(t, goerrors.CategoryInternal, svcErr.Category)
	assert.Equal(t, internalMessage, svcErr.Message)
	assert.NotContains(t, svcErr.Message, "connection refused")
	assert.Nil(t, toServiceError(nil))
}
