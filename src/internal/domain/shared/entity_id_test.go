package shared_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 定義測試用的標記類型
type TestEntityAMarker struct{}
type TestEntityBMarker struct{}

// 類型別名用於測試
type TestEntityAID = shared.EntityID[TestEntityAMarker]
type TestEntityBID = shared.EntityID[TestEntityBMarker]

var ErrInvalidTestEntityA = &shared.DomainError{
	Kind:    shared.KindInvalidArgument,
	Code:    "TEST_ENTITY_A_INVALID",
	Message: "invalid test entity A ID",
}

// 不支援 WithContext 的錯誤模板
var errPlainTemplate = errors.New("plain template")

// ===== EntityID[T] 基礎測試 =====

// Test 1: NewEntityID 生成唯一 ID
func TestNewEntityID_GeneratesUniqueIDs(t *testing.T) {
	// Act
	id1 := shared.NewEntityID[TestEntityAMarker]()
	id2 := shared.NewEntityID[TestEntityAMarker]()

	// Assert
	assert.NotEmpty(t, id1.String())
	assert.NotEmpty(t, id2.String())
	assert.NotEqual(t, id1.String(), id2.String(), "每次生成的 ID 應該不同")
	assert.Len(t, id1.String(), 36, "生成的 ID 是 UUID 字串")
}

// Test 2: EntityIDFromString 接受不透明字串
func TestEntityIDFromString_OpaqueString_Success(t *testing.T) {
	tests := []string{
		"0YzqiEbNYGfIJJtHDRXxxmkeZb12",
		"550e8400-e29b-41d4-a716-446655440000",
		"claim-2024-001",
		strings.Repeat("a", shared.MaxEntityIDLength),
	}

	for _, value := range tests {
		// Act
		id, err := shared.EntityIDFromString[TestEntityAMarker](value, ErrInvalidTestEntityA)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, value, id.String())
	}
}

// Test 3: EntityIDFromString 拒絕無效輸入
func TestEntityIDFromString_InvalidInput_ReturnsError(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		reason string
	}{
		{"空字串", "", "id cannot be blank"},
		{"只有空白", "   ", "id cannot be blank"},
		{"超過長度", strings.Repeat("x", shared.MaxEntityIDLength+1), "id exceeds maximum length"},
		{"包含斜線", "users/abc", "id cannot contain '/'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			id, err := shared.EntityIDFromString[TestEntityAMarker](tt.value, ErrInvalidTestEntityA)

			// Assert
			require.Error(t, err)
			assert.True(t, id.IsEmpty(), "解析失敗應該返回空 ID")
			assert.ErrorIs(t, err, ErrInvalidTestEntityA)

			domainErr, ok := shared.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, tt.reason, domainErr.ContextValue("reason"))
		})
	}
}

// Test 4: 錯誤模板不支援 WithContext 時直接返回模板
func TestEntityIDFromString_PlainTemplate_ReturnsTemplate(t *testing.T) {
	// Act
	_, err := shared.EntityIDFromString[TestEntityAMarker]("", errPlainTemplate)

	// Assert
	assert.Same(t, errPlainTemplate, err)
}

// Test 5: Equals 與 IsEmpty 語義
func TestEntityID_EqualsAndIsEmpty(t *testing.T) {
	// Arrange
	id1, _ := shared.EntityIDFromString[TestEntityAMarker]("uid-1", ErrInvalidTestEntityA)
	id2, _ := shared.EntityIDFromString[TestEntityAMarker]("uid-1", ErrInvalidTestEntityA)
	id3, _ := shared.EntityIDFromString[TestEntityAMarker]("uid-2", ErrInvalidTestEntityA)

	// Act & Assert
	assert.True(t, id1.Equals(id2))
	assert.False(t, id1.Equals(id3))
	assert.True(t, TestEntityAID{}.IsEmpty())
	assert.False(t, id1.IsEmpty())
}

// Test 6: 不同標記類型的 ID 是不同類型
func TestEntityID_DifferentMarkers_AreDistinctTypes(t *testing.T) {
	// Arrange
	a, _ := shared.EntityIDFromString[TestEntityAMarker]("same", ErrInvalidTestEntityA)
	b, _ := shared.EntityIDFromString[TestEntityBMarker]("same", ErrInvalidTestEntityA)

	// Assert：字串相同，但 a.Equals(b) 無法編譯
	assert.Equal(t, a.String(), b.String())
	var _ TestEntityBID = b
}
