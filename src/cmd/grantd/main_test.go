package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackyeh168/point_grant/src/internal/domain/access"
	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/infrastructure/auth"
	"github.com/jackyeh168/point_grant/src/internal/infrastructure/config"
	"github.com/jackyeh168/point_grant/src/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (http.Handler, *auth.TokenService, *gorm.DB) {
	t.Helper()
	ctx := context.Background()

	db, err := persistence.Open(ctx, persistence.Options{Driver: persistence.DriverSQLite, DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = persistence.Close(db) })
	require.NoError(t, persistence.Migrate(db))

	now := time.Now().UTC()
	accounts := persistence.NewAccountRepository(db)
	teacher, _ := points.NewAccount(mustID(t, "teacher-1"), points.RoleAdmin, now)
	student, _ := points.NewAccount(mustID(t, "student-1"), points.RoleNone, now)
	require.NoError(t, accounts.Save(nil, teacher))
	require.NoError(t, accounts.Save(nil, student))
	ten, _ := points.NewGrantAmount(10)
	require.NoError(t, accounts.ApplyGrant(nil, mustID(t, "student-1"), ten, now))

	tokens, err := auth.NewTokenService(auth.Options{SigningKey: []byte("k"), Issuer: "point-grant"})
	require.NoError(t, err)

	cfg := config.Default()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return buildRouter(&cfg, db, tokens, logger), tokens, db
}

func mustID(t *testing.T, s string) points.AccountID {
	t.Helper()
	id, err := points.AccountIDFromString(s)
	require.NoError(t, err)
	return id
}

func post(t *testing.T, h http.Handler, path, token, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	out["_status"] = rec.Code
	return out
}

// Test 1: 兩種入口對同一個 claimId 共用冪等語義
func TestGrantd_ClaimAcrossTransports_AppliedOnce(t *testing.T) {
	// Arrange
	router, tokens, _ := setupService(t)
	token, _, err := tokens.Mint("teacher-1", access.RoleClaim{}, time.Hour)
	require.NoError(t, err)

	// Act
	first := post(t, router, "/claimPointsHttp/", token, `{"claimId":"c1","studentUid":"student-1","points":5}`)
	replay := post(t, router, "/claimPoints", token, `{"data":{"claimId":"c1","studentUid":"student-1","points":5}}`)
	second := post(t, router, "/claimPointsHttp/", token, `{"claimId":"c2","studentUid":"student-1","points":"5"}`)

	// Assert
	assert.Equal(t, http.StatusOK, first["_status"])
	assert.Equal(t, false, first["alreadyProcessed"])
	assert.Equal(t, float64(15), first["newPoints"])

	result := replay["result"].(map[string]any)
	assert.Equal(t, true, result["alreadyProcessed"])
	assert.Equal(t, float64(15), result["newPoints"])

	assert.Equal(t, float64(20), second["newPoints"])
	assert.Equal(t, float64(20), second["totalPointsRemaining"])
}

// Test 2: 學生呼叫者被拒絕
func TestGrantd_StudentCaller_Forbidden(t *testing.T) {
	// Arrange
	router, tokens, _ := setupService(t)
	token, _, err := tokens.Mint("student-1", access.RoleClaim{}, time.Hour)
	require.NoError(t, err)

	// Act
	out := post(t, router, "/grantPointsHttp/", token, `{"targetUid":"student-1","points":5}`)

	// Assert
	assert.Equal(t, http.StatusForbidden, out["_status"])
	assert.Equal(t, "not-authorized", out["error"])
}

// Test 3: 不存在的目標返回 404
func TestGrantd_MissingTarget_NotFound(t *testing.T) {
	// Arrange
	router, tokens, _ := setupService(t)
	token, _, err := tokens.Mint("teacher-1", access.RoleClaim{}, time.Hour)
	require.NoError(t, err)

	// Act
	out := post(t, router, "/grantPointsHttp/", token, `{"targetUid":"ghost","points":5}`)

	// Assert
	assert.Equal(t, http.StatusNotFound, out["_status"])
	assert.Equal(t, "not-found", out["error"])
}

// Test 4: 學生可以查詢自己的餘額，不能查詢他人
func TestGrantd_BalanceReads(t *testing.T) {
	// Arrange
	router, tokens, _ := setupService(t)
	token, _, err := tokens.Mint("student-1", access.RoleClaim{}, time.Hour)
	require.NoError(t, err)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	// Act
	own := get("/accounts/student-1")
	other := get("/accounts/teacher-1")

	// Assert
	require.Equal(t, http.StatusOK, own.Code, own.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(own.Body.Bytes(), &body))
	assert.Equal(t, float64(10), body["points"])
	assert.Equal(t, http.StatusForbidden, other.Code)
}
