package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackyeh168/point_grant/src/internal/domain/access"
)

// ===========================
// Bearer 憑證（HS256 JWT）
// ===========================

// DefaultTokenTTL 未指定有效期時使用的預設值
const DefaultTokenTTL = time.Hour

// Claims 憑證內容
//
// sub 是呼叫者 UID；role / admin / staff 是自訂角色宣告，
// 與 identity_claims 表的欄位一一對應。
type Claims struct {
	Role  string `json:"role,omitempty"`
	Admin bool   `json:"admin,omitempty"`
	Staff bool   `json:"staff,omitempty"`
	jwt.RegisteredClaims
}

// Options TokenService 設定
type Options struct {
	SigningKey []byte
	Issuer     string
	Audience   string
	Clock      func() time.Time
}

// TokenService 簽發與驗證 bearer 憑證
type TokenService struct {
	key      []byte
	issuer   string
	audience string
	clock    func() time.Time
}

// NewTokenService 建立憑證服務；簽章金鑰不能為空
func NewTokenService(opts Options) (*TokenService, error) {
	if len(opts.SigningKey) == 0 {
		return nil, errors.New("auth: signing key is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TokenService{
		key:      opts.SigningKey,
		issuer:   opts.Issuer,
		audience: opts.Audience,
		clock:    clock,
	}, nil
}

// Verify 驗證憑證並返回呼叫者
//
// 任何驗證失敗（簽章、演算法、過期、issuer / audience 不符、sub 缺失）
// 都返回 access.ErrUnauthenticated。
func (s *TokenService) Verify(token string) (*access.Issuer, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, access.ErrUnauthenticated.WithContext("reason", "missing token")
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(s.audience))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	}, parserOpts...)
	if err != nil {
		return nil, access.ErrUnauthenticated.WithContext("reason", err.Error())
	}

	issuer, err := access.NewIssuer(claims.Subject, access.RoleClaim{
		Role:  claims.Role,
		Admin: claims.Admin,
		Staff: claims.Staff,
	})
	if err != nil {
		return nil, err
	}
	return issuer, nil
}

// Mint 簽發憑證
func (s *TokenService) Mint(uid string, claim access.RoleClaim, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := s.clock()
	expiresAt := now.Add(ttl)

	registered := jwt.RegisteredClaims{
		Subject:   uid,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	if s.audience != "" {
		registered.Audience = jwt.ClaimStrings{s.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             claim.Role,
		Admin:            claim.Admin,
		Staff:            claim.Staff,
		RegisteredClaims: registered,
	})
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// BearerToken 從 Authorization 標頭取出 bearer 憑證
//
// 標頭缺失或格式不是 "Bearer <token>" 時返回 false。
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
