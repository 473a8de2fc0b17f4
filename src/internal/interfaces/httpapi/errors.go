package httpapi

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
)

// RPC 錯誤狀態字串（callable 協定）
const (
	statusUnauthenticated  = "UNAUTHENTICATED"
	statusInvalidArgument  = "INVALID_ARGUMENT"
	statusPermissionDenied = "PERMISSION_DENIED"
	statusNotFound         = "NOT_FOUND"
	statusAlreadyExists    = "ALREADY_EXISTS"
	statusInternal         = "INTERNAL"
)

const internalMessage = "An unexpected error occurred"

type kindMapping struct {
	category goerrors.Category
	code     int
	textCode string
}

var kindMappings = map[shared.ErrorKind]kindMapping{
	shared.KindUnauthenticated:  {goerrors.CategoryAuth, http.StatusUnauthorized, statusUnauthenticated},
	shared.KindInvalidArgument:  {goerrors.CategoryBadInput, http.StatusBadRequest, statusInvalidArgument},
	shared.KindPermissionDenied: {goerrors.CategoryAuthz, http.StatusForbidden, statusPermissionDenied},
	shared.KindNotFound:         {goerrors.CategoryNotFound, http.StatusNotFound, statusNotFound},
	shared.KindConflict:         {goerrors.CategoryConflict, http.StatusConflict, statusAlreadyExists},
	shared.KindInternal:         {goerrors.CategoryInternal, http.StatusInternalServerError, statusInternal},
}

// toServiceError 把任意錯誤轉成傳輸層信封
//
// DomainError 依 Kind 映射；內部錯誤只保留通用訊息，原始錯誤放在 Source。
// 不認識的錯誤一律視為內部錯誤。
func toServiceError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var rich *goerrors.Error
	if errors.As(err, &rich) {
		return rich
	}

	domainErr, ok := shared.AsDomainError(err)
	if !ok {
		return newInternalError(err)
	}

	mapping, ok := kindMappings[domainErr.Kind]
	if !ok || domainErr.Kind == shared.KindInternal {
		return newInternalError(err)
	}

	svcErr := goerrors.New(domainErr.Message, mapping.category).
		WithCode(mapping.code).
		WithTextCode(mapping.textCode).
		WithMetadata(map[string]any{"code": string(domainErr.Code)})
	svcErr.Source = err
	for _, key := range []string{"field", "reason"} {
		if value := domainErr.ContextValue(key); value != "" {
			svcErr.WithMetadata(map[string]any{key: value})
		}
	}
	return svcErr
}

func newInternalError(source error) *goerrors.Error {
	svcErr := goerrors.New(internalMessage, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(statusInternal)
	svcErr.Source = source
	return svcErr
}

// badRequest 請求本身無法解析（JSON 格式錯誤、欄位型別錯誤）
func badRequest(message, field string) *goerrors.Error {
	svcErr := goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(statusInvalidArgument)
	if field != "" {
		svcErr.WithMetadata(map[string]any{"field": field})
	}
	return svcErr
}

// unauthenticated 憑證缺失或無效；reason 是 plain HTTP 的錯誤代碼
func unauthenticated(reason string) *goerrors.Error {
	return goerrors.New("Caller must be authenticated.", goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(statusUnauthenticated).
		WithMetadata(map[string]any{"reason": reason})
}

func statusCode(svcErr *goerrors.Error) int {
	if svcErr.Code != 0 {
		return svcErr.Code
	}
	return http.StatusInternalServerError
}

// plainErrorCode plain HTTP 回應中的 error 欄位
func plainErrorCode(svcErr *goerrors.Error) string {
	switch svcErr.Category {
	case goerrors.CategoryAuth:
		if reason, ok := svcErr.Metadata["reason"].(string); ok && reason == reasonMissingAuth {
			return reasonMissingAuth
		}
		return reasonInvalidToken
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		field, _ := svcErr.Metadata["field"].(string)
		switch field {
		case "targetUid", "studentUid", "target":
			return "invalid-target"
		case "points":
			return "invalid-points"
		case "claimId":
			return "invalid-claim-id"
		case "targetId":
			return "invalid-target-id"
		case "auditId":
			return "invalid-audit-id"
		case "body":
			return "invalid-body"
		}
		return "invalid-argument"
	case goerrors.CategoryAuthz:
		return "not-authorized"
	case goerrors.CategoryNotFound:
		return "not-found"
	case goerrors.CategoryConflict:
		return "already-exists"
	}
	return "internal"
}

const (
	reasonMissingAuth  = "missing-auth"
	reasonInvalidToken = "invalid-token"
)
