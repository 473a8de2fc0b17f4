package admin

import "github.com/jackyeh168/point_grant/src/internal/domain/shared"

var (
	ErrInvalidAction = &shared.DomainError{
		Kind:    shared.KindInvalidArgument,
		Code:    "ADMIN_ACTION_INVALID",
		Message: "操作必須是 set 或 remove",
	}

	ErrTokenMintFailed = &shared.DomainError{
		Kind:    shared.KindInternal,
		Code:    "ADMIN_TOKEN_MINT_FAILED",
		Message: "憑證簽發失敗",
	}
)
