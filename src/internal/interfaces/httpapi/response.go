package httpapi

import (
	"encoding/json"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ===========================
// Callable RPC 信封
// ===========================

type rpcResult struct {
	Result any `json:"result"`
}

type rpcErrorBody struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type rpcError struct {
	Error rpcErrorBody `json:"error"`
}

func writeRPCResult(w http.ResponseWriter, result any) {
	writeJSON(w, http.StatusOK, rpcResult{Result: result})
}

func writeRPCError(w http.ResponseWriter, svcErr *goerrors.Error) {
	textCode := svcErr.TextCode
	if textCode == "" {
		textCode = statusInternal
	}
	writeJSON(w, statusCode(svcErr), rpcError{Error: rpcErrorBody{
		Status:  textCode,
		Message: svcErr.Message,
		Details: svcErr.Metadata,
	}})
}

// ===========================
// Plain HTTP 錯誤
// ===========================

type plainError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writePlainError(w http.ResponseWriter, svcErr *goerrors.Error) {
	writeJSON(w, statusCode(svcErr), plainError{
		Error:   plainErrorCode(svcErr),
		Message: svcErr.Message,
	})
}
