package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	goerrors "github.com/goliatone/go-errors"
	pointsapp "github.com/jackyeh168/point_grant/src/internal/application/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/access"
	"github.com/jackyeh168/point_grant/src/internal/infrastructure/auth"
)

// ===========================
// Callable RPC
// ===========================

// rpcEnvelope callable 請求：{"data": {...}}
type rpcEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func decodeRPC(w http.ResponseWriter, r *http.Request, dst any) *goerrors.Error {
	var envelope rpcEnvelope
	if svcErr := decodeJSON(w, r, &envelope); svcErr != nil {
		return svcErr
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	return decodeBytes(envelope.Data, dst)
}

// GrantPointsRPC POST /grantPoints
func (h *Handler) GrantPointsRPC(w http.ResponseWriter, r *http.Request) {
	issuer := issuerFrom(r.Context())
	if issuer == nil {
		writeRPCError(w, unauthenticated(reasonMissingAuth))
		return
	}
	var req grantRequest
	if svcErr := decodeRPC(w, r, &req); svcErr != nil {
		writeRPCError(w, svcErr)
		return
	}

	if _, err := h.service.GrantPoints(r.Context(), issuer, req.command()); err != nil {
		writeRPCError(w, h.serviceError(r.Context(), "grant_points_rpc_failed", err))
		return
	}
	writeRPCResult(w, grantResponse{Success: true})
}

// ClaimPointsRPC POST /claimPoints
func (h *Handler) ClaimPointsRPC(w http.ResponseWriter, r *http.Request) {
	issuer := issuerFrom(r.Context())
	if issuer == nil {
		writeRPCError(w, unauthenticated(reasonMissingAuth))
		return
	}
	var req claimRequest
	if svcErr := decodeRPC(w, r, &req); svcErr != nil {
		writeRPCError(w, svcErr)
		return
	}

	result, err := h.service.ClaimPoints(r.Context(), issuer, req.command())
	if err != nil {
		writeRPCError(w, h.serviceError(r.Context(), "claim_points_rpc_failed", err))
		return
	}
	writeRPCResult(w, newClaimResponse(result))
}

// ===========================
// Plain HTTP
// ===========================

// authenticate 解析並驗證 Authorization 標頭
func (h *Handler) authenticate(r *http.Request) (*access.Issuer, *goerrors.Error) {
	token, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, unauthenticated(reasonMissingAuth)
	}
	issuer, err := h.verifier.Verify(token)
	if err != nil {
		return nil, unauthenticated(reasonInvalidToken)
	}
	return issuer, nil
}

// GrantPointsHTTP POST /grantPointsHttp/
func (h *Handler) GrantPointsHTTP(w http.ResponseWriter, r *http.Request) {
	issuer, svcErr := h.authenticate(r)
	if svcErr != nil {
		writePlainError(w, svcErr)
		return
	}
	var req grantRequest
	if svcErr := decodeJSON(w, r, &req); svcErr != nil {
		writePlainError(w, svcErr)
		return
	}

	if _, err := h.service.GrantPoints(r.Context(), issuer, req.command()); err != nil {
		writePlainError(w, h.serviceError(r.Context(), "grant_points_http_failed", err))
		return
	}
	writeJSON(w, http.StatusOK, grantResponse{Success: true})
}

// ClaimPointsHTTP POST /claimPointsHttp/
func (h *Handler) ClaimPointsHTTP(w http.ResponseWriter, r *http.Request) {
	issuer, svcErr := h.authenticate(r)
	if svcErr != nil {
		writePlainError(w, svcErr)
		return
	}
	var req claimRequest
	if svcErr := decodeJSON(w, r, &req); svcErr != nil {
		writePlainError(w, svcErr)
		return
	}

	result, err := h.service.ClaimPoints(r.Context(), issuer, req.command())
	if err != nil {
		writePlainError(w, h.serviceError(r.Context(), "claim_points_http_failed", err))
		return
	}
	writeJSON(w, http.StatusOK, newClaimResponse(result))
}

// GetAuditRecord GET /audit/{auditId}
func (h *Handler) GetAuditRecord(w http.ResponseWriter, r *http.Request) {
	issuer, svcErr := h.authenticate(r)
	if svcErr != nil {
		writePlainError(w, svcErr)
		return
	}

	view, err := h.service.GetAuditRecord(r.Context(), issuer, chi.URLParam(r, "auditId"))
	if err != nil {
		writePlainError(w, h.serviceError(r.Context(), "get_audit_record_failed", err))
		return
	}
	writeJSON(w, http.StatusOK, newAuditResponse(view))
}

// ListAuditRecords GET /audit?target=<uid>&limit=<n>
func (h *Handler) ListAuditRecords(w http.ResponseWriter, r *http.Request) {
	issuer, svcErr := h.authenticate(r)
	if svcErr != nil {
		writePlainError(w, svcErr)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writePlainError(w, badRequest("limit must be a non-negative integer", "limit"))
			return
		}
		limit = n
	}

	views, err := h.service.ListTargetGrants(r.Context(), issuer, r.URL.Query().Get("target"), limit)
	if err != nil {
		writePlainError(w, h.serviceError(r.Context(), "list_audit_records_failed", err))
		return
	}
	records := make([]auditResponse, 0, len(views))
	for _, view := range views {
		records = append(records, newAuditResponse(view))
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

// GetBalance GET /accounts/{uid}
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	issuer, svcErr := h.authenticate(r)
	if svcErr != nil {
		writePlainError(w, svcErr)
		return
	}

	result, err := h.balances.Execute(r.Context(), issuer, pointsapp.GetBalanceQuery{UID: chi.URLParam(r, "uid")})
	if err != nil {
		writePlainError(w, h.serviceError(r.Context(), "get_balance_failed", err))
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		UID:                  result.UID,
		Role:                 result.Role,
		Points:               result.Points,
		TotalPointsObtained:  result.TotalPointsObtained,
		TotalPointsRemaining: result.TotalPointsRemaining,
	})
}

// Healthz GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// serviceError 轉換服務錯誤；內部錯誤記錄原始原因
func (h *Handler) serviceError(ctx context.Context, event string, err error) *goerrors.Error {
	svcErr := toServiceError(err)
	if svcErr.Category == goerrors.CategoryInternal {
		h.logger.ErrorContext(ctx, "request failed",
			"event", event,
			"module", "httpapi",
			"layer", "interfaces",
			"error", err.Error(),
		)
	}
	return svcErr
}
