package handler

import (
	"net/http"
	"strconv"

	"clinic-booking-service/internal/usecase"
	"clinic-booking-service/pkg/pagination"
	"clinic-booking-service/pkg/response"

	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	auditLogID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid audit log ID", nil)
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		switch err {
		case usecase.ErrAuditLogNotFound:
			response.NotFound(w, "Audit log not found")
		case usecase.ErrAuditStorageDisabled:
			response.ServiceUnavailable(w, "Audit log storage is not configured")
		default:
			response.ServerError(w, "Failed to get audit log", err)
		}
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page, limit, _ = pagination.Normalize(page, limit)

	auditLogs, total, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), page, limit)
	if err != nil {
		switch err {
		case usecase.ErrAuditStorageDisabled:
			response.ServiceUnavailable(w, "Audit log storage is not configured")
		default:
			response.ServerError(w, "Failed to get audit logs", err)
		}
		return
	}

	response.SuccessWithPagination(w, http.StatusOK, auditLogs, &response.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pagination.TotalPages(total, limit),
	})
}
