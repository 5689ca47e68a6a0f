package timesheet

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/technoapex/timesheet-pro/internal/auth"
	"github.com/technoapex/timesheet-pro/internal/transport"
	"github.com/technoapex/timesheet-pro/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ownerID int64, dto CreateTimesheetDTO) (*Timesheet, error)
	List(ownerID int64) ([]Summary, error)
	Get(ownerID, id int64) (*Timesheet, error)
	Submit(ownerID, id int64) (*Timesheet, error)
	Approve(id int64) error
	Reject(id int64) error
	GetForRender(id int64) (*Timesheet, error)
}

// DocumentRenderer turns a record into a downloadable document.
type DocumentRenderer interface {
	Render(t *Timesheet) ([]byte, error)
	Filename(t *Timesheet) string
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Renderer DocumentRenderer
}

func NewHandler(service ServiceAPI, renderer DocumentRenderer) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		Renderer:    renderer,
	}
}

func (h *Handler) CreateTimesheet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateTimesheet: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTimesheetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateTimesheet: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Create(user.ID, dto)
	if err != nil {
		h.Logger.Error("CreateTimesheet: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]int64{"id": t.ID})
}

func (h *Handler) ListTimesheets(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListTimesheets: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	items, err := h.Service.List(user.ID)
	if err != nil {
		h.Logger.Error("ListTimesheets: service error", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list timesheets")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetTimesheet: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.timesheetID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid timesheet ID")
		return
	}

	t, err := h.Service.Get(user.ID, id)
	if err != nil {
		h.Logger.Error("GetTimesheet: service error", "error", err, "timesheet_id", id, "user_id", user.ID)
		h.writeDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToDetail(t))
}

func (h *Handler) SubmitTimesheet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("SubmitTimesheet: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.timesheetID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid timesheet ID")
		return
	}

	t, err := h.Service.Submit(user.ID, id)
	if err != nil {
		h.Logger.Error("SubmitTimesheet: service error", "error", err, "timesheet_id", id, "user_id", user.ID)
		h.writeDomainError(w, err)
		return
	}

	h.Logger.Info("SubmitTimesheet: timesheet submitted", "timesheet_id", id, "user_id", user.ID)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": t.Status})
}

func (h *Handler) ApproveTimesheet(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.Service.Approve, StatusApproved)
}

func (h *Handler) RejectTimesheet(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.Service.Reject, StatusRejected)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, op func(int64) error, status string) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.timesheetID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid timesheet ID")
		return
	}

	if err := op(id); err != nil {
		h.Logger.Error("timesheet status change failed", "error", err, "timesheet_id", id, "manager_id", user.ID, "target_status", status)
		h.writeDomainError(w, err)
		return
	}

	h.Logger.Info("timesheet status changed", "timesheet_id", id, "manager_id", user.ID, "status", status)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": status})
}

// DownloadPDF serves the rendered document. Mounted behind optional auth:
// a missing or invalid token still gets the document, matching the
// link-sharing download flow.
func (h *Handler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id, err := h.timesheetID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid timesheet ID")
		return
	}

	t, err := h.Service.GetForRender(id)
	if err != nil {
		h.Logger.Error("DownloadPDF: service error", "error", err, "timesheet_id", id)
		h.writeDomainError(w, err)
		return
	}

	doc, err := h.Renderer.Render(t)
	if err != nil {
		h.Logger.Error("DownloadPDF: render failed", "error", err, "timesheet_id", id)
		h.WriteError(w, http.StatusInternalServerError, "failed to render document")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.Renderer.Filename(t)))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.Logger.Error("DownloadPDF: write failed", "error", err, "timesheet_id", id)
	}
}

func (h *Handler) timesheetID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	return strconv.ParseInt(idStr, 10, 64)
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case ErrTimesheetNotFound:
		h.WriteError(w, http.StatusNotFound, "timesheet not found")
	case ErrInvalidTimesheetStatus:
		h.WriteError(w, http.StatusBadRequest, "timesheet cannot change status from its current state")
	default:
		h.HandleServiceError(w, err)
	}
}
