/*
handlers.go - HTTP handlers for the request lifecycle engine

PURPOSE:
  Exposes the request engine via REST. Handlers parse and shape-check
  input, resolve the acting employee, delegate to the domain packages,
  and map every domain error kind to a client status.

ENDPOINTS:
  Employees:
    GET    /api/employees                 List employees
    POST   /api/employees                 Create employee (admin)
    GET    /api/employees/{id}            Get employee
    GET    /api/employees/{id}/balance    Vacation entitlement summary
    GET    /api/employees/{id}/requests   List requests (type/status filters)
    POST   /api/employees/{id}/requests   Submit vacation/overtime request

  Requests:
    GET    /api/requests/pending          Pending queue (admin view)
    POST   /api/requests/{id}/approve     Approve (admin)
    POST   /api/requests/{id}/reject      Reject, comment required (admin)
    DELETE /api/requests/{id}             Delete pending (owner or admin)

  Payroll:
    GET    /api/payroll/periods?date=YYYY-MM-DD   Suggested run boundaries

ACTOR CONTRACT:
  Authentication is out of scope. The caller supplies the acting
  employee via X-Actor-ID and X-Actor-Role headers; authorization rules
  themselves live in requests/policy.go, not here.

ERROR MAPPING:
  404  NotFound, EmployeeNotFound
  403  Forbidden
  409  OverlapConflict, AlreadyDecided, NotPending
  422  InvalidRange, InvalidHours, MissingJustification, DateOutOfWindow,
       InsufficientEntitlement, EmployeeInactive
  400  malformed body, dates, ids
  500  anything else

SEE ALSO:
  - dto.go:    request/response shapes
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/warp/request-engine/calendar"
	"github.com/warp/request-engine/requests"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Lifecycle *requests.Lifecycle
	Repo      requests.Repository
	Directory requests.EmployeeDirectory
	Clock     func() calendar.Date
	Log       *logrus.Logger
}

func NewHandler(lc *requests.Lifecycle, repo requests.Repository, dir requests.EmployeeDirectory, clock func() calendar.Date, log *logrus.Logger) *Handler {
	return &Handler{Lifecycle: lc, Repo: repo, Directory: dir, Clock: clock, Log: log}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	emps, err := h.Directory.ListEmployees(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	dtos := make([]EmployeeDTO, len(emps))
	for i := range emps {
		dtos[i] = toEmployeeDTO(&emps[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := parseEmployeeID(w, r)
	if !ok {
		return
	}
	emp, err := h.Directory.GetEmployee(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if !requests.CanDecide(actor.Role) {
		writeError(w, http.StatusForbidden, "Admin role required", nil)
		return
	}

	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	hireDate, err := calendar.ParseDate(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date, use YYYY-MM-DD", err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	emp, err := h.Directory.CreateEmployee(r.Context(), requests.Employee{
		ID:       requests.EmployeeID(req.ID),
		Name:     req.Name,
		HireDate: hireDate,
		Role:     requests.Role(req.Role),
		Active:   active,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := parseEmployeeID(w, r)
	if !ok {
		return
	}
	ent, err := h.Repo.GetEntitlement(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceDTO{
		EmployeeID:     int64(id),
		DaysAccrued:    ent.DaysAccrued,
		DaysTaken:      ent.DaysTaken,
		DaysPending:    ent.DaysPending,
		YearsOfService: ent.YearsOfService,
	})
}

// =============================================================================
// REQUEST HANDLERS
// =============================================================================

func (h *Handler) ListEmployeeRequests(w http.ResponseWriter, r *http.Request) {
	id, ok := parseEmployeeID(w, r)
	if !ok {
		return
	}

	var f requests.Filter
	if v := r.URL.Query().Get("type"); v != "" {
		t := requests.RequestType(v)
		f.Type = &t
	}
	if v := r.URL.Query().Get("status"); v != "" {
		s := requests.RequestStatus(v)
		f.Status = &s
	}

	recs, err := h.Repo.ListByEmployee(r.Context(), id, f)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(recs))
}

func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	employeeID, ok := parseEmployeeID(w, r)
	if !ok {
		return
	}

	var req SubmitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date, use YYYY-MM-DD", err)
		return
	}

	var created *requests.Request
	switch requests.RequestType(req.Type) {
	case requests.TypeVacation:
		if req.EndDate == "" {
			writeError(w, http.StatusBadRequest, "end_date is required for vacation", nil)
			return
		}
		end, err := calendar.ParseDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date, use YYYY-MM-DD", err)
			return
		}
		created, err = h.Lifecycle.CreateVacation(r.Context(), actor, employeeID, start, end, req.Comment)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}

	case requests.TypeOvertime:
		if req.Hours == nil {
			writeError(w, http.StatusBadRequest, "hours is required for overtime", nil)
			return
		}
		created, err = h.Lifecycle.CreateOvertime(r.Context(), actor, employeeID, start,
			decimal.NewFromFloat(*req.Hours), req.Comment)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}

	default:
		writeError(w, http.StatusBadRequest, "type must be vacation or overtime", nil)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"request_id":  created.ID,
		"employee_id": created.EmployeeID,
		"type":        created.Type,
	}).Info("request created")

	writeJSON(w, http.StatusCreated, toRequestDTO(created))
}

func (h *Handler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Repo.ListPending(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(recs))
}

func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id := requests.RequestID(chi.URLParam(r, "id"))

	var body DecisionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	updated, err := h.Lifecycle.Approve(r.Context(), id, actor, body.Comment)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"request_id": updated.ID,
		"approver":   actor.ID,
	}).Info("request approved")

	writeJSON(w, http.StatusOK, toRequestDTO(updated))
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id := requests.RequestID(chi.URLParam(r, "id"))

	var body DecisionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}
	comment := ""
	if body.Comment != nil {
		comment = *body.Comment
	}

	updated, err := h.Lifecycle.Reject(r.Context(), id, actor, comment)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"request_id": updated.ID,
		"approver":   actor.ID,
	}).Info("request rejected")

	writeJSON(w, http.StatusOK, toRequestDTO(updated))
}

func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id := requests.RequestID(chi.URLParam(r, "id"))

	if err := h.Lifecycle.Delete(r.Context(), id, actor); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// SuggestPeriods returns the biweekly/weekly/monthly windows for a
// reference date (defaults to today) to pre-fill a payroll-run form.
func (h *Handler) SuggestPeriods(w http.ResponseWriter, r *http.Request) {
	ref := h.Clock()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := calendar.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date, use YYYY-MM-DD", err)
			return
		}
		ref = parsed
	}

	periods := calendar.SuggestedPeriods(ref)
	writeJSON(w, http.StatusOK, PayPeriodsDTO{
		Reference: ref.String(),
		Biweekly:  toPeriodDTO(periods.Biweekly),
		Weekly:    toPeriodDTO(periods.Weekly),
		Monthly:   toPeriodDTO(periods.Monthly),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func actorFrom(w http.ResponseWriter, r *http.Request) (requests.Actor, bool) {
	idStr := r.Header.Get("X-Actor-ID")
	role := r.Header.Get("X-Actor-Role")
	if idStr == "" || role == "" {
		writeError(w, http.StatusBadRequest, "X-Actor-ID and X-Actor-Role headers are required", nil)
		return requests.Actor{}, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid X-Actor-ID", err)
		return requests.Actor{}, false
	}
	return requests.Actor{ID: requests.EmployeeID(id), Role: requests.Role(role)}, true
}

func parseEmployeeID(w http.ResponseWriter, r *http.Request) (requests.EmployeeID, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee id", err)
		return 0, false
	}
	return requests.EmployeeID(id), true
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case requests.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, requests.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, requests.ErrOverlapConflict),
		errors.Is(err, requests.ErrAlreadyDecided),
		errors.Is(err, requests.ErrNotPending):
		writeError(w, http.StatusConflict, err.Error(), nil)
	case requests.IsClientError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		h.Log.WithError(err).Error("internal error")
		writeError(w, http.StatusInternalServerError, "Internal error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
