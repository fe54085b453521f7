/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal domain model from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Shape validation (parseable dates, known type strings) happens in the
  handlers; business validation belongs to the requests package.

SEE ALSO:
  - handlers.go: uses these types
*/
package api

import (
	"time"

	"github.com/warp/request-engine/calendar"
	"github.com/warp/request-engine/requests"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	HireDate string `json:"hire_date"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	HireDate string `json:"hire_date"`
	Role     string `json:"role,omitempty"`
	Active   *bool  `json:"active,omitempty"`
}

// SubmitRequestDTO is the body for submitting a vacation or overtime
// request. Hours is required for overtime; EndDate defaults to StartDate
// for overtime.
type SubmitRequestDTO struct {
	Type      string   `json:"type"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date,omitempty"`
	Hours     *float64 `json:"hours,omitempty"`
	Comment   string   `json:"comment,omitempty"`
}

// DecisionRequest is the body for approve/reject. Approve treats a
// missing comment as "keep the original"; reject requires one.
type DecisionRequest struct {
	Comment *string `json:"comment,omitempty"`
}

// RequestDTO represents a request in API responses.
type RequestDTO struct {
	ID           string   `json:"id"`
	EmployeeID   int64    `json:"employee_id"`
	Type         string   `json:"type"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Hours        *float64 `json:"hours,omitempty"`
	Comment      string   `json:"comment,omitempty"`
	Status       string   `json:"status"`
	ApprovedBy   *int64   `json:"approved_by,omitempty"`
	CalendarDays int      `json:"calendar_days"`
	BusinessDays int      `json:"business_days"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// BalanceDTO is the vacation entitlement summary for an employee.
type BalanceDTO struct {
	EmployeeID     int64 `json:"employee_id"`
	DaysAccrued    int   `json:"days_accrued"`
	DaysTaken      int   `json:"days_taken"`
	DaysPending    int   `json:"days_pending"`
	YearsOfService int   `json:"years_of_service"`
}

// PeriodDTO is an inclusive date range.
type PeriodDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PayPeriodsDTO holds the suggested payroll-run boundaries for a date.
type PayPeriodsDTO struct {
	Reference string    `json:"reference"`
	Biweekly  PeriodDTO `json:"biweekly"`
	Weekly    PeriodDTO `json:"weekly"`
	Monthly   PeriodDTO `json:"monthly"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toRequestDTO(r *requests.Request) RequestDTO {
	dto := RequestDTO{
		ID:           string(r.ID),
		EmployeeID:   int64(r.EmployeeID),
		Type:         string(r.Type),
		StartDate:    r.StartDate.String(),
		EndDate:      r.EndDate.String(),
		Comment:      r.Comment,
		Status:       string(r.Status),
		CalendarDays: r.CalendarDays(),
		BusinessDays: r.BusinessDays(),
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
	if r.Type == requests.TypeOvertime {
		h, _ := r.Hours.Float64()
		dto.Hours = &h
	}
	if r.ApprovedBy != nil {
		by := int64(*r.ApprovedBy)
		dto.ApprovedBy = &by
	}
	return dto
}

func toRequestDTOs(recs []requests.Request) []RequestDTO {
	dtos := make([]RequestDTO, len(recs))
	for i := range recs {
		dtos[i] = toRequestDTO(&recs[i])
	}
	return dtos
}

func toEmployeeDTO(e *requests.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:       int64(e.ID),
		Name:     e.Name,
		HireDate: e.HireDate.String(),
		Role:     string(e.Role),
		Active:   e.Active,
	}
}

func toPeriodDTO(p calendar.Period) PeriodDTO {
	return PeriodDTO{Start: p.Start.String(), End: p.End.String()}
}
