package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/attendly/rollcall-backend/internal/model"
	"github.com/attendly/rollcall-backend/internal/repository"
	"github.com/attendly/rollcall-backend/internal/response"
	"github.com/attendly/rollcall-backend/internal/service"
	"github.com/attendly/rollcall-backend/internal/validator"
)

// AttendanceHandler exposes the roster CRUD over HTTP.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// ListStudents godoc
// GET /api/attendance
// Returns the whole roster, optionally filtered by ?status=present|absent.
func (h *AttendanceHandler) ListStudents(c *gin.Context) {
	var status *model.Status
	if raw := c.Query("status"); raw != "" {
		st := model.Status(raw)
		if !st.Valid() {
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
			return
		}
		status = &st
	}

	students, err := h.attendanceService.List(c.Request.Context(), status)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// CreateStudent godoc
// POST /api/attendance
// Adds a student to the roster. Status defaults to absent when omitted.
func (h *AttendanceHandler) CreateStudent(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.attendanceService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRoll) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// UpdateStudent godoc
// PUT /api/attendance/:id
// Partially updates a student; fields absent from the body are unchanged.
func (h *AttendanceHandler) UpdateStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.attendanceService.Update(c.Request.Context(), id, req.Patch())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrDuplicateRoll):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// DeleteStudent godoc
// DELETE /api/attendance/:id
// Removes a student. Succeeds even when the id is already gone.
func (h *AttendanceHandler) DeleteStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.attendanceService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "student removed from roster"})
}

// GetSummary godoc
// GET /api/attendance/summary
// Returns the roster headcount split by attendance state.
func (h *AttendanceHandler) GetSummary(c *gin.Context) {
	summary, err := h.attendanceService.Summary(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}
