package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labtrends/labtrends/internal/domain/connection"
	"github.com/labtrends/labtrends/internal/service"
)

type ConnectionHandler struct {
	connectionSvc *service.ConnectionService
}

func NewConnectionHandler(connectionSvc *service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionSvc: connectionSvc}
}

type sendRequestBody struct {
	ID          string    `json:"id" binding:"required"`
	DoctorEmail string    `json:"doctor_email" binding:"required,email"`
	Message     string    `json:"message"`
	RequestDate time.Time `json:"request_date"`
}

// SendRequest creates a pending connection request from the calling patient
// to a doctor.
func (h *ConnectionHandler) SendRequest(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	var body sendRequestBody
	if !bindJSON(c, &body) {
		return
	}

	req, err := h.connectionSvc.SendRequest(c.Request.Context(), &connection.SendRequestCommand{
		RequestID:    body.ID,
		DoctorEmail:  body.DoctorEmail,
		PatientEmail: claims.Email,
		Message:      body.Message,
		RequestDate:  body.RequestDate,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, req)
}

// Inbox lists the calling doctor's requests, optionally filtered by
// ?status=pending|accepted|rejected.
func (h *ConnectionHandler) Inbox(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	status := connection.RequestStatus(c.Query("status"))
	requests, err := h.connectionSvc.RequestsForDoctor(c.Request.Context(), claims.Email, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, requests)
}

func (h *ConnectionHandler) Accept(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	req, err := h.connectionSvc.Accept(c.Request.Context(), c.Param("requestId"), claims.Email, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, req)
}

func (h *ConnectionHandler) Reject(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	req, err := h.connectionSvc.Reject(c.Request.Context(), c.Param("requestId"), claims.Email, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, req)
}

// Status returns the calling patient's latest request state.
func (h *ConnectionHandler) Status(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	status, err := h.connectionSvc.StatusForPatient(c.Request.Context(), claims.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, status)
}

// AssignedDoctor returns the calling patient's current doctor, or null.
func (h *ConnectionHandler) AssignedDoctor(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	doctor, err := h.connectionSvc.AssignedDoctor(c.Request.Context(), claims.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, doctor)
}

// Patients returns the calling doctor's roster with report roll-ups.
func (h *ConnectionHandler) Patients(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	patients, err := h.connectionSvc.PatientsForDoctor(c.Request.Context(), claims.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, patients)
}

// AllRequests lists requests across all doctors, for the admin view.
func (h *ConnectionHandler) AllRequests(c *gin.Context) {
	requests, err := h.connectionSvc.RequestsByStatus(c.Request.Context(), connection.RequestStatus(c.Query("status")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, requests)
}
