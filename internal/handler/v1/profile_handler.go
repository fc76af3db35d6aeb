package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/labtrends/labtrends/internal/domain/profile"
	"github.com/labtrends/labtrends/internal/service"
)

type ProfileHandler struct {
	profileSvc *service.ProfileService
}

func NewProfileHandler(profileSvc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

func (h *ProfileHandler) GetPatient(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	p, err := h.profileSvc.GetPatient(c.Request.Context(), claims.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type patientProfileBody struct {
	Name              string   `json:"name"`
	Phone             string   `json:"phone"`
	DateOfBirth       string   `json:"date_of_birth"`
	Gender            string   `json:"gender"`
	BloodType         string   `json:"blood_type"`
	Height            string   `json:"height"`
	Weight            string   `json:"weight"`
	Address           string   `json:"address"`
	MedicalConditions []string `json:"medical_conditions"`
	Allergies         []string `json:"allergies"`
	Medications       []string `json:"medications"`
	UnitPreference    string   `json:"unit_preference"`
}

func (h *ProfileHandler) SavePatient(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	var body patientProfileBody
	if !bindJSON(c, &body) {
		return
	}

	p := &profile.PatientProfile{
		Email:             claims.Email,
		Name:              body.Name,
		Phone:             body.Phone,
		DateOfBirth:       body.DateOfBirth,
		Gender:            body.Gender,
		BloodType:         body.BloodType,
		Height:            body.Height,
		Weight:            body.Weight,
		Address:           body.Address,
		MedicalConditions: body.MedicalConditions,
		Allergies:         body.Allergies,
		Medications:       body.Medications,
		UnitPreference:    body.UnitPreference,
	}
	if err := h.profileSvc.SavePatient(c.Request.Context(), p); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *ProfileHandler) GetDoctor(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	d, err := h.profileSvc.GetDoctor(c.Request.Context(), claims.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

type doctorProfileBody struct {
	Name           string `json:"name" binding:"required"`
	Specialization string `json:"specialization"`
	Phone          string `json:"phone"`
	LicenseNumber  string `json:"license_number"`
	JoinDate       string `json:"join_date"`
}

func (h *ProfileHandler) SaveDoctor(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	var body doctorProfileBody
	if !bindJSON(c, &body) {
		return
	}

	d := &profile.DoctorProfile{
		DoctorEmail:    claims.Email,
		Name:           body.Name,
		Specialization: body.Specialization,
		Phone:          body.Phone,
		LicenseNumber:  body.LicenseNumber,
		JoinDate:       body.JoinDate,
	}
	if err := h.profileSvc.SaveDoctor(c.Request.Context(), d); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

// ListDoctors is the patient-facing doctor directory.
func (h *ProfileHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.profileSvc.ListDoctors(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, doctors)
}
