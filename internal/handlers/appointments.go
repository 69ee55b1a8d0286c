package handlers

import (
	"log"
	"time"

	"clinic-appointment-server/internal/config"
	"clinic-appointment-server/internal/mailer"
	"clinic-appointment-server/internal/models"
	"clinic-appointment-server/internal/utils"
	"clinic-appointment-server/internal/verification"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentHandler handles public appointment booking requests.
type AppointmentHandler struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Codes  *verification.Store
	Mailer mailer.Mailer
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, cfg *config.Config, codes *verification.Store, m mailer.Mailer) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Cfg: cfg, Codes: codes, Mailer: m}
}

// SubmitAppointmentRequest represents the request body for submitting an
// appointment.
type SubmitAppointmentRequest struct {
	FirstName       string    `json:"firstName" binding:"required"`
	LastName        string    `json:"lastName" binding:"required"`
	Email           string    `json:"email" binding:"required,email"`
	ContactNo       string    `json:"contactNo" binding:"required"`
	Gender          string    `json:"gender"`
	DateOfBirth     time.Time `json:"dateOfBirth"`
	Address         string    `json:"address"`
	Reason          string    `json:"reason"`
	ProcedureID     string    `json:"procedureId" binding:"required,uuid"`
	AppointmentDate time.Time `json:"appointmentDate" binding:"required"`
	TimeSlot        string    `json:"timeSlot" binding:"required"`
}

// SubmitAppointment handles a patient submitting a new appointment request.
// The appointment starts in pending status with an unverified email and no
// payment; a verification code is issued and emailed to the patient.
func (h *AppointmentHandler) SubmitAppointment(c *gin.Context) {
	var req SubmitAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	procedureID, err := uuid.Parse(req.ProcedureID)
	if err != nil {
		utils.BadRequest(c, "Invalid Procedure ID format")
		return
	}

	var procedure models.Procedure
	if err := h.DB.First(&procedure, "id = ?", procedureID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Procedure not found")
		} else {
			utils.InternalServerError(c, "Database error verifying procedure: "+err.Error())
		}
		return
	}

	if req.AppointmentDate.Before(time.Now().Truncate(24 * time.Hour)) {
		utils.BadRequest(c, "Appointment date must not be in the past.")
		return
	}

	patient := models.Patient{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		ContactNo: req.ContactNo,
		Gender:    req.Gender,
		Address:   req.Address,
		Reason:    req.Reason,
	}
	if !req.DateOfBirth.IsZero() {
		dob := req.DateOfBirth
		patient.DateOfBirth = &dob
	}

	appointment := models.Appointment{
		ProcedureID:     procedure.ID,
		AppointmentDate: req.AppointmentDate,
		TimeSlot:        req.TimeSlot,
		Status:          models.StatusPending,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&patient).Error; err != nil {
			return err
		}
		appointment.PatientID = patient.ID
		return tx.Create(&appointment).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	// Issue and email the verification code. The code itself never appears
	// in the response.
	if err := sendVerificationEmail(h.Codes, h.Mailer, h.Cfg, req.Email); err != nil {
		log.Printf("Failed to send verification code to %s: %v", req.Email, err)
		utils.InternalServerError(c, "Appointment created but the verification email could not be sent. Please request a new code.")
		return
	}

	utils.Created(c, "Appointment submitted successfully. A verification code has been sent to your email.", gin.H{
		"appointment": appointment.Sanitize(),
		"expiresIn":   verificationExpiryText(h.Cfg),
	})
}

// GetAppointmentByID handles the public tracking read of an appointment.
// Payment metadata is redacted unless the payment has succeeded.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointmentIDStr := c.Param("id")
	appointmentID, err := uuid.Parse(appointmentIDStr)
	if err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	response := gin.H{"appointment": appointment.Sanitize()}
	if appointment.PaymentStatus == models.PaymentSucceeded {
		response["paymentUrl"] = appointment.PaymentURL
	}
	utils.Success(c, "Appointment fetched successfully", response)
}

// ListProcedures returns the bookable procedures for the booking form.
func (h *AppointmentHandler) ListProcedures(c *gin.Context) {
	var procedures []models.Procedure
	if err := h.DB.Order("service asc, name asc").Find(&procedures).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch procedures: "+err.Error())
		return
	}
	utils.Success(c, "Procedures fetched successfully", procedures)
}
