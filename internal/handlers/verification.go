package handlers

import (
	"errors"
	"fmt"
	"log"

	"clinic-appointment-server/internal/config"
	"clinic-appointment-server/internal/mailer"
	"clinic-appointment-server/internal/models"
	"clinic-appointment-server/internal/payments"
	"clinic-appointment-server/internal/utils"
	"clinic-appointment-server/internal/verification"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// VerificationHandler handles email verification for appointment bookings.
type VerificationHandler struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Codes    *verification.Store
	Mailer   mailer.Mailer
	Payments payments.LinkCreator
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(db *gorm.DB, cfg *config.Config, codes *verification.Store, m mailer.Mailer, p payments.LinkCreator) *VerificationHandler {
	return &VerificationHandler{DB: db, Cfg: cfg, Codes: codes, Mailer: m, Payments: p}
}

// SendCodeRequest represents the request body for sending a verification code.
type SendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendVerificationCode issues a fresh code for the given email and delivers
// it by email. The code never appears in the HTTP response.
func (h *VerificationHandler) SendVerificationCode(c *gin.Context) {
	var req SendCodeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := sendVerificationEmail(h.Codes, h.Mailer, h.Cfg, req.Email); err != nil {
		log.Printf("Failed to send verification code to %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to send verification code: "+err.Error())
		return
	}

	utils.Success(c, "Verification code sent successfully", gin.H{
		"email":     req.Email,
		"expiresIn": verificationExpiryText(h.Cfg),
	})
}

// ResendVerificationCode invalidates any existing code for the email before
// issuing a new one.
func (h *VerificationHandler) ResendVerificationCode(c *gin.Context) {
	var req SendCodeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	h.Codes.Delete(req.Email)

	if err := sendVerificationEmail(h.Codes, h.Mailer, h.Cfg, req.Email); err != nil {
		log.Printf("Failed to resend verification code to %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to resend verification code: "+err.Error())
		return
	}

	utils.Success(c, "Verification code resent successfully", gin.H{
		"email":     req.Email,
		"expiresIn": verificationExpiryText(h.Cfg),
	})
}

// VerifyCodeRequest represents the request body for verifying a code.
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// VerifyEmailCode checks the submitted code. On success the patient's most
// recent unverified appointment is marked email-verified and a payment link
// is requested for it. A payment-link failure does not roll back the
// verification; the client can retry via the payment endpoint.
func (h *VerificationHandler) VerifyEmailCode(c *gin.Context) {
	var req VerifyCodeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Codes.Verify(req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, verification.ErrNotFound):
			utils.BadRequest(c, "No verification code found for this email. Please request a new code.")
		case errors.Is(err, verification.ErrExpired):
			utils.BadRequest(c, "Verification code has expired. Please request a new code.")
		case errors.Is(err, verification.ErrMismatch):
			utils.BadRequest(c, "Invalid verification code. Please try again.")
		default:
			utils.InternalServerError(c, "Failed to verify code: "+err.Error())
		}
		return
	}

	// Find the patient's most recent unverified appointment.
	var appointment models.Appointment
	err := h.DB.Preload("Patient").Preload("Procedure").
		Joins("JOIN patients ON patients.id = appointments.patient_id").
		Where("patients.email = ? AND appointments.email_verified = ?", req.Email, false).
		Order("appointments.created_at desc").
		First(&appointment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Email verified, but no pending appointment was found for this email.")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	// EmailVerified flips false to true exactly once.
	if err := h.DB.Model(&appointment).Update("email_verified", true).Error; err != nil {
		utils.InternalServerError(c, "Failed to update appointment: "+err.Error())
		return
	}
	appointment.EmailVerified = true

	// Request a hosted payment link for the procedure price. Failure here is
	// reported but does not undo the verification.
	link, err := createPaymentLink(c.Request.Context(), h.DB, h.Payments, &appointment)
	if err != nil {
		log.Printf("Failed to create payment link for appointment %s: %v", appointment.ID, err)
		utils.Success(c, "Email verified successfully, but the payment link could not be created. Please retry.", gin.H{
			"appointment":  appointment.Sanitize(),
			"paymentError": err.Error(),
		})
		return
	}

	utils.Success(c, "Email verified successfully", gin.H{
		"appointment": appointment.Sanitize(),
		"paymentUrl":  link.URL,
	})
}

// sendVerificationEmail issues a code for the email and delivers it using
// the verification-code template.
func sendVerificationEmail(codes *verification.Store, m mailer.Mailer, cfg *config.Config, email string) error {
	code, err := codes.Issue(email)
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	body, err := mailer.VerificationCodeBody(code, verificationExpiryText(cfg))
	if err != nil {
		return fmt.Errorf("failed to render verification email: %w", err)
	}

	messageID, err := m.Send(email, mailer.SubjectVerificationCode, body)
	if err != nil {
		return err
	}
	log.Printf("Verification email sent: %s", messageID)
	return nil
}

func verificationExpiryText(cfg *config.Config) string {
	return fmt.Sprintf("%d minutes", cfg.VerificationCodeTTLMinutes)
}
