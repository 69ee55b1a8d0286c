package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"clinic-appointment-server/internal/config"
	"clinic-appointment-server/internal/mailer"
	"clinic-appointment-server/internal/models"
	"clinic-appointment-server/internal/payments"
	"clinic-appointment-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentHandler handles payment-link creation and gateway webhooks.
type PaymentHandler struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Payments payments.LinkCreator
	Mailer   mailer.Mailer
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(db *gorm.DB, cfg *config.Config, p payments.LinkCreator, m mailer.Mailer) *PaymentHandler {
	return &PaymentHandler{DB: db, Cfg: cfg, Payments: p, Mailer: m}
}

// CreateLinkRequest represents the request body for retrying payment-link
// creation on a verified appointment.
type CreateLinkRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required,uuid"`
}

// CreatePaymentLink creates a hosted payment link for an email-verified
// appointment that does not have a succeeded payment yet. This is the
// client's retry path when link creation failed during verification.
func (h *PaymentHandler) CreatePaymentLink(c *gin.Context) {
	var req CreateLinkRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	var appointment models.Appointment
	if err := h.DB.Preload("Patient").Preload("Procedure").First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !appointment.EmailVerified {
		utils.BadRequest(c, "Appointment email has not been verified yet.")
		return
	}
	if appointment.PaymentStatus == models.PaymentSucceeded {
		utils.BadRequest(c, "Appointment has already been paid.")
		return
	}

	link, err := createPaymentLink(c.Request.Context(), h.DB, h.Payments, &appointment)
	if err != nil {
		var gwErr *payments.GatewayError
		if errors.As(err, &gwErr) {
			utils.Error(c, http.StatusBadGateway, "Failed to create payment link: "+gwErr.Detail)
		} else {
			utils.InternalServerError(c, "Failed to create payment link: "+err.Error())
		}
		return
	}

	utils.Success(c, "Payment link created successfully", gin.H{
		"appointment": appointment.Sanitize(),
		"paymentUrl":  link.URL,
	})
}

// Webhook receives asynchronous payment notifications from the gateway.
// It always acknowledges with 200 regardless of internal outcome so the
// gateway does not retry-storm; internal failures are logged only.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	acknowledge := func() {
		c.JSON(http.StatusOK, gin.H{"received": true})
	}

	raw, err := c.GetRawData()
	if err != nil {
		log.Printf("Webhook: failed to read body: %v", err)
		acknowledge()
		return
	}

	event, err := payments.ParseEvent(raw)
	if err != nil {
		log.Printf("Webhook: %v", err)
		acknowledge()
		return
	}

	if event.Type != payments.EventLinkPaymentPaid {
		log.Printf("Webhook: ignoring event type %q", event.Type)
		acknowledge()
		return
	}

	// Single conditional update keyed on the stored link id. An unknown id
	// is a no-op, not an error.
	result := h.DB.Model(&models.Appointment{}).
		Where("payment_id = ? AND payment_status <> ?", event.ResourceID, models.PaymentSucceeded).
		Update("payment_status", models.PaymentSucceeded)
	if result.Error != nil {
		log.Printf("Webhook: failed to update payment status for link %s: %v", event.ResourceID, result.Error)
		acknowledge()
		return
	}
	if result.RowsAffected == 0 {
		log.Printf("Webhook: no appointment matches link %s", event.ResourceID)
		acknowledge()
		return
	}

	var appointment models.Appointment
	if err := h.DB.Preload("Patient").Preload("Procedure").
		First(&appointment, "payment_id = ?", event.ResourceID).Error; err != nil {
		log.Printf("Webhook: failed to load appointment for link %s: %v", event.ResourceID, err)
		acknowledge()
		return
	}

	if err := sendConfirmationEmail(h.Mailer, &appointment); err != nil {
		log.Printf("Webhook: failed to send confirmation email for appointment %s: %v", appointment.ID, err)
	}

	acknowledge()
}

// createPaymentLink requests a hosted payment link for the appointment's
// procedure price and persists the link id, url, and pending payment status
// on the appointment. The appointment must have Patient and Procedure
// preloaded.
func createPaymentLink(ctx context.Context, db *gorm.DB, gateway payments.LinkCreator, appointment *models.Appointment) (*payments.Link, error) {
	description := fmt.Sprintf("%s - %s", appointment.Procedure.Service, appointment.Procedure.Name)

	link, err := gateway.CreateLink(ctx, payments.CreateLinkInput{
		Amount:      appointment.Procedure.Price,
		Description: description,
		Name:        appointment.Patient.FullName(),
		Email:       appointment.Patient.Email,
	})
	if err != nil {
		return nil, err
	}

	url := link.CheckoutURL
	if url == "" {
		url = link.URL
	}

	updates := map[string]interface{}{
		"payment_id":     link.ID,
		"payment_url":    url,
		"payment_status": models.PaymentPending,
	}
	if err := db.Model(appointment).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("payment link %s created but could not be saved: %w", link.ID, err)
	}

	appointment.PaymentID = link.ID
	appointment.PaymentURL = url
	appointment.PaymentStatus = models.PaymentPending
	link.URL = url
	return link, nil
}

// sendConfirmationEmail renders and sends the appointment confirmation,
// enriched with the patient and procedure details.
func sendConfirmationEmail(m mailer.Mailer, appointment *models.Appointment) error {
	body, err := mailer.AppointmentConfirmationBody(mailer.ConfirmationData{
		FullName:  appointment.Patient.FullName(),
		Gender:    appointment.Patient.Gender,
		Email:     appointment.Patient.Email,
		ContactNo: appointment.Patient.ContactNo,
		Address:   appointment.Patient.Address,
		Reason:    appointment.Patient.Reason,
		Service:   appointment.Procedure.Service,
		Procedure: appointment.Procedure.Name,
		Price:     fmt.Sprintf("PHP %.2f", appointment.Procedure.Price),
		Date:      appointment.AppointmentDate.Format("January 2, 2006"),
		Time:      appointment.TimeSlot,
	})
	if err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	messageID, err := m.Send(appointment.Patient.Email, mailer.SubjectAppointmentConfirmation, body)
	if err != nil {
		return err
	}
	log.Printf("Confirmation email sent: %s", messageID)
	return nil
}
