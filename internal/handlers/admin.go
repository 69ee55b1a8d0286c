package handlers

import (
	"math"
	"strconv"
	"time"

	"clinic-appointment-server/internal/models"
	"clinic-appointment-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminHandler handles staff-facing appointment management requests.
type AdminHandler struct {
	DB *gorm.DB
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{DB: db}
}

// Pagination describes the paging metadata returned with list responses.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

var sortableColumns = map[string]string{
	"appointment_date": "appointment_date",
	"created_at":       "created_at",
	"status":           "status",
}

// ListAppointments handles the staff appointment list with pagination,
// sorting, status and date-range filters, and free-text search over patient
// details.
func (h *AdminHandler) ListAppointments(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	sortColumn, ok := sortableColumns[c.DefaultQuery("sort", "appointment_date")]
	if !ok {
		utils.BadRequest(c, "Invalid sort column")
		return
	}
	order := "desc"
	if c.Query("order") == "asc" {
		order = "asc"
	}

	query := h.DB.Model(&models.Appointment{}).Preload("Patient").Preload("Procedure")

	if status := c.Query("status"); status != "" {
		if !models.ValidStatus(models.AppointmentStatus(status)) {
			utils.BadRequest(c, "Invalid status value")
			return
		}
		query = query.Where("status = ?", status)
	}
	if startDate := c.Query("start_date"); startDate != "" {
		query = query.Where("appointment_date >= ?", startDate)
	}
	if endDate := c.Query("end_date"); endDate != "" {
		query = query.Where("appointment_date <= ?", endDate)
	}

	// Search matches patient name, email, or contact number; appointments
	// are filtered by the matching patient ids.
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		var patientIDs []string
		err := h.DB.Model(&models.Patient{}).
			Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR contact_no LIKE ?",
				pattern, pattern, pattern, pattern).
			Pluck("id", &patientIDs).Error
		if err != nil {
			utils.InternalServerError(c, "Failed to search patients: "+err.Error())
			return
		}
		if len(patientIDs) == 0 {
			utils.Success(c, "Appointments fetched successfully", gin.H{
				"appointments": []models.Appointment{},
				"pagination":   Pagination{Page: page, Limit: limit, Total: 0, Pages: 0},
			})
			return
		}
		query = query.Where("patient_id IN ?", patientIDs)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count appointments: "+err.Error())
		return
	}

	var appointments []models.Appointment
	err = query.Order(sortColumn + " " + order).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", gin.H{
		"appointments": appointments,
		"pagination": Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetAppointment handles fetching a single appointment with its patient and
// procedure details.
func (h *AdminHandler) GetAppointment(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
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

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// DeleteAppointment handles deleting an appointment.
func (h *AdminHandler) DeleteAppointment(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
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

	if err := h.DB.Delete(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment deleted successfully", gin.H{"id": appointment.ID})
}

// UpdateStatusRequest represents the request body for updating an
// appointment's status.
type UpdateStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required"`
}

// UpdateAppointmentStatus sets the staff-driven status of an appointment.
// Any allow-listed status may overwrite any other; there is no transition
// graph.
func (h *AdminHandler) UpdateAppointmentStatus(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if !models.ValidStatus(req.Status) {
		utils.BadRequest(c, "Invalid status value")
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

	appointment.Status = req.Status
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to update status: "+err.Error())
		return
	}

	utils.Success(c, "Appointment status updated successfully", appointment)
}

// ListArchivedAppointments returns the read-only history of appointments
// dated before today.
func (h *AdminHandler) ListArchivedAppointments(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var archived []models.Appointment
	err := h.DB.Preload("Patient").Preload("Procedure").
		Where("appointment_date < ?", today).
		Order("appointment_date desc").
		Find(&archived).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch archived appointments: "+err.Error())
		return
	}

	utils.Success(c, "Archived appointments fetched successfully", archived)
}

// GetArchivedAppointment fetches a single archived appointment. An
// appointment dated today or later is not part of the archive.
func (h *AdminHandler) GetArchivedAppointment(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	var appointment models.Appointment
	if err := h.DB.Preload("Patient").Preload("Procedure").First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Archived appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	today := time.Now().Truncate(24 * time.Hour)
	if !appointment.AppointmentDate.Before(today) {
		utils.NotFound(c, "Archived appointment not found")
		return
	}

	utils.Success(c, "Archived appointment fetched successfully", appointment)
}

// ArchiveReadOnly rejects mutating verbs on the archive.
func (h *AdminHandler) ArchiveReadOnly(c *gin.Context) {
	utils.MethodNotAllowed(c, "Archived records are read-only")
}

// DashboardInsights returns appointment counts for the staff dashboard.
func (h *AdminHandler) DashboardInsights(c *gin.Context) {
	type statusCount struct {
		Status models.AppointmentStatus `json:"status"`
		Count  int64                    `json:"count"`
	}

	var byStatus []statusCount
	err := h.DB.Model(&models.Appointment{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch dashboard insights: "+err.Error())
		return
	}

	today := time.Now().Format("2006-01-02")
	var todayCount int64
	if err := h.DB.Model(&models.Appointment{}).Where("appointment_date = ?", today).Count(&todayCount).Error; err != nil {
		utils.InternalServerError(c, "Failed to count today's appointments: "+err.Error())
		return
	}

	var paidCount int64
	if err := h.DB.Model(&models.Appointment{}).Where("payment_status = ?", models.PaymentSucceeded).Count(&paidCount).Error; err != nil {
		utils.InternalServerError(c, "Failed to count paid appointments: "+err.Error())
		return
	}

	utils.Success(c, "Dashboard insights fetched successfully", gin.H{
		"byStatus":          byStatus,
		"todayAppointments": todayCount,
		"paidAppointments":  paidCount,
	})
}
