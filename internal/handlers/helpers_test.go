package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-appointment-server/internal/config"
	"clinic-appointment-server/internal/models"
	"clinic-appointment-server/internal/payments"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- mocks ---

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(to, subject, htmlBody string) (string, error) {
	args := m.Called(to, subject, htmlBody)
	return args.String(0), args.Error(1)
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) CreateLink(ctx context.Context, in payments.CreateLinkInput) (*payments.Link, error) {
	args := m.Called(ctx, in)
	if link, _ := args.Get(0).(*payments.Link); link != nil {
		return link, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- fixtures ---

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                  "test_secret",
		JWTRefreshSecret:           "test_refresh_secret",
		JWTExpirationMinutes:       15,
		JWTRefreshExpirationHours:  168,
		VerificationCodeTTLMinutes: 5,
		VerificationSweepMinutes:   10,
		VerificationRatePerMinute:  3,
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.RefreshToken{},
		&models.Patient{},
		&models.Procedure{},
		&models.Appointment{},
	))
	return db
}

func seedBooking(t *testing.T, db *gorm.DB) *models.Appointment {
	t.Helper()

	patient := models.Patient{
		FirstName: "Eleanor",
		LastName:  "Agapito",
		Email:     "eleanoragapito@gmail.com",
		ContactNo: "+639123456789",
		Gender:    "Female",
		Address:   "Quezon City",
		Reason:    "For Job Requirements",
	}
	require.NoError(t, db.Create(&patient).Error)

	procedure := models.Procedure{
		Name:    "Total Cholesterol",
		Service: "Blood Chemistry",
		Price:   300,
	}
	require.NoError(t, db.Create(&procedure).Error)

	appointment := models.Appointment{
		PatientID:       patient.ID,
		ProcedureID:     procedure.ID,
		AppointmentDate: time.Date(2025, 4, 21, 0, 0, 0, 0, time.UTC),
		TimeSlot:        "8:00 AM - 9:00 AM",
		Status:          models.StatusPending,
	}
	require.NoError(t, db.Create(&appointment).Error)

	appointment.Patient = patient
	appointment.Procedure = procedure
	return &appointment
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if raw, ok := body.([]byte); ok {
		buf.Write(raw)
	} else if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(fmt.Sprintf("encode request body: %v", err))
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func patchJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(fmt.Sprintf("encode request body: %v", err))
		}
	}
	req := httptest.NewRequest(http.MethodPatch, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
