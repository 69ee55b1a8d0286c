package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"clinic-appointment-server/internal/mailer"
	"clinic-appointment-server/internal/models"
	"clinic-appointment-server/internal/payments"
	"clinic-appointment-server/internal/verification"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newVerificationRouter(db *gorm.DB, codes *verification.Store, m *mockMailer, gateway payments.LinkCreator) *gin.Engine {
	h := NewVerificationHandler(db, testConfig(), codes, m, gateway)
	router := gin.New()
	router.POST("/email/send-verification-code", h.SendVerificationCode)
	router.POST("/email/resend-verification-code", h.ResendVerificationCode)
	router.POST("/email/verify-email-code", h.VerifyEmailCode)
	return router
}

func TestSendVerificationCodeNeverEchoesCode(t *testing.T) {
	codes := verification.NewStore(5 * time.Minute)

	var sentBody string
	m := new(mockMailer)
	m.On("Send", "a@b.com", mailer.SubjectVerificationCode, mock.Anything).
		Run(func(args mock.Arguments) { sentBody = args.String(2) }).
		Return("msg-1", nil).Once()

	router := newVerificationRouter(setupTestDB(t), codes, m, new(mockGateway))
	w := postJSON(router, "/email/send-verification-code", gin.H{"email": "a@b.com"})

	require.Equal(t, http.StatusOK, w.Code)
	m.AssertExpectations(t)

	// The emailed body carries the code; the HTTP response must not.
	code := regexp.MustCompile(`[1-9][0-9]{5}`).FindString(sentBody)
	require.NotEmpty(t, code)
	assert.NotContains(t, w.Body.String(), code)
	assert.Contains(t, w.Body.String(), "5 minutes")
}

func TestSendVerificationCodeMailerFailure(t *testing.T) {
	codes := verification.NewStore(5 * time.Minute)

	m := new(mockMailer)
	m.On("Send", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("smtp unavailable"))

	router := newVerificationRouter(setupTestDB(t), codes, m, new(mockGateway))
	w := postJSON(router, "/email/send-verification-code", gin.H{"email": "a@b.com"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestVerifyEmailCodeFlipsVerificationAndCreatesLink(t *testing.T) {
	db := setupTestDB(t)
	appointment := seedBooking(t, db)

	codes := verification.NewStore(5 * time.Minute)
	code, err := codes.Issue("eleanoragapito@gmail.com")
	require.NoError(t, err)

	gateway := new(mockGateway)
	gateway.On("CreateLink", mock.Anything, mock.MatchedBy(func(in payments.CreateLinkInput) bool {
		return in.Amount == 300 && in.Description == "Blood Chemistry - Total Cholesterol"
	})).Return(&payments.Link{ID: "link_99", URL: "https://pm.link/abc"}, nil).Once()

	router := newVerificationRouter(db, codes, new(mockMailer), gateway)
	w := postJSON(router, "/email/verify-email-code", gin.H{
		"email": "eleanoragapito@gmail.com",
		"code":  code,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Appointment
	require.NoError(t, db.First(&updated, "id = ?", appointment.ID).Error)
	assert.True(t, updated.EmailVerified)
	assert.Equal(t, "link_99", updated.PaymentID)
	assert.Equal(t, models.PaymentPending, updated.PaymentStatus)

	var resp struct {
		Data struct {
			PaymentURL string `json:"paymentUrl"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://pm.link/abc", resp.Data.PaymentURL)

	gateway.AssertExpectations(t)
}

func TestVerifyEmailCodeIsSingleUse(t *testing.T) {
	db := setupTestDB(t)
	seedBooking(t, db)

	codes := verification.NewStore(5 * time.Minute)
	code, err := codes.Issue("eleanoragapito@gmail.com")
	require.NoError(t, err)

	gateway := new(mockGateway)
	gateway.On("CreateLink", mock.Anything, mock.Anything).
		Return(&payments.Link{ID: "link_99", URL: "https://pm.link/abc"}, nil)

	router := newVerificationRouter(db, codes, new(mockMailer), gateway)
	body := gin.H{"email": "eleanoragapito@gmail.com", "code": code}

	require.Equal(t, http.StatusOK, postJSON(router, "/email/verify-email-code", body).Code)

	w := postJSON(router, "/email/verify-email-code", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No verification code found")
}

func TestVerifyEmailCodeWrongCode(t *testing.T) {
	db := setupTestDB(t)
	seedBooking(t, db)

	codes := verification.NewStore(5 * time.Minute)
	code, err := codes.Issue("eleanoragapito@gmail.com")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	router := newVerificationRouter(db, codes, new(mockMailer), new(mockGateway))
	w := postJSON(router, "/email/verify-email-code", gin.H{
		"email": "eleanoragapito@gmail.com",
		"code":  wrong,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid verification code")

	// No appointment state changed on a failed verify.
	var untouched models.Appointment
	require.NoError(t, db.First(&untouched).Error)
	assert.False(t, untouched.EmailVerified)
}

func TestVerifyEmailCodePaymentFailureKeepsVerification(t *testing.T) {
	db := setupTestDB(t)
	appointment := seedBooking(t, db)

	codes := verification.NewStore(5 * time.Minute)
	code, err := codes.Issue("eleanoragapito@gmail.com")
	require.NoError(t, err)

	gateway := new(mockGateway)
	gateway.On("CreateLink", mock.Anything, mock.Anything).
		Return(nil, &payments.GatewayError{StatusCode: 500, Detail: "gateway down"})

	router := newVerificationRouter(db, codes, new(mockMailer), gateway)
	w := postJSON(router, "/email/verify-email-code", gin.H{
		"email": "eleanoragapito@gmail.com",
		"code":  code,
	})

	// Verification is reported as successful with the payment error attached.
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "payment link could not be created")

	var updated models.Appointment
	require.NoError(t, db.First(&updated, "id = ?", appointment.ID).Error)
	assert.True(t, updated.EmailVerified)
	assert.Empty(t, updated.PaymentID)
	assert.Equal(t, models.PaymentNone, updated.PaymentStatus)
}

func TestResendInvalidatesPreviousCode(t *testing.T) {
	db := setupTestDB(t)
	seedBooking(t, db)

	codes := verification.NewStore(5 * time.Minute)
	first, err := codes.Issue("eleanoragapito@gmail.com")
	require.NoError(t, err)

	m := new(mockMailer)
	m.On("Send", mock.Anything, mock.Anything, mock.Anything).Return("msg-2", nil).Once()

	router := newVerificationRouter(db, codes, m, new(mockGateway))
	require.Equal(t, http.StatusOK,
		postJSON(router, "/email/resend-verification-code", gin.H{"email": "eleanoragapito@gmail.com"}).Code)

	w := postJSON(router, "/email/verify-email-code", gin.H{
		"email": "eleanoragapito@gmail.com",
		"code":  first,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
