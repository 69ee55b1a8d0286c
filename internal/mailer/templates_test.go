package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationCodeBody(t *testing.T) {
	body, err := VerificationCodeBody("482913", "5 minutes")
	require.NoError(t, err)

	assert.Contains(t, body, "482913")
	assert.Contains(t, body, "expire in 5 minutes")
	assert.Contains(t, body, "St. Rupert&#39;s Medical Clinic")
}

func TestAppointmentConfirmationBody(t *testing.T) {
	body, err := AppointmentConfirmationBody(ConfirmationData{
		FullName:  "Eleanor Agapito",
		Gender:    "Female",
		Email:     "eleanoragapito@gmail.com",
		ContactNo: "+639123456789",
		Address:   "Quezon City",
		Reason:    "For Job Requirements",
		Service:   "Blood Chemistry",
		Procedure: "Total Cholesterol",
		Price:     "PHP 300.00",
		Date:      "April 21, 2025",
		Time:      "8:00 AM - 9:00 AM",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Eleanor Agapito")
	assert.Contains(t, body, "Blood Chemistry")
	assert.Contains(t, body, "Total Cholesterol")
	assert.Contains(t, body, "PHP 300.00")
	assert.Contains(t, body, "April 21, 2025")
}

func TestConfirmationBodyEscapesHTML(t *testing.T) {
	body, err := AppointmentConfirmationBody(ConfirmationData{
		FullName: `<script>alert("x")</script>`,
	})
	require.NoError(t, err)

	assert.NotContains(t, body, "<script>")
}
