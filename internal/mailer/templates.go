package mailer

import (
	"bytes"
	"html/template"
)

// Subjects used for the two transactional emails.
const (
	SubjectVerificationCode        = "St. Rupert's Medical Clinic - Verify Your Email Address"
	SubjectAppointmentConfirmation = "St. Rupert's Medical Clinic - Appointment Confirmation"
)

var verificationCodeTmpl = template.Must(template.New("verificationCode").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #ddd; padding: 20px; border-radius: 5px;">
  <h2 style="color: #0066cc; text-align: center;">St. Rupert's Medical Clinic</h2>
  <h3 style="text-align: center;">Verify your email address</h3>
  <p>Hello,</p>
  <p>Please enter the following verification code to verify your email address:</p>

  <div style="background-color: #f9f9f9; padding: 15px; border-radius: 5px; margin: 20px 0; text-align: center;">
    <h2 style="letter-spacing: 5px; font-size: 28px;">{{.Code}}</h2>
  </div>

  <p>The code will expire in {{.ExpiresIn}}.</p>
  <p>If you did not request this code, please ignore this email.</p>

  <p style="text-align: center; margin-top: 30px; color: #666;">This is an automated message, please do not reply.</p>
</div>
`))

var appointmentConfirmationTmpl = template.Must(template.New("appointmentConfirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #ddd; padding: 20px; border-radius: 5px;">
  <div style="border-bottom: 2px dotted #0066cc; margin-bottom: 20px;">
    <h2 style="color: #0066cc; text-align: center;">SUMMARY</h2>
    <p style="text-align: center; color: #666;">Please review your details before your appointment</p>
  </div>

  <div style="display: flex; flex-wrap: wrap; border-bottom: 1px solid #eee; padding-bottom: 15px; margin-bottom: 15px;">
    <div style="flex: 1; min-width: 250px; margin-right: 20px;">
      <h3 style="color: #0066cc;">BASIC INFORMATION</h3>
      <p><strong>Full Name:</strong> {{.FullName}}</p>
      <p><strong>Gender:</strong> {{.Gender}}</p>
      <p><strong>Email Address:</strong> {{.Email}}</p>
      <p><strong>Contact No:</strong> {{.ContactNo}}</p>
      <p><strong>Address:</strong> {{.Address}}</p>
      <p><strong>Reason:</strong> {{.Reason}}</p>
    </div>

    <div style="flex: 1; min-width: 250px;">
      <h3 style="color: #0066cc;">Appointment Information</h3>
      <p><strong>Service:</strong> {{.Service}}</p>
      <p><strong>Procedure:</strong> {{.Procedure}}</p>
      <p><strong>Price:</strong> {{.Price}}</p>
      <p><strong>Appointment Time:</strong> {{.Time}}</p>
      <p><strong>Appointment Date:</strong> {{.Date}}</p>
    </div>
  </div>

  <p style="margin: 15px 0;">By receiving this email, you have read, understood and agreed to our Privacy Policy &amp; Terms and Conditions.</p>

  <div style="display: flex; margin-top: 20px; justify-content: space-between;">
    <div style="text-align: center; width: 45%; background-color: #f5f5f5; padding: 10px; border-radius: 5px;">
      <p>Need to reschedule?</p>
      <p>Contact us at: +639123456789</p>
    </div>
    <div style="text-align: center; width: 45%; background-color: #0066cc; padding: 10px; border-radius: 5px; color: white;">
      <p>Appointment Confirmed</p>
      <p>Please arrive 15 minutes early</p>
    </div>
  </div>

  <p style="text-align: center; margin-top: 30px;">Thank you for choosing St. Rupert's Medical Clinic!</p>
</div>
`))

// VerificationCodeBody renders the verification-code email body.
func VerificationCodeBody(code, expiresIn string) (string, error) {
	var buf bytes.Buffer
	err := verificationCodeTmpl.Execute(&buf, struct {
		Code      string
		ExpiresIn string
	}{Code: code, ExpiresIn: expiresIn})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ConfirmationData holds the enriched appointment details rendered into the
// confirmation email.
type ConfirmationData struct {
	FullName  string
	Gender    string
	Email     string
	ContactNo string
	Address   string
	Reason    string
	Service   string
	Procedure string
	Price     string
	Date      string
	Time      string
}

// AppointmentConfirmationBody renders the appointment-confirmation email body.
func AppointmentConfirmationBody(data ConfirmationData) (string, error) {
	var buf bytes.Buffer
	if err := appointmentConfirmationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
