package services

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/Yash-patil03/Area-Stay-point/models"
	"gopkg.in/gomail.v2"
)

// EmailService delivers booking mail over SMTP. Delivery is best-effort:
// callers may inspect the returned error but are free to log and move on.
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService() *EmailService {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return &EmailService{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
	}
}

func (es *EmailService) SendSimpleMessage(to, subject, body string) error {
	if es.host == "" {
		return fmt.Errorf("SMTP_HOST not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", es.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(es.host, es.port, es.username, es.password)
	if err := d.DialAndSend(m); err != nil {
		return err
	}
	log.Println("Email sent successfully to:", to)
	return nil
}

// SendBookingConfirmation mails the guest a summary of the confirmed
// booking, including the donor contribution and net amount when a sponsor
// is attached.
func (es *EmailService) SendBookingConfirmation(booking *models.Booking, user *models.User) error {
	if booking.PG == nil {
		return fmt.Errorf("booking %d has no listing loaded", booking.ID)
	}

	subject, message := bookingConfirmationMessage(booking, user)
	return es.SendSimpleMessage(user.Email, subject, message)
}

func bookingConfirmationMessage(booking *models.Booking, user *models.User) (string, string) {
	contributionText := ""
	if booking.Donor != nil && booking.DonorContribution != nil {
		contributionText = fmt.Sprintf(
			"\nSponsorship Applied: %s contributed %.2f\nNet Amount Paid: %.2f",
			booking.Donor.Username,
			*booking.DonorContribution,
			booking.PG.Price-*booking.DonorContribution,
		)
	}

	subject := "Booking Confirmed - " + booking.PG.Name
	message := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your booking for '%s' has been successfully confirmed.\n"+
			"Total Rent: %.2f%s\n"+
			"Address: %s\n\n"+
			"Thank you for using Area Stay Point!",
		user.Username,
		booking.PG.Name,
		booking.PG.Price,
		contributionText,
		booking.PG.Address,
	)

	return subject, message
}
