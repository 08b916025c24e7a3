package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/moodz-app/moodz_api/model"
	"github.com/moodz-app/moodz_api/services/repositories"
	"github.com/moodz-app/moodz_api/shared"
	log "github.com/sirupsen/logrus"
)

type EmailService struct {
	context.DefaultService

	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string

	templates map[string]*template.Template

	dbSvc            *PostgresService
	notificationRepo *repositories.NotificationRepository
}

const EMAIL_SVC = "email_svc"

func (svc EmailService) Id() string {
	return EMAIL_SVC
}

func (svc *EmailService) Configure(ctx *context.Context) error {
	svc.smtpHost = os.Getenv("SMTP_HOST")
	svc.smtpPort = os.Getenv("SMTP_PORT")
	svc.smtpUsername = os.Getenv("SMTP_USERNAME")
	svc.smtpPassword = os.Getenv("SMTP_PASSWORD")
	svc.fromEmail = os.Getenv("FROM_EMAIL")
	svc.fromName = os.Getenv("FROM_NAME")

	if svc.smtpPort == "" {
		svc.smtpPort = "587"
	}
	if svc.fromName == "" {
		svc.fromName = "Moodz"
	}

	svc.templates = make(map[string]*template.Template)

	return svc.DefaultService.Configure(ctx)
}

func (svc *EmailService) Start() error {
	svc.dbSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.notificationRepo = repositories.NewNotificationRepository(svc.dbSvc.Db())

	if err := svc.loadTemplates(); err != nil {
		log.WithError(err).Error("Failed to load email templates")
		// Don't fail startup, just log the error
	}

	return nil
}

const sessionReminderEmailHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Your session is coming up - {{.AppName}}</title>
</head>
<body>
    <h2>Hi {{.Username}},</h2>
    <p>Your group session <strong>{{.SessionTitle}}</strong> starts at {{.StartsAt}}.</p>
    <p>See you there!</p>
    <p>&mdash; The {{.AppName}} team</p>
</body>
</html>
`

type SessionReminderEmailData struct {
	AppName      string
	Username     string
	SessionTitle string
	StartsAt     string
}

func (svc *EmailService) loadTemplates() error {
	var err error

	svc.templates["session_reminder"], err = template.New("session_reminder").Parse(sessionReminderEmailHTML)
	if err != nil {
		return fmt.Errorf("failed to parse session reminder email template: %v", err)
	}

	return nil
}

// SendSessionReminderEmail renders the reminder template and dispatches it.
func (svc *EmailService) SendSessionReminderEmail(email, username, sessionTitle string, startsAt time.Time) error {
	if svc.smtpHost == "" {
		log.Warn("SMTP not configured, skipping session reminder email")
		return nil
	}

	data := SessionReminderEmailData{
		AppName:      "Moodz",
		Username:     username,
		SessionTitle: sessionTitle,
		StartsAt:     startsAt.Format(time.RFC1123),
	}

	tmpl, exists := svc.templates["session_reminder"]
	if !exists {
		return fmt.Errorf("template session_reminder not found")
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute template: %v", err)
	}

	subject := "Your session is coming up - Moodz"
	return svc.SendEmail(email, subject, body.String())
}

// SendEmail dispatches over SMTP and records the attempt in the email log.
func (svc *EmailService) SendEmail(to, subject, body string) error {
	if svc.smtpHost == "" {
		return fmt.Errorf("SMTP not configured")
	}

	auth := smtp.PlainAuth("", svc.smtpUsername, svc.smtpPassword, svc.smtpHost)

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		svc.fromName, svc.fromEmail, to, subject, body))

	err := smtp.SendMail(
		svc.smtpHost+":"+svc.smtpPort,
		auth,
		svc.fromEmail,
		[]string{to},
		msg,
	)

	svc.logEmail(to, subject, err)

	if err != nil {
		log.WithError(err).WithFields(log.Fields{"to": to, "subject": subject}).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.WithFields(log.Fields{"to": to, "subject": subject}).Info("Email sent successfully")
	return nil
}

func (svc *EmailService) logEmail(to, subject string, sendErr error) {
	if svc.notificationRepo == nil {
		return
	}

	entry := &model.EmailLog{
		Recipient: to,
		Subject:   subject,
		Status:    shared.EmailStatusSent,
		CreatedAt: time.Now(),
	}
	if sendErr != nil {
		entry.Status = shared.EmailStatusFailed
		entry.Error = sendErr.Error()
	}

	if err := svc.notificationRepo.CreateEmailLog(entry); err != nil {
		log.WithError(err).Warn("Failed to write email log")
	}
}

// TestEmailConfig sends a probe message to the configured from address.
func (svc *EmailService) TestEmailConfig() error {
	if svc.smtpHost == "" {
		return fmt.Errorf("SMTP host not configured")
	}
	if svc.fromEmail == "" {
		return fmt.Errorf("from email not configured")
	}

	return svc.SendEmail(svc.fromEmail, "Test Email Configuration - Moodz",
		"This is a test email to verify SMTP configuration.")
}
