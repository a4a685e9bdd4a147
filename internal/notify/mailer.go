package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
)

var bookingTemplate = template.Must(template.New("booking").Parse(`<p>Hola {{.Notice.PatientName}},</p>
<p>Tu turno en <strong>{{.Clinic}}</strong> quedó registrado:</p>
<ul>
  <li>Profesional: {{.Notice.ProfessionalName}}</li>
  <li>Prestación: {{.Notice.ServiceName}}</li>
  <li>Fecha: {{.Notice.Date}} de {{.Notice.StartTime}} a {{.Notice.EndTime}}</li>
</ul>
<p>Si no podés asistir, avisanos con anticipación.</p>`))

// Mailer sends mail through SMTP.
type Mailer struct {
	addr string
	from string
	auth smtp.Auth
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}

	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}

	return &Mailer{
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from: from,
		auth: auth,
	}
}

func RenderBooking(clinic string, n BookingNotice) (string, error) {
	var buf bytes.Buffer
	err := bookingTemplate.Execute(&buf, struct {
		Clinic string
		Notice BookingNotice
	}{clinic, n})
	return buf.String(), err
}

// SendBooking delivers the confirmation synchronously.
func (m *Mailer) SendBooking(ctx context.Context, clinic string, n BookingNotice) error {
	if n.PatientEmail == "" {
		return errors.New("mailer: patient has no email")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := RenderBooking(clinic, n)
	if err != nil {
		return fmt.Errorf("mailer: render: %w", err)
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{n.PatientEmail}
	e.Subject = fmt.Sprintf("%s - Turno confirmado %s %s", clinic, n.Date, n.StartTime)
	e.HTML = []byte(body)

	if err := e.Send(m.addr, m.auth); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}
