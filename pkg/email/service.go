package email

import (
	"fmt"
	"log"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"p9e.in/farmatrack/pkg/notify"
)

// Service delivers the transactional notifications. With no SendGrid key it
// runs in console-only mode and just logs what would have been sent.
type Service struct {
	fromEmail   string
	fromName    string
	adminEmail  string
	sendGridKey string
	useSendGrid bool
}

func NewService() *Service {
	key := os.Getenv("SENDGRID_API_KEY")
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "noreply@farmatrack.local"
	}
	admin := os.Getenv("ADMIN_EMAIL")
	if admin == "" {
		admin = "admin@farmatrack.local"
	}
	if key == "" {
		log.Printf("Email service in console-only mode (set SENDGRID_API_KEY for delivery)")
	}
	return &Service{
		fromEmail:   from,
		fromName:    "FarmaTrack",
		adminEmail:  admin,
		sendGridKey: key,
		useSendGrid: key != "",
	}
}

// Send implements notify.Sender.
func (s *Service) Send(msg notify.Message) error {
	to := msg.ToEmail
	subject, body := s.compose(msg)
	if msg.Kind == notify.KindRegistrationNotice {
		to = s.adminEmail
	}
	if to == "" {
		return fmt.Errorf("email: no recipient for %s", msg.Kind)
	}
	if !s.useSendGrid {
		log.Printf("[email] to=%s subject=%q", to, subject)
		return nil
	}
	m := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromEmail),
		subject,
		mail.NewEmail(msg.ToName, to),
		body,
		"<p>"+body+"</p>",
	)
	resp, err := sendgrid.NewSendClient(s.sendGridKey).Send(m)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("email: sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (s *Service) compose(msg notify.Message) (subject, body string) {
	switch msg.Kind {
	case notify.KindRegistrationNotice:
		return "Nuova richiesta di registrazione",
			fmt.Sprintf("%s ha richiesto un account merchandiser ed è in attesa di approvazione.", msg.ToName)
	case notify.KindWelcome:
		return "Benvenuto in FarmaTrack",
			fmt.Sprintf("Ciao %s, il tuo account merchandiser è stato approvato. Puoi accedere con la tua email.", msg.ToName)
	case notify.KindRejection:
		return "Richiesta di registrazione respinta",
			fmt.Sprintf("Ciao %s, la tua richiesta di registrazione non è stata approvata.", msg.ToName)
	case notify.KindRemoval:
		return "Account disattivato",
			fmt.Sprintf("Ciao %s, il tuo account FarmaTrack è stato rimosso.", msg.ToName)
	default:
		return "FarmaTrack", "Notifica da FarmaTrack."
	}
}
