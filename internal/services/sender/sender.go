// Package sender отправляет студентам письма о просроченных абонементах,
// получая уведомления из очереди напоминаний.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/gym-membership/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/lib/smtp"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Transport подключение к почтовому серверу.
type Transport interface {
	Connect() (smtp.Client, error)
	GetSMTPUser() string
}

// Service отправщик писем.
type Service struct {
	transport Transport
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport Transport, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendOverdueNotice разбирает OverdueNotice из тела сообщения и отправляет письмо студенту.
// Уведомление без email пропускается без ошибки, чтобы сообщение не возвращалось в очередь.
func (s *Service) SendOverdueNotice(body []byte) error {
	const op = "services.sender.SendOverdueNotice"

	var notice models.OverdueNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: %w: error unmarshalling message: %v", op, rabbitmq.ErrDiscard, err)
	}
	if strings.TrimSpace(notice.Email) == "" {
		s.log.Warn("student has no email, notice skipped", sl.Student(notice.StudentID))
		return nil
	}

	subject := "Mensalidade em atraso"
	bodyText := fmt.Sprintf("Olá, %s!\r\n\r\n"+
		"O seu plano %s venceu em %s (%d dia(s) em atraso).\r\n"+
		"Último pagamento registrado: %s.\r\n\r\n"+
		"Procure a recepção da academia para regularizar.",
		notice.StudentName,
		notice.Plan,
		notice.DueDate.Format(models.DateLayout),
		notice.DaysOverdue,
		notice.LastPayment.Format(models.DateLayout),
	)

	if err := s.sendEmail([]string{notice.Email}, subject, bodyText); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("overdue notice sent", sl.Student(notice.StudentID))
	return nil
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}
	return nil
}
