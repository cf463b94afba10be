package email

import (
	"fmt"
	"net/smtp"
)

// Service handles email sending via SMTP
type Service struct {
	host string
	port string
	from string
}

// NewService creates a new email service
func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendWaitingListConfirmation tells a user they are on the waiting list.
func (s *Service) SendWaitingListConfirmation(to, eventName string, position int) error {
	subject := fmt.Sprintf("You're on the waiting list for %s", eventName)
	body := BuildWaitingListBody(eventName, position)
	return s.send(to, subject, body)
}

// SendSpotConfirmed tells a promoted user their spot is confirmed.
func (s *Service) SendSpotConfirmed(to, eventName string) error {
	subject := fmt.Sprintf("Your spot for %s is confirmed", eventName)
	body := BuildSpotConfirmedBody(eventName)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
