package notify

import (
	"context"
	"log"
)

// Message is one outbound email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SMSSender delivers short text messages.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, text string) error
}

// SMSLogger is the SMS placeholder: it only logs what would be sent.
type SMSLogger struct{}

func (SMSLogger) SendSMS(_ context.Context, phone, text string) error {
	log.Printf("[Inquiry SMS] would send to %s: %s", phone, text)
	return nil
}
