package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// SMSRequest é o payload publicado para o gateway de SMS
type SMSRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Publisher é o subconjunto de *nats.Conn usado pelo sender
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSMSSender entrega SMS publicando a mensagem em um subject NATS.
// O envio real fica com o serviço que consome o subject.
type NATSSMSSender struct {
	publisher Publisher
	subject   string
}

// ConnectNATS abre a conexão com o servidor NATS
func ConnectNATS(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name("instagram-api"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return conn, nil
}

// NewNATSSMSSender cria um NATSSMSSender
func NewNATSSMSSender(publisher Publisher, subject string) *NATSSMSSender {
	return &NATSSMSSender{publisher: publisher, subject: subject}
}

func (s *NATSSMSSender) SendMessage(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(SMSRequest{To: to, Subject: subject, Body: body})
	if err != nil {
		return fmt.Errorf("failed to encode sms request: %w", err)
	}
	if err := s.publisher.Publish(s.subject, data); err != nil {
		return fmt.Errorf("failed to publish sms request: %w", err)
	}
	return nil
}
