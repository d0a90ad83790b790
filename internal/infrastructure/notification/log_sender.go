package notification

import (
	"context"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
)

// LogSender apenas registra a mensagem. Usado quando o canal não está configurado.
type LogSender struct {
	channel string
	logger  ports.Logger
}

// NewLogSender cria um LogSender para o canal informado
func NewLogSender(channel string, logger ports.Logger) *LogSender {
	return &LogSender{channel: channel, logger: logger}
}

func (s *LogSender) SendMessage(_ context.Context, to, subject, _ string) error {
	s.logger.Info("Notification not sent, channel not configured", "channel", s.channel, "to", to, "subject", subject)
	return nil
}
