package ports

import (
	"context"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
)

// Destination é o endereço de entrega de uma notificação
type Destination struct {
	Channel entities.AuthType
	Address string
}

// Notifier entrega mensagens de forma assíncrona e best-effort.
// Send nunca bloqueia o chamador e não reporta falhas de entrega.
type Notifier interface {
	Send(dest Destination, subject, htmlBody string)
}

// MessageSender faz a entrega síncrona em um canal específico
type MessageSender interface {
	SendMessage(ctx context.Context, to, subject, htmlBody string) error
}

// MessageRenderer monta o assunto e o corpo HTML de um código de verificação
type MessageRenderer interface {
	RenderVerificationCode(code string, channel entities.AuthType) (subject, htmlBody string, err error)
}
