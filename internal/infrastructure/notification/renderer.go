package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
)

//go:embed templates/*.html
var templatesFS embed.FS

const verificationSubject = "Ro'yxatdan o'tish"

// TemplateRenderer implementa ports.MessageRenderer
type TemplateRenderer struct {
	activate *template.Template
}

// NewTemplateRenderer carrega os templates embutidos
func NewTemplateRenderer() (*TemplateRenderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/account_activate.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &TemplateRenderer{activate: tmpl}, nil
}

func (r *TemplateRenderer) RenderVerificationCode(code string, channel entities.AuthType) (string, string, error) {
	// SMS vai em texto puro
	if channel == entities.AuthTypePhone {
		return verificationSubject, fmt.Sprintf("Tasdiqlash kodingiz: %s", code), nil
	}

	var buf bytes.Buffer
	if err := r.activate.Execute(&buf, map[string]string{"Code": code}); err != nil {
		return "", "", fmt.Errorf("failed to render verification email: %w", err)
	}
	return verificationSubject, buf.String(), nil
}
