package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RahimovIlhom/instagram-clone/internal/handlers/dto"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/i18n"
)

// I18nMiddleware gerencia a detecção de idioma nas requisições
type I18nMiddleware struct {
	i18nService *i18n.Service
}

// NewI18nMiddleware cria um novo middleware de i18n
func NewI18nMiddleware(i18nService *i18n.Service) *I18nMiddleware {
	return &I18nMiddleware{
		i18nService: i18nService,
	}
}

// DetectLanguage detecta e configura o idioma da requisição
// Prioridade:
// 1. Query parameter ?lang=uz (override explícito)
// 2. Accept-Language header
// 3. Idioma padrão (fallback)
func (m *I18nMiddleware) DetectLanguage() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string

		if queryLang := c.Query("lang"); queryLang != "" && m.i18nService.IsLanguageSupported(queryLang) {
			lang = queryLang
		}

		if lang == "" {
			lang = m.parseAcceptLanguage(c.GetHeader("Accept-Language"))
		}

		if lang == "" {
			lang = m.i18nService.GetDefaultLanguage()
		}

		c.Set(dto.LanguageContextKey, lang)
		c.Set(dto.I18nServiceContextKey, m.i18nService)

		c.Next()
	}
}

// parseAcceptLanguage devolve o primeiro idioma suportado do header.
// Exemplo: "uz-UZ,uz;q=0.9,en;q=0.8" -> "uz"
func (m *I18nMiddleware) parseAcceptLanguage(acceptLang string) string {
	if acceptLang == "" {
		return ""
	}

	for _, lang := range strings.Split(acceptLang, ",") {
		lang = strings.TrimSpace(lang)
		if idx := strings.Index(lang, ";"); idx != -1 {
			lang = lang[:idx]
		}

		if m.i18nService.IsLanguageSupported(lang) {
			return lang
		}

		// uz-UZ -> uz
		if idx := strings.Index(lang, "-"); idx != -1 {
			if base := lang[:idx]; m.i18nService.IsLanguageSupported(base) {
				return base
			}
		}
	}

	return ""
}
