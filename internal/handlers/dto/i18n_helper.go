package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/i18n"
)

const (
	// LanguageContextKey é a chave usada para armazenar o idioma no contexto do Gin
	LanguageContextKey = "language"
	// I18nServiceContextKey é a chave usada para armazenar o serviço i18n no contexto
	I18nServiceContextKey = "i18n_service"
)

// T traduz key no idioma da requisição.
// Uso: dto.T(c, "validation.min", map[string]any{"Field": "password", "Param": "8"})
func T(c *gin.Context, key string, params ...map[string]any) string {
	value, exists := c.Get(I18nServiceContextKey)
	if !exists {
		return key
	}

	service, ok := value.(*i18n.Service)
	if !ok {
		return key
	}

	return service.T(GetLanguage(c), key, params...)
}

// GetLanguage retorna o idioma configurado no contexto da requisição
func GetLanguage(c *gin.Context) string {
	lang, ok := c.Get(LanguageContextKey)
	if !ok {
		return "en"
	}

	langStr, ok := lang.(string)
	if !ok {
		return "en"
	}
	return langStr
}
