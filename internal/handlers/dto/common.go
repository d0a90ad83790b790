package dto

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/moogar0880/problems"

	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
)

// BaseURLContextKey guarda a URL base usada nos tipos RFC 7807
const BaseURLContextKey = "base_url"

// ErrorResponse segue RFC 7807 (Problem Details for HTTP APIs)
type ErrorResponse struct {
	problems.DefaultProblem
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// ValidationError representa um erro de validação de campo
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

// MessageResponse é a resposta padrão de sucesso sem dados
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewMessageResponse traduz messageKey para o idioma da requisição
func NewMessageResponse(c *gin.Context, messageKey string) MessageResponse {
	return MessageResponse{Success: true, Message: T(c, messageKey)}
}

// NewErrorResponseI18n cria uma resposta de erro usando i18n
func NewErrorResponseI18n(c *gin.Context, problemType, titleKey, messageKey string, status int, params ...map[string]any) ErrorResponse {
	baseURL := c.GetString(BaseURLContextKey)
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	message := T(c, messageKey, params...)
	return ErrorResponse{
		DefaultProblem: problems.DefaultProblem{
			Type:     strings.TrimSuffix(baseURL, "/") + problemType,
			Title:    T(c, titleKey),
			Status:   status,
			Detail:   message,
			Instance: c.Request.URL.Path,
		},
		Success: false,
		Message: message,
	}
}

// kindStatus mapeia o Kind do erro de domínio para status HTTP e chave de título
func kindStatus(kind domainerrors.Kind) (int, string) {
	switch kind {
	case domainerrors.KindValidation:
		return http.StatusBadRequest, "error.validation.title"
	case domainerrors.KindNotFound:
		return http.StatusNotFound, "error.not_found.title"
	case domainerrors.KindStateConflict:
		return http.StatusConflict, "error.state_conflict.title"
	case domainerrors.KindUnauthorized:
		return http.StatusUnauthorized, "error.unauthorized.title"
	case domainerrors.KindForbidden:
		return http.StatusForbidden, "error.forbidden.title"
	default:
		return http.StatusInternalServerError, "error.internal.title"
	}
}

// WriteError converte err em uma resposta RFC 7807 e aborta a requisição.
// Erros que não são de domínio viram 500 sem expor detalhes.
func WriteError(c *gin.Context, err error) {
	var de *domainerrors.DomainError
	if !errors.As(err, &de) {
		_ = c.Error(err)
		abortWith(c, NewErrorResponseI18n(c,
			domainerrors.ProblemTypeInternal,
			"error.internal.title",
			"error.internal.detail",
			http.StatusInternalServerError,
		))
		return
	}

	status, titleKey := kindStatus(de.Kind)
	abortWith(c, NewErrorResponseI18n(c, de.Type, titleKey, de.Message, status))
}

// WriteBindingError responde 400 para corpo/formulário inválido,
// detalhando os campos quando o erro vem do validator.
func WriteBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		abortWith(c, NewErrorResponseI18n(c,
			domainerrors.ProblemTypeBadRequest,
			"error.bad_request.title",
			"error.bad_request.detail",
			http.StatusBadRequest,
		))
		return
	}

	response := NewErrorResponseI18n(c,
		domainerrors.ProblemTypeValidation,
		"error.validation.title",
		"error.validation.detail",
		http.StatusBadRequest,
	)
	response.Errors = make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		response.Errors = append(response.Errors, ValidationError{
			Field:   fe.Field(),
			Message: validationMessage(c, fe),
			Tag:     fe.Tag(),
		})
	}
	if len(response.Errors) > 0 {
		response.Message = response.Errors[0].Message
	}
	abortWith(c, response)
}

func validationMessage(c *gin.Context, fe validator.FieldError) string {
	params := map[string]any{"Field": fe.Field(), "Param": fe.Param()}

	switch fe.Tag() {
	case "required", "min", "max", "len", "numeric", "eqfield":
		return T(c, "validation."+fe.Tag(), params)
	case TagEmailOrPhone:
		return T(c, "error.invalid_email_or_phone")
	case TagUserInput:
		return T(c, "error.invalid_user_input")
	default:
		return T(c, "validation.invalid", params)
	}
}

func abortWith(c *gin.Context, response ErrorResponse) {
	c.Header("Content-Type", problems.ProblemMediaType)
	c.AbortWithStatusJSON(response.Status, response)
}
