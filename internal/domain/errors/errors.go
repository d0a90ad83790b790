package errors

import "errors"

// Kind classifica um erro de domínio para o mapeamento em status HTTP
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindStateConflict
	KindUnauthorized
	KindForbidden
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base virá de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation    = "/problems/validation-error"
	ProblemTypeNotFound      = "/problems/not-found"
	ProblemTypeConflict      = "/problems/conflict"
	ProblemTypeStateConflict = "/problems/state-conflict"
	ProblemTypeUnauthorized  = "/problems/unauthorized"
	ProblemTypeForbidden     = "/problems/forbidden"
	ProblemTypeInternal      = "/problems/internal-error"
	ProblemTypeBadRequest    = "/problems/bad-request"
)

// DomainError representa um erro de domínio com contexto adicional.
// Message é o message ID usado pelo i18n.
type DomainError struct {
	Kind    Kind
	Type    string
	Title   string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, problemType, message string) *DomainError {
	return &DomainError{Kind: kind, Type: problemType, Message: message}
}

// Business errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrUserNotFound         = newError(KindNotFound, ProblemTypeNotFound, "error.user_not_found")
	ErrEmailAlreadyExists   = newError(KindValidation, ProblemTypeConflict, "error.email_already_exists")
	ErrPhoneAlreadyExists   = newError(KindValidation, ProblemTypeConflict, "error.phone_already_exists")
	ErrUsernameTaken        = newError(KindValidation, ProblemTypeConflict, "error.username_taken")
	ErrInvalidCredentials   = newError(KindValidation, ProblemTypeValidation, "error.invalid_credentials")
	ErrInvalidEmailOrPhone  = newError(KindValidation, ProblemTypeValidation, "error.invalid_email_or_phone")
	ErrInvalidUserInput     = newError(KindValidation, ProblemTypeValidation, "error.invalid_user_input")
	ErrUnauthorized         = newError(KindUnauthorized, ProblemTypeUnauthorized, "error.unauthorized")
	ErrForbidden            = newError(KindForbidden, ProblemTypeForbidden, "error.forbidden")
	ErrInvalidToken         = newError(KindUnauthorized, ProblemTypeUnauthorized, "error.invalid_token")
	ErrTokenRevoked         = newError(KindUnauthorized, ProblemTypeUnauthorized, "error.token_revoked")
	ErrPasswordMismatch     = newError(KindValidation, ProblemTypeValidation, "error.password_mismatch")
	ErrPasswordPolicy       = newError(KindValidation, ProblemTypeValidation, "error.password_policy")
	ErrPasswordRequired     = newError(KindValidation, ProblemTypeValidation, "error.password_required")
	ErrUnsupportedAuthType  = newError(KindValidation, ProblemTypeValidation, "error.unsupported_auth_type")
	ErrUnsupportedImageType = newError(KindValidation, ProblemTypeValidation, "error.unsupported_image_type")
)

// Verification errors
var (
	ErrCodeAlreadyPending     = newError(KindStateConflict, ProblemTypeStateConflict, "error.code_already_pending")
	ErrInvalidOrExpiredCode   = newError(KindValidation, ProblemTypeValidation, "error.invalid_or_expired_code")
	ErrProfileIncompleteState = newError(KindStateConflict, ProblemTypeStateConflict, "error.profile_incomplete_state")
	ErrPhotoStepNotAllowed    = newError(KindStateConflict, ProblemTypeStateConflict, "error.photo_step_not_allowed")
)

// Domain errors
var (
	ErrInvalidEmail       = newError(KindValidation, ProblemTypeValidation, "error.invalid_email")
	ErrInvalidPhone       = newError(KindValidation, ProblemTypeValidation, "error.invalid_phone")
	ErrUsernameLength     = newError(KindValidation, ProblemTypeValidation, "error.username_length")
	ErrUsernameNumeric    = newError(KindValidation, ProblemTypeValidation, "error.username_numeric")
	ErrPostNotFound       = newError(KindNotFound, ProblemTypeNotFound, "error.post_not_found")
	ErrCommentNotFound    = newError(KindNotFound, ProblemTypeNotFound, "error.comment_not_found")
	ErrCaptionTooLong     = newError(KindValidation, ProblemTypeValidation, "error.caption_too_long")
	ErrCommentTooLong     = newError(KindValidation, ProblemTypeValidation, "error.comment_too_long")
	ErrCommentEmpty       = newError(KindValidation, ProblemTypeValidation, "error.comment_empty")
	ErrParentPostMismatch = newError(KindValidation, ProblemTypeValidation, "error.parent_post_mismatch")
	ErrImageRequired      = newError(KindValidation, ProblemTypeValidation, "error.image_required")
	ErrCollectionConflict = newError(KindStateConflict, ProblemTypeConflict, "error.collection_conflict")
)

// KindOf devolve o Kind do primeiro DomainError na cadeia, ou KindInternal
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Wrap anexa uma causa a um erro de domínio preservando errors.Is
func Wrap(base *DomainError, cause error) error {
	return &wrapped{base: base, cause: cause}
}

type wrapped struct {
	base  *DomainError
	cause error
}

func (w *wrapped) Error() string {
	return w.base.Message + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() []error {
	return []error{w.base, w.cause}
}
