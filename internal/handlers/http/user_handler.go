package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/handlers/dto"
	"github.com/RahimovIlhom/instagram-clone/internal/handlers/middleware"
	"github.com/RahimovIlhom/instagram-clone/internal/services"
)

// UserHandler lida com cadastro, login, verificação e perfil
type UserHandler struct {
	userService         *services.UserService
	authService         *services.AuthService
	verificationService *services.VerificationService
	maxUploadBytes      int64
}

// NewUserHandler cria um novo UserHandler
func NewUserHandler(
	userService *services.UserService,
	authService *services.AuthService,
	verificationService *services.VerificationService,
	maxUploadBytes int64,
) *UserHandler {
	return &UserHandler{
		userService:         userService,
		authService:         authService,
		verificationService: verificationService,
		maxUploadBytes:      maxUploadBytes,
	}
}

// SignUp godoc
// @Summary      Cadastro por email ou telefone
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body dto.SignUpRequest true "Email ou telefone"
// @Success      201 {object} dto.SignUpResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /users/signup [post]
func (h *UserHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.WriteBindingError(c, err)
		return
	}

	result, err := h.authService.SignUp(c.Request.Context(), req.EmailOrPhone)
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SignUpResponse{
		Success:    true,
		Message:    dto.T(c, "message.signup_success"),
		ID:         result.User.ID,
		AuthType:   string(result.User.AuthType),
		AuthStatus: string(result.User.AuthStatus),
		Access:     result.Tokens.Access,
		Refresh:    result.Tokens.Refresh,
	})
}

// Login godoc
// @Summary      Login por email, telefone ou username
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Credenciais"
// @Success      200 {object} dto.LoginResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.WriteBindingError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.UserInput, req.Password)
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Success:    true,
		Message:    dto.T(c, "message.login_success"),
		UserRole:   string(result.User.Role),
		FullName:   result.User.FullName(),
		AuthStatus: string(result.User.AuthStatus),
		Access:     result.Tokens.Access,
		Refresh:    result.Tokens.Refresh,
	})
}

// Refresh godoc
// @Summary      Novo access token a partir do refresh token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshRequest true "Refresh token"
// @Success      200 {object} dto.AccessResponse
// @Failure      401 {object} dto.ErrorResponse
// @Router       /users/login/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.WriteBindingError(c, err)
		return
	}

	access, err := h.authService.RefreshToken(c.Request.Context(), req.Refresh)
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AccessResponse{Success: true, Access: access})
}

// Logout godoc
// @Summary      Revoga o refresh token
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RefreshRequest true "Refresh token"
// @Success      205 {object} dto.MessageResponse
// @Failure      401 {object} dto.ErrorResponse
// @Router       /users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.WriteBindingError(c, err)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.Refresh); err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusResetContent, dto.NewMessageResponse(c, "message.logout_success"))
}

// ForgotPassword godoc
// @Summary      Envia um código para recuperar a senha
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body dto.ForgotPasswordRequest true "Email ou telefone"
// @Success      200 {object} dto.TokenResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /users/forgot-password [post]
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.WriteBindingError(c, err)
		return
	}

	result, err := h.authService.ForgotPassword(c.Request.Context(), req.EmailOrPhone)
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse(c, "message.code_sent", result.User, result.Tokens))
}

// ResetPassword godoc
// @Summary      Define uma nova senha
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ResetPasswordRequest true "Nova senha"
// @Success      200 {object} dto.TokenResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /users/reset-password [put]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.WriteBindingError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	result, err := h.authService.ResetPassword(c.Request.Context(), user.ID, req.Password, req.ConfirmPassword)
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse(c, "message.password_reset", result.User, result.Tokens))
}

// RequestCode godoc
// @Summary      Reenvia o código de verificação
// @Tags         verification
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.TokenResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /users/verify [get]
func (h *UserHandler) RequestCode(c *gin.Context) {
	ctx := c.Request.Context()
	result, err := h.verificationService.RequestCode(ctx, middleware.CurrentUser(c).ID, "")
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	tokens, err := h.authService.IssueTokens(ctx, result.User)
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse(c, "message.code_sent", result.User, tokens))
}

// ConfirmCode godoc
// @Summary      Confirma o código de verificação
// @Tags         verification
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.VerifyRequest true "Código"
// @Success      200 {object} dto.TokenResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /users/verify [post]
func (h *UserHandler) ConfirmCode(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.WriteBindingError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.verificationService.ConfirmCode(ctx, middleware.CurrentUser(c).ID, req.Code)
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	tokens, err := h.authService.IssueTokens(ctx, user)
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse(c, "message.code_verified", user, tokens))
}

// UpdateProfile godoc
// @Summary      Completa o perfil (nome, username e senha)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateProfileRequest true "Perfil"
// @Success      200 {object} dto.UserEnvelope
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /users/user-update [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.WriteBindingError(c, err)
		return
	}

	user, err := h.verificationService.CompleteProfile(c.Request.Context(), middleware.CurrentUser(c).ID, req.ToProfileInput())
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserEnvelope{
		Success: true,
		Message: dto.T(c, "message.profile_updated"),
		User:    dto.ToUserResponse(user),
	})
}

// UpdatePhoto godoc
// @Summary      Envia a foto de perfil
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        photo formData file true "Foto (jpg, jpeg, png, heic, heif)"
// @Success      200 {object} dto.UserEnvelope
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /users/user-photo-update [put]
func (h *UserHandler) UpdatePhoto(c *gin.Context) {
	photo, closer, err := openUpload(c, "photo", h.maxUploadBytes)
	if err != nil {
		dto.WriteError(c, err)
		return
	}
	defer closer.Close() //nolint:errcheck

	user, err := h.verificationService.AttachPhoto(c.Request.Context(), middleware.CurrentUser(c).ID, photo)
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserEnvelope{
		Success: true,
		Message: dto.T(c, "message.photo_updated"),
		User:    dto.ToUserResponse(user),
	})
}

// Me godoc
// @Summary      Perfil do usuário autenticado
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.UserEnvelope
// @Failure      401 {object} dto.ErrorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, dto.UserEnvelope{
		Success: true,
		User:    dto.ToUserResponse(middleware.CurrentUser(c)),
	})
}

// GetUser godoc
// @Summary      Busca um usuário por ID
// @Tags         users
// @Produce      json
// @Param        id path string true "ID do usuário"
// @Success      200 {object} dto.UserEnvelope
// @Failure      404 {object} dto.ErrorResponse
// @Router       /users/profile/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserEnvelope{Success: true, User: dto.ToUserResponse(user)})
}

// DeleteUser godoc
// @Summary      Remove a conta e todo o seu conteúdo
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID do usuário"
// @Success      200 {object} dto.MessageResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /users/profile/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse(c, "message.user_deleted"))
}

func tokenResponse(c *gin.Context, messageKey string, user *entities.User, tokens ports.TokenPair) dto.TokenResponse {
	return dto.TokenResponse{
		Success:    true,
		Message:    dto.T(c, messageKey),
		AuthType:   string(user.AuthType),
		AuthStatus: string(user.AuthStatus),
		Access:     tokens.Access,
		Refresh:    tokens.Refresh,
	}
}
