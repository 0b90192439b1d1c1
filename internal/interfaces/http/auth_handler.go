package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mercamax/mercamax-api/internal/application/auth"
	"github.com/mercamax/mercamax-api/internal/application/dto"
)

// AuthHandler maneja login, 2FA, invitaciones y recuperación de contraseña.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión (primer factor)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password, rol, device_token opcional"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Email == "" || in.Password == "" || in.Rol == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email, password y rol son requeridos"})
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Verify2FA godoc
// @Summary      Verificar el código 2FA (segundo factor)
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.Verify2FARequest  true  "code, rememberDevice"
// @Success      200   {object}  dto.Verify2FAResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/verify-2fa [post]
func (h *AuthHandler) Verify2FA(c *fiber.Ctx) error {
	var in dto.Verify2FARequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code es requerido"})
	}
	out, err := h.uc.Verify2FA(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Invite godoc
// @Summary      Invitar a un usuario nuevo (solo gerente)
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InviteUserRequest  true  "email, first_name, rol"
// @Success      201   {object}  dto.UserResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/invite [post]
func (h *AuthHandler) Invite(c *fiber.Ctx) error {
	var in dto.InviteUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Invite(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Activate godoc
// @Summary      Activar cuenta desde el enlace del correo
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ActivateAccountRequest  true  "uid, token, password1, password2"
// @Success      200   {object}  dto.DetailResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/activate [post]
func (h *AuthHandler) Activate(c *fiber.Ctx) error {
	var in dto.ActivateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.Activate(c.UserContext(), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.DetailResponse{Detail: "cuenta activada"})
}

// ValidateToken godoc
// @Summary      Validar un enlace de activación o reset sin consumirlo
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateTokenRequest  true  "uid, token"
// @Success      200   {object}  dto.ValidateTokenResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/validate-token [post]
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var in dto.ValidateTokenRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ValidateToken(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// RequestPasswordReset godoc
// @Summary      Solicitar el correo de restablecimiento de contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PasswordResetRequest  true  "email"
// @Success      200   {object}  dto.DetailResponse
// @Router       /api/auth/password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var in dto.PasswordResetRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.RequestPasswordReset(c.UserContext(), in.Email); err != nil {
		return fail(c, err)
	}
	// Respuesta idéntica exista o no el email: no revelamos cuentas.
	return c.JSON(dto.DetailResponse{Detail: "si el correo existe, se envió el enlace"})
}

// ConfirmPasswordReset godoc
// @Summary      Confirmar el restablecimiento con el token del correo
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PasswordResetConfirmRequest  true  "uid, token, new_password1, new_password2"
// @Success      200   {object}  dto.DetailResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/password-reset/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var in dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.ConfirmPasswordReset(c.UserContext(), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.DetailResponse{Detail: "contraseña restablecida"})
}

// Me godoc
// @Summary      Usuario autenticado actual
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Roles godoc
// @Summary      Roles disponibles con su etiqueta
// @Tags         auth
// @Produce      json
// @Success      200  {array}  dto.RolResponse
// @Router       /api/auth/roles [get]
func (h *AuthHandler) Roles(c *fiber.Ctx) error {
	return c.JSON(h.uc.Roles())
}
