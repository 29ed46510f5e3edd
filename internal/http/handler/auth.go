package handler

import (
	"github.com/gofiber/fiber/v2"

	"vaultapi/internal/service"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type requestOtpRequest struct {
	Account string `json:"account"`
}

type verifyOtpRequest struct {
	Username string `json:"username"`
	Code     string `json:"code"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates a new account. The account stays disabled until its email
// address is confirmed through the passcode flow.
func Register(userSvc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		u, err := userSvc.Register(c.UserContext(), req.Username, req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// Login exchanges credentials for a session token.
func Login(userSvc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		token, err := userSvc.Login(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tokenResponse{Token: token})
	}
}

// RequestOtp resolves the account by username or email and dispatches a fresh
// passcode to its registered address.
func RequestOtp(userSvc service.UserService, otpSvc service.OtpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req requestOtpRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		u, err := userSvc.ResolveAccount(c.UserContext(), req.Account)
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := otpSvc.Issue(c.UserContext(), u.Username, u.Email); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"status": "sent"})
	}
}

// VerifyOtp consumes the account's active passcode. On success the account is
// enabled and a session token is returned; a wrong, expired, or already-used
// code is a 400.
func VerifyOtp(userSvc service.UserService, otpSvc service.OtpService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req verifyOtpRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		ok, err := otpSvc.Verify(c.UserContext(), req.Username, req.Code)
		if err != nil {
			return writeServiceError(c, err)
		}
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_CODE", "invalid or expired code")
		}

		token, err := userSvc.Activate(c.UserContext(), req.Username)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tokenResponse{Token: token})
	}
}
