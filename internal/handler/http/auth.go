package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-portal-go/internal/router"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	VerifyEmail(w http.ResponseWriter, r *http.Request)
	ResendCode(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{authService: authService}
}

// Register implements AuthHandler.
func (a *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq auth.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		slog.Error("Register decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := a.authService.Register(r.Context(), currentSession(r), registerReq)
	if err != nil {
		slog.Error("Register service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SetNext(w, resp.Next)
	response.Notifier(w).Notify("Account created. Check your email for the verification code.", router.SeveritySuccess)
	response.Created(w, "Registration successful", resp)
}

// VerifyEmail implements AuthHandler.
func (a *AuthHandlerImpl) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var verifyReq auth.VerifyEmailRequest

	if err := json.NewDecoder(r.Body).Decode(&verifyReq); err != nil {
		slog.Error("VerifyEmail decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := a.authService.VerifyEmail(r.Context(), currentSession(r), verifyReq)
	if err != nil {
		slog.Error("VerifyEmail service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SetNext(w, resp.Next)
	response.Notifier(w).Notify("Email verified! You can now log in.", router.SeveritySuccess)
	response.SuccessWithMessage(w, "Email verified", resp)
}

// ResendCode implements AuthHandler.
func (a *AuthHandlerImpl) ResendCode(w http.ResponseWriter, r *http.Request) {
	resp, err := a.authService.ResendCode(r.Context(), currentSession(r))
	if err != nil {
		slog.Error("ResendCode service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SetNext(w, resp.Next)
	response.Notifier(w).Notify("A new code has been sent.", router.SeverityInfo)
	response.SuccessWithMessage(w, "Verification code sent", resp)
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := a.authService.Login(r.Context(), currentSession(r), loginReq)
	if err != nil {
		slog.Error("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SetNext(w, resp.Next)
	if resp.Next == router.VerifyEmail {
		response.Notifier(w).Notify("Please verify your email before logging in.", router.SeverityWarning)
		response.SuccessWithMessage(w, "Email not verified", resp)
		return
	}
	response.SuccessWithMessage(w, "Login successful", resp)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	resp, err := a.authService.Logout(r.Context(), currentSession(r))
	if err != nil {
		slog.Error("Logout service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SetNext(w, resp.Next)
	response.SuccessWithMessage(w, "Logged out", resp)
}
