package httpapi

import (
	"errors"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mashfooq/be-news-aggregator/internal/domain"
)

const minPasswordLen = 6

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if err := validatePassword(req.Password, req.PasswordConfirmation); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user, err := s.users.CreateUser(c.Request().Context(), req.Name, req.Email, string(hash))
	if errors.Is(err, domain.ErrDuplicate) {
		return echo.NewHTTPError(http.StatusConflict, "email already exists")
	}
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"token": token,
		"user":  userResponse{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

func (s *Server) login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := s.users.UserByEmail(c.Request().Context(), req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user":  userResponse{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

func (s *Server) logout(c echo.Context) error {
	if err := s.tokens.Revoke(c.Request().Context(), bearerToken(c.Request())); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *Server) passwordReset(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validatePassword(req.Password, req.PasswordConfirmation); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = s.users.UpdatePassword(c.Request().Context(), req.Email, string(hash))
	if errors.Is(err, domain.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

func validatePassword(password, confirmation string) error {
	if len(password) < minPasswordLen {
		return echo.NewHTTPError(http.StatusBadRequest, "password too short")
	}
	if password != confirmation {
		return echo.NewHTTPError(http.StatusBadRequest, "password confirmation does not match")
	}
	return nil
}
