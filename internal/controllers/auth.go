package controllers

import (
	"context"
	"fmt"
	"strings"

	"github.com/amaumene/listahan/internal/utils"
	"github.com/sirupsen/logrus"
)

const minPasswordLength = 6

var (
	ErrMissingCredentials = &utils.ValidationError{Field: "userId", Message: "User ID and password are required"}
	ErrMissingFields      = &utils.ValidationError{Field: "password", Message: "All fields are required"}
	ErrPasswordTooShort   = &utils.ValidationError{Field: "newPassword", Message: "New password must be at least 6 characters"}
	ErrPasswordMismatch   = &utils.ValidationError{Field: "confirmPassword", Message: "New passwords do not match"}
)

// AccountService is the remote side of account management
type AccountService interface {
	Register(ctx context.Context, userID, password string) error
	Login(ctx context.Context, userID, password string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// SessionStore remembers the signed-in user between runs
type SessionStore interface {
	SaveSession(userID string) error
	CurrentUser() (string, error)
	ClearSession() error
	DeleteEntries(userID string) error
}

// AuthController handles account and session operations
type AuthController struct {
	accounts AccountService
	sessions SessionStore
	logger   *logrus.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(accounts AccountService, sessions SessionStore, logger *logrus.Logger) *AuthController {
	return &AuthController{
		accounts: accounts,
		sessions: sessions,
		logger:   logger,
	}
}

// Register creates an account. It does not sign the user in.
func (c *AuthController) Register(ctx context.Context, userID, password string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" || password == "" {
		return ErrMissingCredentials
	}

	if err := c.accounts.Register(ctx, userID, password); err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Error("Registration failed")
		return err
	}

	c.logger.WithField("user_id", userID).Info("Account registered")
	return nil
}

// Login verifies credentials and persists the session on success
func (c *AuthController) Login(ctx context.Context, userID, password string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" || password == "" {
		return ErrMissingCredentials
	}

	if err := c.accounts.Login(ctx, userID, password); err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("Login failed")
		return err
	}

	if err := c.sessions.SaveSession(userID); err != nil {
		return err
	}

	c.logger.WithField("user_id", userID).Info("Logged in")
	return nil
}

// Logout forgets the signed-in user. Cached records stay on disk unless
// purge is set.
func (c *AuthController) Logout(purge bool) error {
	userID, err := c.sessions.CurrentUser()
	if err != nil {
		return err
	}
	if err := c.sessions.ClearSession(); err != nil {
		return err
	}
	if userID == "" {
		return nil
	}

	if purge {
		if err := c.sessions.DeleteEntries(userID); err != nil {
			return fmt.Errorf("failed to purge local cache: %w", err)
		}
	}

	c.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"purged":  purge,
	}).Info("Logged out")
	return nil
}

// CurrentUser returns the signed-in user, or "" when there is none
func (c *AuthController) CurrentUser() (string, error) {
	return c.sessions.CurrentUser()
}

// ChangePassword validates the form and asks the remote store to swap the
// signed-in user's password
func (c *AuthController) ChangePassword(ctx context.Context, currentPassword, newPassword, confirmPassword string) error {
	if currentPassword == "" || newPassword == "" || confirmPassword == "" {
		return ErrMissingFields
	}
	if len([]rune(newPassword)) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	userID, err := c.sessions.CurrentUser()
	if err != nil {
		return err
	}
	if userID == "" {
		return ErrNoUser
	}

	if err := c.accounts.ChangePassword(ctx, userID, currentPassword, newPassword); err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Error("Password change failed")
		return err
	}

	c.logger.WithField("user_id", userID).Info("Password changed")
	return nil
}
