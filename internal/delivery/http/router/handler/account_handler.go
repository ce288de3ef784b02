package handler

import (
	"net/http"
	"time"

	deliverycontext "userhub/internal/delivery/context"
	"userhub/internal/delivery/http/response"
	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

const tokenTypeBearer = "Bearer"

// --- Request DTOs ---

// Pointer fields let the validator tell an absent key from an empty string:
// absent keys fail `required`, empty strings reach the domain rules.

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Username  *string `json:"username" validate:"required"`
	Email     *string `json:"email" validate:"required"`
	Password  *string `json:"password" validate:"required"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username *string `json:"username" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the body of PUT /profile. A JSON null counts as absent.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// ChangePasswordRequest is the body of POST /change-password.
type ChangePasswordRequest struct {
	CurrentPassword *string `json:"current_password" validate:"required"`
	NewPassword     *string `json:"new_password" validate:"required"`
}

// --- Response DTOs ---

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Message     string    `json:"message"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AccountResponse is the public view of an account. Names absent from the
// record are emitted as null.
type AccountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newAccountResponse(account *entity.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID.String(),
		Username:  account.Username,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC usecase.AccountUsecase
}

// NewAccountHandler is the constructor for AccountHandler.
func NewAccountHandler(accountUC usecase.AccountUsecase) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Register handles new account registration.
func (h *AccountHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.accountUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Username:  *req.Username,
		Email:     *req.Email,
		Password:  *req.Password,
		FirstName: entity.FromPtr(req.FirstName),
		LastName:  entity.FromPtr(req.LastName),
	})
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusCreated, RegisterResponse{
		Message: "User registered successfully",
		UserID:  output.AccountID.String(),
	})
}

// Login handles credential exchange for a bearer token.
func (h *AccountHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.accountUC.Login(c.Request().Context(), &usecase.LoginInput{
		Username: *req.Username,
		Password: *req.Password,
	})
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, LoginResponse{
		Message:     "Login successful",
		AccessToken: output.AccessToken,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   output.ExpiresAt.UTC(),
	})
}

// GetProfile returns the authenticated account.
func (h *AccountHandler) GetProfile(c echo.Context) error {
	accountID, err := authenticatedAccount(c)
	if err != nil {
		return err
	}

	account, err := h.accountUC.GetProfile(c.Request().Context(), accountID)
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, newAccountResponse(account))
}

// UpdateProfile applies a partial update of the name attributes.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	accountID, err := authenticatedAccount(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accountUC.UpdateProfile(c.Request().Context(), accountID, entity.ProfileUpdate{
		FirstName: entity.FromPtr(req.FirstName),
		LastName:  entity.FromPtr(req.LastName),
	})
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, newAccountResponse(account))
}

// ChangePassword rotates the password after re-checking the current one.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	accountID, err := authenticatedAccount(c)
	if err != nil {
		return err
	}

	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accountUC.ChangePassword(c.Request().Context(), accountID, &usecase.ChangePasswordInput{
		CurrentPassword: *req.CurrentPassword,
		NewPassword:     *req.NewPassword,
	}); err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Password changed successfully")
}

// Logout acknowledges the request. Tokens are stateless, so the client
// discards its token and it lapses at expiry.
func (h *AccountHandler) Logout(c echo.Context) error {
	if _, err := authenticatedAccount(c); err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Successfully logged out")
}

func authenticatedAccount(c echo.Context) (entity.AccountID, error) {
	accountID, ok := deliverycontext.GetAccountID(c)
	if !ok {
		return entity.NilAccountID, domainerrors.ErrMissingToken
	}

	return accountID, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.NewValidationError(entity.RuleMalformedBody, "Invalid request body")
	}

	return c.Validate(req)
}
