package authController

import (
	"context"
	"kaudio/internal/models"
	"kaudio/internal/services"
)

// AuthController handles registration and password login.
type AuthController struct {
	authService *services.AuthService
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresIn int                `json:"expiresIn"`
	User      models.UserProfile `json:"user"`
}

type AuthControllerInterface interface {
	Register(ctx context.Context, request *RegisterRequest) (*LoginResponse, error)
	Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
}

func New(services services.Service) AuthControllerInterface {
	return &AuthController{authService: services.Auth}
}

// Register creates the account and logs it in straight away.
func (ac *AuthController) Register(ctx context.Context, request *RegisterRequest) (*LoginResponse, error) {
	user, err := ac.authService.Register(ctx, request.Username, request.Password, request.Email)
	if err != nil {
		return nil, err
	}

	token, err := ac.authService.IssueToken(user)
	if err != nil {
		return nil, err
	}

	return newLoginResponse(token, user), nil
}

func (ac *AuthController) Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error) {
	token, user, err := ac.authService.Login(ctx, request.Username, request.Password)
	if err != nil {
		return nil, err
	}

	return newLoginResponse(token, user), nil
}

func newLoginResponse(token string, user *models.User) *LoginResponse {
	return &LoginResponse{
		Token:     token,
		ExpiresIn: int(services.TOKEN_EXPIRY.Seconds()),
		User:      user.ToProfile(),
	}
}

func (ac *AuthController) Logout(ctx context.Context, token string) error {
	return ac.authService.Logout(ctx, token)
}
