package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
	"github.com/keingkrai/process-tax-ocr/internal/domain/repository"
	"github.com/keingkrai/process-tax-ocr/pkg/apperror"
	"github.com/keingkrai/process-tax-ocr/pkg/oauth"
	"github.com/keingkrai/process-tax-ocr/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	employeeRepo repository.EmployeeRepository
	jwtManager   *utils.JWTManager
	googleOAuth  *oauth.GoogleOAuthService
}

// NewAuthService creates a new auth service
func NewAuthService(
	employeeRepo repository.EmployeeRepository,
	jwtManager *utils.JWTManager,
	googleOAuth *oauth.GoogleOAuthService,
) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
		jwtManager:   jwtManager,
		googleOAuth:  googleOAuth,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Employee     *entity.Employee
	AccessToken  string
	RefreshToken string
}

// Login authenticates an employee and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	employee, err := s.employeeRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, employee.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(employee)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new employee account. Name must be the legal name as it
// appears on tax invoices; the deduction check compares buyers against it.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.Employee, error) {
	existing, err := s.employeeRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	employee := &entity.Employee{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     "member",
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}

	return employee, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	employeeID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperror.ErrNotFound
	}

	return s.issueTokens(employee)
}

// GetCurrentEmployee returns the authenticated employee by ID
func (s *AuthService) GetCurrentEmployee(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperror.ErrNotFound
	}
	return employee, nil
}

// GoogleAuthURL returns the consent URL for Google sign-in
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if !s.googleOAuth.IsConfigured() {
		return "", apperror.NewBadRequestError("Google sign-in is not configured")
	}
	return s.googleOAuth.GetAuthURL(state), nil
}

// GoogleLogin completes the Google OAuth flow: exchanges the code, looks up
// or creates the employee by verified email, and issues tokens.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*LoginOutput, error) {
	if !s.googleOAuth.IsConfigured() {
		return nil, apperror.NewBadRequestError("Google sign-in is not configured")
	}

	token, err := s.googleOAuth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	info, err := s.googleOAuth.GetUserInfo(ctx, token)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	if !info.VerifiedEmail {
		return nil, apperror.NewBadRequestError("Google account email is not verified")
	}

	employee, err := s.employeeRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		// Password login stays disabled for accounts created through
		// Google: a random bcrypt hash nothing can match.
		randomHash, err := utils.HashPassword(uuid.New().String())
		if err != nil {
			return nil, err
		}
		employee = &entity.Employee{
			Name:     info.Name,
			Email:    info.Email,
			Password: randomHash,
			Role:     "member",
		}
		if err := s.employeeRepo.Create(ctx, employee); err != nil {
			return nil, err
		}
	}

	return s.issueTokens(employee)
}

func (s *AuthService) issueTokens(employee *entity.Employee) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(employee.ID, employee.Email, employee.Name, employee.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(employee.ID)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{
		Employee:     employee,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
