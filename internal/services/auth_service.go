package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"brewery_backend/internal/config"
	"brewery_backend/internal/models"
	"brewery_backend/internal/repositories"
	"brewery_backend/pkg/utils"
)

// --- Custom Service Errors ---
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrOAuthDisabled      = errors.New("oauth login is not configured")
	ErrOAuthExchange      = errors.New("oauth code exchange failed")
	ErrUnknownAccount     = errors.New("no employee is registered with this email")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// GoogleUserInfoURL is the OpenID Connect userinfo endpoint.
const GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// --- AuthService Interface ---
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (*models.Session, error)
	OAuthEnabled() bool
	OAuthLoginURL(state string) (string, error)
	OAuthCallback(ctx context.Context, code string) (*models.Session, error)
}

type authService struct {
	employeeRepo repositories.EmployeeRepository
	tokens       *utils.TokenIssuer
	oauth        *oauth2.Config
	userInfoURL  string
}

// NewAuthService creates a new instance of AuthService. OAuth login is enabled
// only when the provider is fully configured.
func NewAuthService(er repositories.EmployeeRepository, tokens *utils.TokenIssuer, oauthCfg config.OAuthConfig) AuthService {
	s := &authService{employeeRepo: er, tokens: tokens, userInfoURL: GoogleUserInfoURL}
	if oauthCfg.Enabled() {
		s.oauth = &oauth2.Config{
			ClientID:     oauthCfg.ClientID,
			ClientSecret: oauthCfg.ClientSecret,
			RedirectURL:  oauthCfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoints.Google,
		}
	}
	return s
}

// NewAuthServiceWithProvider wires an explicit OAuth provider.
func NewAuthServiceWithProvider(er repositories.EmployeeRepository, tokens *utils.TokenIssuer, provider *oauth2.Config, userInfoURL string) AuthService {
	return &authService{employeeRepo: er, tokens: tokens, oauth: provider, userInfoURL: userInfoURL}
}

func (s *authService) issue(emp *models.Employee) (*models.Session, error) {
	email := utils.DerefString(emp.Email)
	role := utils.RoleFor(emp.IsAdmin)
	token, expiresAt, err := s.tokens.GenerateAccessToken(emp.ID, emp.Name, email, role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return &models.Session{
		EmployeeID: emp.ID,
		Name:       emp.Name,
		Email:      email,
		Role:       role,
		Token:      token,
		ExpiresAt:  expiresAt,
	}, nil
}

// Login checks an email and bcrypt password pair.
func (s *authService) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	emp, err := s.employeeRepo.GetEmployeeByEmail(ctx, strings.TrimSpace(creds.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}
	if emp.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*emp.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(emp)
}

func (s *authService) OAuthEnabled() bool {
	return s.oauth != nil
}

func (s *authService) OAuthLoginURL(state string) (string, error) {
	if s.oauth == nil {
		return "", ErrOAuthDisabled
	}
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// OAuthCallback exchanges the authorization code and maps the verified email to an employee.
func (s *authService) OAuthCallback(ctx context.Context, code string) (*models.Session, error) {
	if s.oauth == nil {
		return nil, ErrOAuthDisabled
	}
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchange, err)
	}

	info, err := s.fetchUserInfo(ctx, s.oauth.Client(ctx, token))
	if err != nil {
		return nil, err
	}
	if info.Email == "" || !info.EmailVerified {
		return nil, fmt.Errorf("%w: provider did not return a verified email", ErrOAuthExchange)
	}

	emp, err := s.employeeRepo.GetEmployeeByEmail(ctx, info.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnknownAccount
		}
		return nil, fmt.Errorf("oauth login failed: %w", err)
	}
	return s.issue(emp)
}

func (s *authService) fetchUserInfo(ctx context.Context, client *http.Client) (*models.OAuthUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchange, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching userinfo: %v", ErrOAuthExchange, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo returned %d", ErrOAuthExchange, resp.StatusCode)
	}
	var info models.OAuthUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decoding userinfo: %v", ErrOAuthExchange, err)
	}
	return &info, nil
}
