package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/d60-Lab/compliment-api/config"
	"github.com/d60-Lab/compliment-api/internal/model"
	"github.com/d60-Lab/compliment-api/internal/repository"
	"github.com/d60-Lab/compliment-api/pkg/token"
)

// LoginResult 登录成功后返回给客户端
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// AuthService OAuth 登录并签发 bearer token
type AuthService interface {
	// LoginURL 第三方授权页地址
	LoginURL(state string) string
	// Callback 用授权码换取用户信息，按邮箱创建/更新用户并签发 token
	Callback(ctx context.Context, code string) (*LoginResult, error)
	Me(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	oauth       *oauth2.Config
	userInfoURL string
	users       repository.UserRepository
	tokens      *token.Manager
}

func NewAuthService(cfg config.OAuthConfig, users repository.UserRepository, tokens *token.Manager) AuthService {
	return &authService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
		},
		userInfoURL: cfg.UserInfoURL,
		users:       users,
		tokens:      tokens,
	}
}

func (s *authService) LoginURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type userInfo struct {
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

func (s *authService) Callback(ctx context.Context, code string) (*LoginResult, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: missing code", ErrOAuthExchange)
	}
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange: %v", ErrOAuthExchange, err)
	}
	info, err := s.fetchUserInfo(ctx, tok)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Upsert(ctx, &model.User{
		Email:     strings.ToLower(info.Email),
		FirstName: optional(info.GivenName),
		LastName:  optional(info.FamilyName),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	signed, exp, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: signed, ExpiresAt: exp, User: user}, nil
}

func (s *authService) fetchUserInfo(ctx context.Context, tok *oauth2.Token) (*userInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo: %v", ErrOAuthExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: userinfo status %d: %s", ErrOAuthExchange, resp.StatusCode, body)
	}
	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decode userinfo: %v", ErrOAuthExchange, err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%w: provider returned no email", ErrOAuthExchange)
	}
	if info.EmailVerified != nil && !*info.EmailVerified {
		return nil, fmt.Errorf("%w: email not verified", ErrOAuthExchange)
	}
	return &info, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
