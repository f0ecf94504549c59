package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/OpNop/TINY-API/gw2"
	"github.com/OpNop/TINY-API/models"
)

// BearerTokenTTL is the lifetime of an issued bearer token.
const BearerTokenTTL = time.Hour

// rankLabels maps the 0-3 access ordinal to its display label.
var rankLabels = map[int]string{
	0: "Member",
	1: "Tiny Officer",
	2: "Tiny General",
	3: "Tiny Leader",
}

// RankLabel returns the display label for an access ordinal.
func RankLabel(access int) string {
	if label, ok := rankLabels[access]; ok {
		return label
	}
	return rankLabels[0]
}

// LoginResult is the outcome of a successful login or refresh.
type LoginResult struct {
	Token        string `json:"token"`
	User         string `json:"user"`
	RefreshToken string `json:"-"`
}

// AuthService exchanges game API tokens for signed session tokens and
// rotates refresh tokens.
type AuthService struct {
	gw2     GW2Client
	members MemberRepository
	tokens  TokenCache
	jwtKey  []byte
	issuer  string
}

// NewAuthService creates a new auth service
func NewAuthService(gw2Client GW2Client, members MemberRepository, tokens TokenCache, jwtKey, issuer string) *AuthService {
	return &AuthService{
		gw2:     gw2Client,
		members: members,
		tokens:  tokens,
		jwtKey:  []byte(jwtKey),
		issuer:  issuer,
	}
}

// Login resolves a game API token to an account, checks access, stores a
// fresh refresh token and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, apiToken string) (*LoginResult, error) {
	if apiToken == "" {
		return nil, fmt.Errorf("%w: missing token", ErrBadRequest)
	}

	account, err := s.gw2.AccountByToken(ctx, apiToken)
	if err != nil {
		if gw2.IsAuthError(err) {
			return nil, fmt.Errorf("%w: invalid api token", ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: account lookup: %v", ErrUpstream, err)
	}

	member, err := s.members.GetByAccount(ctx, account.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: member lookup: %v", ErrStorage, err)
	}
	if member == nil || member.Access == 0 {
		return nil, fmt.Errorf("%w: no access", ErrUnauthorized)
	}

	session := &models.Session{
		Account: member.Account,
		Name:    maskAccount(member.Account),
		Rank:    RankLabel(member.Access),
	}

	return s.issue(ctx, session)
}

// Refresh rotates the refresh token: the old cache entry is deleted and the
// same session is stored under a new token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: missing refresh token", ErrBadRequest)
	}

	session, err := s.tokens.Get(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh token expired or unknown", ErrUnauthorized)
	}

	if err := s.tokens.Delete(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("%w: token rotation: %v", ErrStorage, err)
	}

	return s.issue(ctx, session)
}

// VerifyBearer validates a bearer token's signature and expiry and returns
// its session payload.
func (s *AuthService) VerifyBearer(tokenString string) (*models.Session, error) {
	claims := &bearerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid bearer token", ErrUnauthorized)
	}

	return &claims.Data, nil
}

type bearerClaims struct {
	Data models.Session `json:"data"`
	jwt.RegisteredClaims
}

func (s *AuthService) issue(ctx context.Context, session *models.Session) (*LoginResult, error) {
	refresh := uuid.NewString()
	if err := s.tokens.Set(ctx, refresh, session); err != nil {
		return nil, fmt.Errorf("%w: storing refresh token: %v", ErrStorage, err)
	}

	now := time.Now()
	claims := bearerClaims{
		Data: *session,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-10 * time.Second)),
			ExpiresAt: jwt.NewNumericDate(now.Add(BearerTokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign bearer token: %w", err)
	}

	return &LoginResult{
		Token:        signed,
		User:         session.Name,
		RefreshToken: refresh,
	}, nil
}

// maskAccount strips the numeric discriminator from a game account name
// ("NullValue.4956" becomes "NullValue") for display.
func maskAccount(account string) string {
	if i := strings.LastIndex(account, "."); i > 0 {
		return account[:i]
	}
	return account
}
