package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

const (
	claimSubject = "sub"
	claimType    = "type"
	claimAdmin   = "admin"
	claimExpires = "exp"
	claimIssued  = "iat"
)

var ErrInvalidToken = errors.New("invalid token")

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type TokenClaims struct {
	UserID  int
	Type    TokenType
	IsAdmin bool
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (i *TokenIssuer) Issue(userID int, isAdmin bool) (*TokenPair, error) {
	access, err := i.sign(userID, isAdmin, TokenAccess, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(userID, isAdmin, TokenRefresh, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (i *TokenIssuer) sign(userID int, isAdmin bool, typ TokenType, ttl time.Duration) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		claimSubject: strconv.Itoa(userID),
		claimType:    string(typ),
		claimAdmin:   isAdmin,
		claimIssued:  now.Unix(),
		claimExpires: now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, expiry and that the token is of the wanted type.
func (i *TokenIssuer) Parse(tokenString string, want TokenType) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	typ, _ := claims[claimType].(string)
	if TokenType(typ) != want {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, want)
	}

	sub, _ := claims[claimSubject].(string)
	userID, err := strconv.Atoi(sub)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	isAdmin, _ := claims[claimAdmin].(bool)
	return &TokenClaims{UserID: userID, Type: TokenType(typ), IsAdmin: isAdmin}, nil
}
