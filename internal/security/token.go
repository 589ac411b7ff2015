package security

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every validation failure. Callers must not
// learn whether a token was malformed, forged, or merely expired.
var ErrInvalidToken = errors.New("invalid token")

type TokenClaims struct {
	Subject   string
	TokenID   string
	ExpiresAt time.Time
}

type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
}

func NewTokenService(secret string, defaultTTL time.Duration) *TokenService {
	if defaultTTL <= 0 {
		defaultTTL = 60 * time.Minute
	}
	return &TokenService{secret: []byte(secret), defaultTTL: defaultTTL}
}

// Issue signs a token carrying the subject. A non-positive ttl falls back to
// the service default.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	tokenID, err := uuid.NewV4()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"sub": subject,
		"jti": tokenID.String(),
		"exp": time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) Validate(tokenStr string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}

	tokenID, _ := claims["jti"].(string)

	return &TokenClaims{
		Subject:   subject,
		TokenID:   tokenID,
		ExpiresAt: exp.Time,
	}, nil
}
