package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers malformed encoding, bad signature, expiry, and
// claims that do not match the demanded purpose.
var ErrInvalidToken = errors.New("invalid token")

// TokenPurpose tags what a signed token may be used for. Access, email
// confirmation, and password reset share one signing mechanism; the purpose
// claim keeps a stolen token of one kind from passing as another.
type TokenPurpose string

const (
	PurposeAccess        TokenPurpose = "access"
	PurposeEmailConfirm  TokenPurpose = "email_confirm"
	PurposePasswordReset TokenPurpose = "password_reset"
)

// Claims describes the JWT payload for all three token purposes. The
// subject is a username for access tokens and an email otherwise.
// PasswordHash is set only on password-reset tokens and carries the
// pre-hashed replacement password, never a plaintext.
type Claims struct {
	Purpose      TokenPurpose `json:"purpose"`
	PasswordHash string       `json:"password,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	confirmTTL time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, accessTTL, confirmTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if confirmTTL <= 0 {
		confirmTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), accessTTL: accessTTL, confirmTTL: confirmTTL}
}

// IssueAccessToken signs a session token bound to the username.
func (tm *TokenManager) IssueAccessToken(username string) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.accessTTL)
	token, err := tm.sign(&Claims{
		Purpose: PurposeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// IssueConfirmToken signs an email-confirmation token bound to the email.
func (tm *TokenManager) IssueConfirmToken(email string) (string, error) {
	return tm.sign(&Claims{
		Purpose: PurposeEmailConfirm,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.confirmTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

// IssueResetToken signs a password-reset token carrying the pre-hashed new
// password alongside the email subject.
func (tm *TokenManager) IssueResetToken(email, passwordHash string) (string, error) {
	return tm.sign(&Claims{
		Purpose:      PurposePasswordReset,
		PasswordHash: passwordHash,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

func (tm *TokenManager) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Parse validates a token and requires it to carry the given purpose and a
// non-empty subject. Reset tokens must additionally carry the embedded
// password hash claim.
func (tm *TokenManager) Parse(tokenStr string, purpose TokenPurpose) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if purpose == PurposePasswordReset && claims.PasswordHash == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
