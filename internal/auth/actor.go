package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Permission levels, ordered. Every role maps to exactly one level and
// every gate is a minimum-level threshold, so the superadmin check is
// just RequireLevel with the top of the ladder.
const (
	LevelReadOnly   = 0
	LevelTechnician = 1
	LevelSupervisor = 2
	LevelManager    = 3
	LevelAdmin      = 4
	LevelSuperAdmin = 5
)

// Actor is the authenticated employee attached to a request. It is
// resolved from the bearer token on every request and never cached.
type Actor struct {
	EmployeeID   string  `json:"employee_id"`
	Code         string  `json:"code"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email,omitempty"`
	RoleCode     string  `json:"role_code,omitempty"`
	RoleName     string  `json:"role_name,omitempty"`
	RoleLevel    int     `json:"role_level"`
	DepartmentID *string `json:"department_id,omitempty"`
	IsActive     bool    `json:"is_active"`
}

// Level returns the actor's permission level. Actors without a role
// resolve to the lowest level rather than failing.
func (a *Actor) Level() int {
	if a == nil {
		return LevelReadOnly
	}
	return a.RoleLevel
}

func (a *Actor) IsSuperAdmin() bool {
	return a.Level() >= LevelSuperAdmin
}

type Claims struct {
	jwt.RegisteredClaims
}

type ServiceAPI interface {
	Authenticate(tokenString string) (*Actor, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type RepositoryAPI interface {
	GetActorBySubject(subject string) (*Actor, error)
}

type TokenVerifierAPI interface {
	ValidateToken(tokenString string) (*Claims, error)
}

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmployeeInactive = errors.New("employee is inactive")
)

// JWTTokenVerifier validates HS256 bearer tokens issued by the identity
// provider. Issuance lives there; this side only verifies.
type JWTTokenVerifier struct {
	Secret   []byte
	TokenTTL time.Duration
}

func NewJWTTokenVerifier(secret string) *JWTTokenVerifier {
	return &JWTTokenVerifier{
		Secret:   []byte(secret),
		TokenTTL: 15 * time.Minute,
	}
}

func (j *JWTTokenVerifier) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		if claims.Subject == "" {
			return nil, ErrInvalidToken
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// GenerateToken signs a token for the given subject. Used by the dev
// token CLI command and tests; production tokens come from the identity
// provider.
func (j *JWTTokenVerifier) GenerateToken(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = j.TokenTTL
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}
