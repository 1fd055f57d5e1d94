// Package auth implements user registration and credential authentication
// against the graph, plus the claims mapping used to mint bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/crypto/bcrypt"

	"github.com/neoflix/neoflix-api/internal/apperrors"
	"github.com/neoflix/neoflix-api/internal/config"
	"github.com/neoflix/neoflix-api/internal/graph"
	"github.com/neoflix/neoflix-api/internal/models"
	"github.com/neoflix/neoflix-api/internal/tokens"
)

// constraintViolation is the server code returned when a write breaks a
// uniqueness constraint (here: User.email).
const constraintViolation = "Neo.ClientError.Schema.ConstraintValidationFailed"

// Service encapsulates registration and authentication. The Runner is a
// shared handle; other services may hold the same one.
type Service struct {
	runner     graph.Runner
	secret     string
	saltRounds int
}

func NewService(runner graph.Runner, cfg *config.Config) *Service {
	return &Service{
		runner:     runner,
		secret:     cfg.JWT.Secret,
		saltRounds: cfg.Auth.SaltRounds,
	}
}

// Register hashes the password and creates a new User node. The returned
// record carries a freshly signed token and never the password hash.
// A duplicate email surfaces as *apperrors.ValidationError; any other
// database error propagates unchanged.
func (s *Service) Register(ctx context.Context, email, plainPassword, name string) (*models.AuthUser, error) {
	encrypted, err := bcrypt.GenerateFromPassword([]byte(plainPassword), s.saltRounds)
	if err != nil {
		return nil, err
	}

	rows, err := s.runner.ExecuteWrite(ctx, `
CREATE (u:User {
  userId: $userId,
  email: $email,
  password: $encrypted,
  name: $name
})
RETURN u { .userId, .email, .name } AS u`,
		map[string]interface{}{
			"userId":    uuid.NewString(),
			"email":     email,
			"encrypted": string(encrypted),
			"name":      name,
		})
	if err != nil {
		var neoErr *neo4j.Neo4jError
		if errors.As(err, &neoErr) && neoErr.Code == constraintViolation {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("An account already exists with the email address %s", email),
				map[string]string{"email": "Email address taken"},
			)
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("register: no user returned for %s", email)
	}
	return s.withToken(userFromRow(rows[0]["u"]))
}

// Authenticate verifies the credentials for the given email. A missing user
// and a wrong password both yield (nil, nil): callers must not be able to
// tell which one happened.
func (s *Service) Authenticate(ctx context.Context, email, plainPassword string) (*models.AuthUser, error) {
	rows, err := s.runner.ExecuteRead(ctx,
		"MATCH (u:User {email: $email}) RETURN u { .userId, .email, .name, .password } AS u",
		map[string]interface{}{"email": email})
	if err != nil {
		return nil, err
	}
	// Session is already closed here; the bcrypt compare below does no
	// further database access.
	if len(rows) == 0 {
		return nil, nil
	}
	user := userFromRow(rows[0]["u"])
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(plainPassword)) != nil {
		return nil, nil
	}
	return s.withToken(user)
}

// UserToClaims projects a user record into the claims encoded into a token.
func (s *Service) UserToClaims(u models.User) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":    u.UserID,
		"userId": u.UserID,
		"name":   u.Name,
	}
}

// ClaimsToUser is the inverse projection: it rebuilds a user-shaped record
// from verified token claims, aliasing sub back to userId. Used by the HTTP
// middleware to authorize requests without a database round trip.
func ClaimsToUser(claims map[string]interface{}) models.User {
	var u models.User
	if sub, ok := claims["sub"].(string); ok {
		u.UserID = sub
	}
	if name, ok := claims["name"].(string); ok {
		u.Name = name
	}
	return u
}

func (s *Service) withToken(u models.User) (*models.AuthUser, error) {
	token, err := tokens.Sign(s.secret, s.UserToClaims(u))
	if err != nil {
		return nil, err
	}
	return &models.AuthUser{
		UserID: u.UserID,
		Email:  u.Email,
		Name:   u.Name,
		Token:  token,
	}, nil
}

func userFromRow(v interface{}) models.User {
	props, _ := v.(map[string]interface{})
	var u models.User
	if s, ok := props["userId"].(string); ok {
		u.UserID = s
	}
	if s, ok := props["email"].(string); ok {
		u.Email = s
	}
	if s, ok := props["name"].(string); ok {
		u.Name = s
	}
	if s, ok := props["password"].(string); ok {
		u.Password = s
	}
	return u
}
