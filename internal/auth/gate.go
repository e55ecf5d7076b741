package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"expense-api/internal/domain"
	"expense-api/internal/repository"
)

// ErrUnauthenticated is the failure class for every credential problem. The
// wrapped cause is for logs only. Store failures are returned unwrapped.
var ErrUnauthenticated = errors.New("unauthenticated")

// UserLookup resolves a user id to a live account.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Gate turns an Authorization header into a resolved Identity.
type Gate struct {
	tokens *TokenService
	users  UserLookup
}

func NewGate(tokens *TokenService, users UserLookup) *Gate {
	return &Gate{tokens: tokens, users: users}
}

func (g *Gate) Authenticate(ctx context.Context, authorization string) (domain.Identity, error) {
	token, err := BearerToken(authorization)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	userID, err := g.tokens.Verify(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Identity{}, fmt.Errorf("%w: user %s no longer exists", ErrUnauthenticated, userID)
		}
		return domain.Identity{}, fmt.Errorf("resolve user %s: %w", userID, err)
	}

	return domain.Identity{UserID: user.ID, Username: user.Username}, nil
}

// BearerToken extracts the credential from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("no token provided")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("authorization header must use the Bearer scheme")
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", errors.New("malformed bearer token")
	}
	return token, nil
}
