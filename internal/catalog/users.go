package catalog

import (
	"context"
	"strings"

	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/store"
)

type Users struct {
	*Repository[models.User]
}

func NewUsers(client store.Client) *Users {
	return &Users{NewRepository[models.User](client, "users")}
}

// ByEmail returns the user with the given (case-insensitive) email.
func (u *Users) ByEmail(ctx context.Context, email string) (models.User, bool, error) {
	return u.FindOne(ctx, store.Eq("email", NormalizeEmail(email)))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
