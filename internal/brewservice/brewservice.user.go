// FilePath: internal/brewservice/brewservice.user.go
package brewservice

import (
	"context"

	"github.com/tilthub/brewmonitor/internal/models"
)

func (s *BrewService) CreateUser(ctx context.Context, username, password string, isAdmin bool) (*models.User, error) {
	return s.users.Create(ctx, username, password, isAdmin)
}

func (s *BrewService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.Get(ctx, id)
}

func (s *BrewService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// VerifyUser checks a username/password pair against the stored hash and
// returns the account on success.
func (s *BrewService) VerifyUser(ctx context.Context, username, password string) (*models.User, error) {
	return s.users.Verify(ctx, username, password)
}

// DeleteUser removes the account. Equipment the user owned survives with
// the owner reference cleared.
func (s *BrewService) DeleteUser(ctx context.Context, id int64) error {
	return s.cleanup.DeleteUser(ctx, id)
}
