package identity

import (
	"context"
	"strings"

	"github.com/ecofoods/backend/internal/domain/shared"
)

// Admin is a back-office user who manages suppliers, requests and payments
type Admin struct {
	shared.BaseAggregateRoot
	Name string
	Credentials
}

// NewAdmin creates an admin with a freshly hashed password
func NewAdmin(name, email, password string) (*Admin, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Administrator"
	}
	creds, err := NewCredentials(email, password)
	if err != nil {
		return nil, err
	}
	return &Admin{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Credentials:       creds,
	}, nil
}

// AdminRepository persists admins
type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, admin *Admin) error
}
