package identity

import (
	"context"
	"strings"

	"github.com/ecofoods/backend/internal/domain/identity"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/domain/supplier"
	"github.com/ecofoods/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for any failed login so callers cannot
// tell unknown emails from wrong passwords.
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// AuthService handles authentication for admins and suppliers
type AuthService struct {
	adminRepo    identity.AdminRepository
	supplierRepo supplier.SupplierRepository
	jwtService   *auth.JWTService
	blacklist    auth.TokenBlacklist
	logger       *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	adminRepo identity.AdminRepository,
	supplierRepo supplier.SupplierRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		adminRepo:    adminRepo,
		supplierRepo: supplierRepo,
		jwtService:   jwtService,
		blacklist:    blacklist,
		logger:       logger,
	}
}

// RegisterAdmin creates a new administrator
func (s *AuthService) RegisterAdmin(ctx context.Context, input RegisterAdminInput) (*UserInfo, error) {
	email, err := identity.NormalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	exists, err := s.adminRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Admin already exists")
	}

	admin, err := identity.NewAdmin(input.Name, email, input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.adminRepo.Save(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("Admin registered", zap.String("admin_id", admin.ID.String()), zap.String("email", admin.Email))
	info := adminInfo(admin)
	return &info, nil
}

// SeedDefaultAdmin creates the first administrator when none exists.
// It reports whether an admin was created.
func (s *AuthService) SeedDefaultAdmin(ctx context.Context, email, password string) (bool, error) {
	count, err := s.adminRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.RegisterAdmin(ctx, RegisterAdminInput{Name: "Administrator", Email: email, Password: password}); err != nil {
		return false, err
	}
	s.logger.Warn("Seeded default admin account; change its password", zap.String("email", email))
	return true, nil
}

// LoginAdmin authenticates an administrator
func (s *AuthService) LoginAdmin(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	s.logger.Info("Admin login attempt", zap.String("email", email))

	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, err
		}
		s.logger.Warn("Admin not found during login", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	if !admin.Verify(input.Password) {
		s.logger.Warn("Invalid admin password attempt", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	return s.issue(adminInfo(admin))
}

// LoginSupplier authenticates a supplier
func (s *AuthService) LoginSupplier(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	s.logger.Info("Supplier login attempt", zap.String("email", email))

	sup, err := s.supplierRepo.FindByEmail(ctx, email)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, err
		}
		s.logger.Warn("Supplier not found during login", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	if !sup.Verify(input.Password) {
		s.logger.Warn("Invalid supplier password attempt", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	return s.issue(UserInfo{ID: sup.ID, Role: string(identity.RoleSupplier), Name: sup.Name, Email: sup.Email})
}

func (s *AuthService) issue(user UserInfo) (*LoginResult, error) {
	token, err := s.jwtService.GenerateToken(auth.GenerateTokenInput{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
	})
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	s.logger.Info("User logged in successfully",
		zap.String("role", user.Role),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		TokenType: token.TokenType,
		User:      user,
	}, nil
}

// Logout revokes a single token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" || s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TTL); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return err
	}
	return nil
}

// RevokeUser invalidates every token already issued to a user, used when
// a supplier is deleted or its password changes.
func (s *AuthService) RevokeUser(ctx context.Context, userID uuid.UUID) error {
	if s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.jwtService.GetExpiration()); err != nil {
		s.logger.Error("Failed to revoke user tokens", zap.String("user_id", userID.String()), zap.Error(err))
		return err
	}
	return nil
}

func adminInfo(a *identity.Admin) UserInfo {
	return UserInfo{ID: a.ID, Role: string(identity.RoleAdmin), Name: a.Name, Email: a.Email}
}
