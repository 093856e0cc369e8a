package services

import (
	"ashtray_server/database"
	"ashtray_server/lib"
	"ashtray_server/structs"
	"ashtray_server/structs/tables"
	"context"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

type AuthService struct {
	logger *gecho.Logger
	cfg    *structs.AuthConfig
	db     *database.DB
}

func NewAuthService(logger *gecho.Logger, cfg *structs.AuthConfig, db *database.DB) *AuthService {
	return &AuthService{
		logger: logger,
		cfg:    cfg,
		db:     db,
	}
}

// AdminSession is a signed access token for a logged in admin.
type AdminSession struct {
	Admin       *tables.AdminUser
	AccessToken string
	ExpiresAt   time.Time
}

// Login checks admin credentials and issues an access token. Unknown emails and wrong passwords
// both return lib.ErrInvalidCredentials.
func (as *AuthService) Login(ctx context.Context, req *structs.AdminLoginRequest) (*AdminSession, error) {
	startTime := time.Now()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	admin, err := database.Query[tables.AdminUser](as.db).Where("email", email).First(ctx)
	if err != nil {
		as.logger.Error("Unexpected database error during login", gecho.Field("error", err))
		return nil, err
	}
	if admin == nil {
		as.logger.Debug("Admin not found during login attempt", gecho.Field("email", email))
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := lib.VerifyPassword(req.Password, admin.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash", gecho.Field("error", err), gecho.Field("admin_id", admin.ID))
		return nil, err
	}
	if !valid {
		as.logger.Debug("Invalid password attempt", gecho.Field("email", email))
		return nil, lib.ErrInvalidCredentials
	}

	claims := lib.NewAdminClaims(admin.ID, admin.Email, as.cfg.AccessTokenExpiry)
	token, err := lib.SignAccessToken(claims, as.cfg.AccessTokenSecret)
	if err != nil {
		as.logger.Error("Failed to sign access token", gecho.Field("error", err))
		return nil, err
	}

	now := time.Now()
	if _, err := as.db.NewUpdate().Model(admin).Set("last_login = ?", now).WherePK().Exec(ctx); err != nil {
		as.logger.Warn("Failed to update last login", gecho.Field("error", err), gecho.Field("admin_id", admin.ID))
	}
	admin.LastLogin = &now

	as.logger.Debug("Admin logged in",
		gecho.Field("admin_id", admin.ID),
		gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()),
	)

	return &AdminSession{Admin: admin, AccessToken: token, ExpiresAt: claims.Exp}, nil
}

// EnsureAdmin creates the configured bootstrap admin unless an admin with that email exists.
func (as *AuthService) EnsureAdmin(ctx context.Context) error {
	if as.cfg.AdminEmail == "" || as.cfg.AdminPassword == "" {
		return nil
	}

	hash, err := lib.HashPassword(as.cfg.AdminPassword, lib.DefaultArgonParams)
	if err != nil {
		return err
	}

	admin := &tables.AdminUser{
		Email:        strings.ToLower(strings.TrimSpace(as.cfg.AdminEmail)),
		PasswordHash: hash,
	}
	res, err := as.db.NewInsert().Model(admin).On("CONFLICT (email) DO NOTHING").Exec(ctx)
	if err != nil {
		return lib.MapPgError(err, "admin")
	}
	if n, _ := res.RowsAffected(); n > 0 {
		as.logger.Info("Bootstrap admin created", gecho.Field("email", admin.Email))
	}
	return nil
}
