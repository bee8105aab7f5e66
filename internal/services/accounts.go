package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"chickstage-backend-go/internal/crud"
	"chickstage-backend-go/internal/models"
	"chickstage-backend-go/internal/records"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const minPasswordLength = 6

type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
	FarmLocation    string `json:"farmLocation"`
	FarmSize        string `json:"farmSize"`
	ExperienceLevel string `json:"experienceLevel"`
}

// Session is the result of a successful sign-in or token refresh.
type Session struct {
	TokenPair
	User models.User `json:"user"`
}

// Accounts owns the users table. Profiles live in the profiles collection
// and are written through the record store like every other collection.
type Accounts struct {
	DB     *sqlx.DB
	Store  records.Store
	Tokens TokenService
	Log    *zap.Logger
	Now    func() time.Time
}

func NewAccounts(db *sqlx.DB, store records.Store, tokens TokenService, logger *zap.Logger) *Accounts {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accounts{
		DB:     db,
		Store:  store,
		Tokens: tokens,
		Log:    logger,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Register creates a farmer account and its profile row.
func (a *Accounts) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || strings.TrimSpace(in.Password) == "" {
		return models.User{}, ErrBadRequest("Email and password are required")
	}
	if !strings.Contains(email, "@") {
		return models.User{}, ErrBadRequest("Invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		return models.User{}, ErrBadRequest("Password must be at least 6 characters")
	}
	exists, err := a.emailTaken(ctx, email)
	if err != nil {
		return models.User{}, WrapError(err, "check email")
	}
	if exists {
		return models.User{}, ErrConflict("User already exists")
	}

	user, err := a.insertUser(ctx, email, in.Password, models.RoleFarmer)
	if err != nil {
		return models.User{}, err
	}

	profile := crud.ToRecord(Users, crud.FormState{
		"user_id":          user.ID,
		"full_name":        strings.TrimSpace(in.FullName),
		"phone":            strings.TrimSpace(in.Phone),
		"farm_location":    strings.TrimSpace(in.FarmLocation),
		"farm_size":        strings.TrimSpace(in.FarmSize),
		"experience_level": strings.TrimSpace(in.ExperienceLevel),
	})
	if _, err := a.Store.Insert(ctx, Users.Collection, profile); err != nil {
		a.Log.Warn("profile insert failed, removing user", zap.String("userId", user.ID), zap.Error(err))
		if _, delErr := a.DB.ExecContext(ctx, a.DB.Rebind(`DELETE FROM users WHERE id = ?`), user.ID); delErr != nil {
			a.Log.Error("orphaned user", zap.String("userId", user.ID), zap.Error(delErr))
		}
		return models.User{}, WrapError(err, "create profile")
	}
	a.Log.Info("user registered", zap.String("userId", user.ID))
	return user, nil
}

// Authenticate checks the credentials and issues a token pair.
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return Session{}, ErrBadRequest("Authentication failed")
	}
	var user models.User
	err := a.DB.GetContext(ctx, &user, a.DB.Rebind(`
SELECT id, email, password_hash, role, created_at, last_login_at
FROM users
WHERE lower(email) = ?
`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrUnauthorized("Authentication failed")
	}
	if err != nil {
		return Session{}, WrapError(err, "load user")
	}
	if !a.Tokens.VerifyPassword(password, user.PasswordHash) {
		return Session{}, ErrUnauthorized("Authentication failed")
	}

	now := a.Now()
	if _, err := a.DB.ExecContext(ctx, a.DB.Rebind(`UPDATE users SET last_login_at = ? WHERE id = ?`), now, user.ID); err != nil {
		a.Log.Warn("set last login failed", zap.String("userId", user.ID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}
	return a.session(user)
}

// Refresh exchanges a refresh token for a new pair. The role is reloaded so a
// demoted admin loses access at the next refresh.
func (a *Accounts) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	userID, err := a.Tokens.ParseRefresh(refreshToken)
	if err != nil {
		return Session{}, ErrUnauthorized("Authentication failed")
	}
	user, err := a.FindUser(ctx, userID)
	if err != nil {
		return Session{}, ErrUnauthorized("Authentication failed")
	}
	return a.session(user)
}

func (a *Accounts) session(user models.User) (Session, error) {
	pair, err := a.Tokens.IssuePair(user.ID, user.Email, user.Role)
	if err != nil {
		return Session{}, WrapError(err, "sign tokens")
	}
	return Session{TokenPair: pair, User: user}, nil
}

func (a *Accounts) FindUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := a.DB.GetContext(ctx, &user, a.DB.Rebind(`
SELECT id, email, password_hash, role, created_at, last_login_at
FROM users
WHERE id = ?
`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound("User not found")
	}
	if err != nil {
		return models.User{}, WrapError(err, "load user")
	}
	return user, nil
}

// FindUserByEmail looks an account up by its email, ignoring case.
func (a *Accounts) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := a.DB.GetContext(ctx, &user, a.DB.Rebind(`
SELECT id, email, password_hash, role, created_at, last_login_at
FROM users
WHERE lower(email) = ?
`), normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound("User not found")
	}
	if err != nil {
		return models.User{}, WrapError(err, "load user")
	}
	return user, nil
}

// Profile returns the profile row of the user, or nil when none exists.
func (a *Accounts) Profile(ctx context.Context, userID string) (records.Record, error) {
	rows, err := a.Store.List(ctx, Users.Collection, "created_at", records.Descending)
	if err != nil {
		return nil, WrapError(err, "list profiles")
	}
	for _, row := range rows {
		if row.String("user_id") == userID {
			return row, nil
		}
	}
	return nil, nil
}

// EnsureAdmin creates the bootstrap admin, or promotes the account when the
// email is already registered. An empty email disables it.
func (a *Accounts) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}
	exists, err := a.emailTaken(ctx, email)
	if err != nil {
		return WrapError(err, "check admin")
	}
	if exists {
		_, err := a.DB.ExecContext(ctx, a.DB.Rebind(`UPDATE users SET role = ? WHERE lower(email) = ?`), models.RoleAdmin, email)
		return WrapError(err, "promote admin")
	}
	if len(password) < minPasswordLength {
		return ErrBadRequest("ADMIN_PASSWORD must be at least 6 characters")
	}
	user, err := a.insertUser(ctx, email, password, models.RoleAdmin)
	if err != nil {
		return err
	}
	a.Log.Info("admin account created", zap.String("userId", user.ID), zap.String("email", email))
	return nil
}

func (a *Accounts) emailTaken(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := a.DB.GetContext(ctx, &exists, a.DB.Rebind(`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = ?)`), email)
	return exists, err
}

func (a *Accounts) insertUser(ctx context.Context, email, password, role string) (models.User, error) {
	hash, err := a.Tokens.HashPassword(password)
	if err != nil {
		return models.User{}, WrapError(err, "hash password")
	}
	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    a.Now(),
	}
	_, err = a.DB.NamedExecContext(ctx, `
INSERT INTO users (id, email, password_hash, role, created_at)
VALUES (:id, :email, :password_hash, :role, :created_at)
`, user)
	if err != nil {
		return models.User{}, WrapError(err, "insert user")
	}
	return user, nil
}
