package models

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned when email and password do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

type UsersRepository struct {
	db *gorm.DB
}

func NewUsersRepository(db *gorm.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

func (r *UsersRepository) GetUser(ctx context.Context, id uint) (*User, error) {
	return findByID[User](ctx, r.db, id)
}

func (r *UsersRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find user")
	}
	return &user, nil
}

// SaveUser validates the user and stores it. A non-empty Password is
// hashed into PasswordDigest; new users must have one.
func (r *UsersRepository) SaveUser(ctx context.Context, user *User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return save(ctx, r.db, user, func(tx *gorm.DB) FieldErrors {
		fields := Validate(user)
		if user.ID == 0 && user.Password == "" {
			fields.Add("password", "can't be blank")
		}
		if user.Email != "" {
			dup, err := taken(tx, &User{}, "email", user.Email, user.ID)
			if err != nil {
				fields.Add("base", err.Error())
			} else if dup {
				fields.Add("email", "has already been taken")
			}
		}
		if !fields.Any() && user.Password != "" {
			digest, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
			if err != nil {
				fields.Add("password", "is invalid")
				return fields
			}
			user.PasswordDigest = string(digest)
			user.Password, user.PasswordConfirmation = "", ""
		}
		return fields
	})
}

// Authenticate returns the user owning email when password matches.
func (r *UsersRepository) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// DeleteUser removes the user and all of its sessions.
func (r *UsersRepository) DeleteUser(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&UserSession{}).Error; err != nil {
			return errors.Wrap(err, "delete sessions")
		}
		return errors.Wrap(tx.Delete(user).Error, "delete user")
	})
}

func (r *UsersRepository) CreateSession(ctx context.Context, session *UserSession) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(session).Error, "create session")
}

// FindSession returns the unexpired session for client.
func (r *UsersRepository) FindSession(ctx context.Context, client string) (*UserSession, error) {
	var session UserSession
	err := r.db.WithContext(ctx).
		Where("client = ? AND expires_at > ?", client, time.Now()).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find session")
	}
	return &session, nil
}

func (r *UsersRepository) DeleteSession(ctx context.Context, client string) error {
	return errors.Wrap(r.db.WithContext(ctx).Where("client = ?", client).Delete(&UserSession{}).Error, "delete session")
}

// PurgeExpiredSessions deletes sessions that expired before now and
// returns how many were removed.
func (r *UsersRepository) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&UserSession{})
	return res.RowsAffected, errors.Wrap(res.Error, "purge sessions")
}

// EnsureAdmin creates an admin account for email unless one exists.
// It reports whether a user was created.
func (r *UsersRepository) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	user := &User{Name: name, Email: email, Password: password, Profile: ProfileAdmin}
	if err := r.SaveUser(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}
