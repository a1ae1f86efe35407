package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/staffdesk/internal/crud"
	"github.com/simp-lee/staffdesk/internal/domain"
)

// UserIn is the request body of create and update. The password is stored
// as a bcrypt hash; is_active defaults to true.
type UserIn struct {
	Username  string `json:"username" binding:"required,min=1,max=150"`
	Email     string `json:"email" binding:"omitempty,email,max=255"`
	FirstName string `json:"first_name" binding:"max=150"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	IsActive  *bool  `json:"is_active"`
}

// NewEntity builds a User and hashes its password.
func (in UserIn) NewEntity() (*domain.User, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		PasswordHash: hash,
		IsActive:     in.active(),
	}, nil
}

// Changes maps the requested keys to user columns. A supplied password is
// hashed into password_hash.
func (in UserIn) Changes(keys ...string) (map[string]any, error) {
	cs := crud.NewChangeset(keys...).
		Set("username", "username", in.Username).
		Set("email", "email", in.Email).
		Set("first_name", "first_name", in.FirstName).
		Set("is_active", "is_active", in.active())
	if cs.Wants("password") {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		cs.Set("password", "password_hash", hash)
	}
	return cs.Map(), nil
}

func (in UserIn) active() bool {
	return in.IsActive == nil || *in.IsActive
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
	}
	return string(hash), nil
}

// UserOut is the response shape of a user. The password hash is never exposed.
type UserOut struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	IsActive  bool      `json:"is_active"`
	Creator   *string   `json:"creator"`
	Updater   *string   `json:"updater"`
	CreateAt  time.Time `json:"create_at"`
	UpdateAt  time.Time `json:"update_at"`
}

func Project(u *domain.User) UserOut {
	return UserOut{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		IsActive:  u.IsActive,
		Creator:   u.Creator,
		Updater:   u.Updater,
		CreateAt:  u.CreateAt,
		UpdateAt:  u.UpdateAt,
	}
}

// UserFilter is the list query.
type UserFilter struct {
	Username *string `form:"username"`
	Email    *string `form:"email"`
	IsActive *bool   `form:"is_active"`
}

func (f UserFilter) Lookups() map[string]any {
	return map[string]any{
		"username__icontains": f.Username,
		"email__icontains":    f.Email,
		"is_active":           f.IsActive,
	}
}
