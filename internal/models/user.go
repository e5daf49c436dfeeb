package models

import (
	"time"

	"gotours/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return true
	}
	return false
}

const bcryptCost = 12

type User struct {
	ID    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
	Photo string             `json:"photo" bson:"photo"`
	Role  Role               `json:"role" bson:"role"`

	// Credential state. None of it is ever serialized to a response.
	Password             string     `json:"-" bson:"password"`
	PasswordChangedAt    *time.Time `json:"-" bson:"password_changed_at,omitempty"`
	PasswordResetToken   string     `json:"-" bson:"password_reset_token,omitempty"`
	PasswordResetExpires *time.Time `json:"-" bson:"password_reset_expires,omitempty"`

	Active    bool      `json:"-" bson:"active"`
	CreatedAt time.Time `json:"-" bson:"created_at"`
	UpdatedAt time.Time `json:"-" bson:"updated_at"`
}

func (u *User) Validate() error {
	if u.Name == "" {
		return utils.ValidationError("Please provide your name")
	}
	if !utils.IsValidEmail(u.Email) {
		return utils.ValidationError("Please provide a valid email")
	}
	if !u.Role.Valid() {
		return utils.ValidationError("Role can either be: user, guide, lead-guide, admin")
	}
	return nil
}

// SetPassword hashes the plaintext with a salted adaptive hash and stores
// only the hash. The caller must not retain the plaintext afterwards.
func (u *User) SetPassword(plain string) error {
	if len(plain) < utils.PasswordMinLength {
		return utils.ValidationError("Please provide a password at least 8 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CorrectPassword reports whether the candidate matches the stored hash.
func (u *User) CorrectPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate)) == nil
}

// ChangedPasswordAfter reports whether the password changed after the given
// token issue time. Tokens issued before a password change are permanently
// invalid.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// MarkPasswordChanged records the change timestamp, backdated by one second
// so a session token issued in the same instant still verifies as fresh.
func (u *User) MarkPasswordChanged() {
	changed := time.Now().Add(-1 * time.Second)
	u.PasswordChangedAt = &changed
}

// CreatePasswordResetToken generates the reset credential: the stored state
// is a one-way hash plus a 10-minute expiry, and the returned plaintext goes
// to the user by email.
func (u *User) CreatePasswordResetToken() (string, error) {
	plaintext, hashed, err := utils.GenerateResetToken()
	if err != nil {
		return "", err
	}

	expires := time.Now().Add(utils.ResetTokenExpiry)
	u.PasswordResetToken = hashed
	u.PasswordResetExpires = &expires
	return plaintext, nil
}

// ClearPasswordResetToken invalidates any outstanding reset token.
func (u *User) ClearPasswordResetToken() {
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
}

// SanitizeUserUpdate strips credential and lifecycle state from an admin
// partial update. Passwords only ever change through the auth endpoints.
func SanitizeUserUpdate(updates map[string]interface{}) (map[string]interface{}, error) {
	updates = utils.FilterFields(updates, "name", "email", "role", "photo", "active")

	if raw, ok := updates["email"]; ok {
		email, isString := raw.(string)
		if !isString || !utils.IsValidEmail(email) {
			return nil, utils.ValidationError("Please provide a valid email")
		}
		updates["email"] = utils.NormalizeEmail(email)
	}
	if raw, ok := updates["role"]; ok {
		role, isString := raw.(string)
		if !isString || !Role(role).Valid() {
			return nil, utils.ValidationError("Role can either be: user, guide, lead-guide, admin")
		}
	}
	if raw, ok := updates["name"]; ok {
		if name, isString := raw.(string); !isString || name == "" {
			return nil, utils.ValidationError("Please provide your name")
		}
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
	}
	return updates, nil
}

// PrepareForCreate fills the server-owned defaults before first persistence.
func (u *User) PrepareForCreate() {
	u.Email = utils.NormalizeEmail(u.Email)
	if u.Photo == "" {
		u.Photo = utils.DefaultUserPhoto
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.Active = true
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
}
