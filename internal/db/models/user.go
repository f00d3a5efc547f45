package models

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is provisioned on first sign-in and identified by the external
// provider plus the provider's stable subject identifier.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        uuid.UUID    `bun:",type:uuid,pk"`
	Provider  string       `bun:",notnull,unique:users_provider_subject"`
	Subject   string       `bun:",notnull,unique:users_provider_subject"`
	Name      string       `bun:""`
	Email     string       `bun:""`
	AvatarURL string       `bun:"avatar_url"`
	CreatedAt bun.NullTime `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt bun.NullTime `bun:",nullzero,notnull,default:current_timestamp"`
}

func NewUser(provider, subject, name, email, avatarURL string) *User {
	return &User{
		ID:        uuid.Must(uuid.NewRandom()),
		Provider:  provider,
		Subject:   subject,
		Name:      name,
		Email:     email,
		AvatarURL: avatarURL,
	}
}
