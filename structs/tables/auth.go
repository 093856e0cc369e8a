package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AdminUser struct {
	bun.BaseModel `bun:"table:admin_users,alias:au"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Email        string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	LastLogin    *time.Time `bun:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
