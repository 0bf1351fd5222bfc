package models

import (
	"time"

	"github.com/hakuorm/haku/schema"
)

type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt *time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

func (u *User) Declare(d *schema.Declaration) {
	d.Entity("User", "users")
	d.Field("id", &u.ID).PrimaryKey().ReadOnly()
	d.Field("name", &u.Name).Rules("required", "len:..64")
	d.Field("email", &u.Email).Rules("required", "emailAddress", "unique")
	d.Field("createdAt", &u.CreatedAt).Timestamp()
	d.Field("updatedAt", &u.UpdatedAt).Timestamp()
	d.Field("deletedAt", &u.DeletedAt).Timestamp()
	d.HasMany("", "Post")
}
