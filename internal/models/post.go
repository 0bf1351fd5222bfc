package models

import (
	"time"

	"github.com/hakuorm/haku/schema"
)

type Post struct {
	ID        int64
	UserID    int64
	Title     string
	Body      string
	CreatedAt *time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

func (p *Post) Declare(d *schema.Declaration) {
	d.Entity("Post", "posts")
	d.Field("id", &p.ID).PrimaryKey().ReadOnly()
	d.Field("userId", &p.UserID).Rules("required")
	d.Field("title", &p.Title).Rules("required", "len:..191")
	d.Field("body", &p.Body).ColumnType("TEXT NOT NULL")
	d.Field("createdAt", &p.CreatedAt).Timestamp()
	d.Field("updatedAt", &p.UpdatedAt).Timestamp()
	d.Field("deletedAt", &p.DeletedAt).Timestamp()
	d.BelongsTo("", "User")
	d.Searchable("", "title", "body")
}
