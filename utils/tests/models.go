package tests

import (
	"time"

	"github.com/hakuorm/haku/schema"
)

// User belongs to a Company, has one Account and many Pets; soft deleted
type User struct {
	ID        int64
	Name      string
	Email     string
	Age       uint
	Birthday  *time.Time
	CompanyID *int64
	Nickname  Slug
	Active    bool
	Settings  map[string]any
	Password  string
	CreatedAt *time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

func (u *User) Declare(d *schema.Declaration) {
	d.Entity("User", "users")
	d.Field("id", &u.ID).PrimaryKey().ReadOnly()
	d.Field("name", &u.Name).Rules("required", "len:3..32")
	d.Field("email", &u.Email).Rules("required", "emailAddress", "unique").UpdateRules("emailAddress")
	d.Field("age", &u.Age).Include()
	d.Field("birthday", &u.Birthday)
	d.Field("companyId", &u.CompanyID)
	d.Field("nickname", &u.Nickname).Include()
	d.Field("active", &u.Active).Include()
	d.Field("settings", &u.Settings)
	d.Field("password", &u.Password).Rules("required").UpdateRules().Omit()
	d.Field("createdAt", &u.CreatedAt).Timestamp()
	d.Field("updatedAt", &u.UpdatedAt).Timestamp()
	d.Field("deletedAt", &u.DeletedAt).Timestamp()
	d.BelongsTo("", "Company")
	d.HasOne("", "Account")
	d.HasMany("", "Pet")
}

type Company struct {
	ID   int64
	Name string
}

func (c *Company) Declare(d *schema.Declaration) {
	d.Entity("Company", "companies")
	d.Field("id", &c.ID).PrimaryKey().ReadOnly()
	d.Field("name", &c.Name).Rules("required")
	d.HasMany("employees", "User").ForeignKey("companyId")
}

type Account struct {
	ID     int64
	UserID int64
	Number string
}

func (a *Account) Declare(d *schema.Declaration) {
	d.Entity("Account", "accounts")
	d.Field("id", &a.ID).PrimaryKey().ReadOnly()
	d.Field("userId", &a.UserID).Rules("required")
	d.Field("number", &a.Number).Rules("required", "numeric")
	d.BelongsTo("", "User")
}

// Pet searchable by name through pets_search
type Pet struct {
	ID        int64
	UserID    int64
	Name      string
	DeletedAt *time.Time
}

func (p *Pet) Declare(d *schema.Declaration) {
	d.Entity("Pet", "pets")
	d.Field("id", &p.ID).PrimaryKey().ReadOnly()
	d.Field("userId", &p.UserID).Include()
	d.Field("name", &p.Name).Rules("required")
	d.Field("deletedAt", &p.DeletedAt).Timestamp()
	d.BelongsTo("owner", "User").ForeignKey("userId")
	d.Searchable("", "name")
}

// Todo soft deleted, validated todo item
type Todo struct {
	ID        int64
	Title     string
	Completed bool
	Priority  int
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (t *Todo) Declare(d *schema.Declaration) {
	d.Entity("Todo", "todos")
	d.Field("id", &t.ID).PrimaryKey().ReadOnly()
	d.Field("title", &t.Title).Rules("required", "len:3..64")
	d.Field("completed", &t.Completed).Include()
	d.Field("priority", &t.Priority).Include().Mutate(func(v any) any {
		if p, ok := v.(int); ok && p < 0 {
			return 0
		}
		return v
	})
	d.Field("tags", &t.Tags)
	d.Field("createdAt", &t.CreatedAt).TimestampDefault()
	d.Field("updatedAt", &t.UpdatedAt).Timestamp()
	d.Field("deletedAt", &t.DeletedAt).Timestamp()
}

// Place spatial model with a computed distance
type Place struct {
	ID       int64
	Name     string
	Location schema.Point
	Distance *float64
}

func (p *Place) Declare(d *schema.Declaration) {
	d.Entity("Place", "places")
	d.Field("id", &p.ID).PrimaryKey().ReadOnly()
	d.Field("name", &p.Name).Rules("required")
	d.Field("location", &p.Location).Spatial()
	d.Field("distance", &p.Distance).Aggregate("ST_Distance_Sphere(places.location, POINT(0, 0))")
}

// Factories every test model
func Factories() []schema.Factory {
	return []schema.Factory{
		func() schema.Declarer { return &User{} },
		func() schema.Declarer { return &Company{} },
		func() schema.Declarer { return &Account{} },
		func() schema.Declarer { return &Pet{} },
		func() schema.Declarer { return &Todo{} },
		func() schema.Declarer { return &Place{} },
	}
}
