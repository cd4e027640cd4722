package domain

import (
	"fmt"
	"strings"
	"time"
)

// ResourceKind names a catalog collection.
type ResourceKind string

const (
	KindCattle  ResourceKind = "cattle"
	KindProduct ResourceKind = "product"
	KindNews    ResourceKind = "news"
)

// ResourceKinds lists every catalog kind in a stable order.
var ResourceKinds = []ResourceKind{KindCattle, KindProduct, KindNews}

// ProducerRoles is the capability set allowed to create entries of each kind.
var ProducerRoles = map[ResourceKind][]Role{
	KindCattle:  {RoleFarmer},
	KindProduct: {RoleSeller},
	KindNews:    {RoleAdmin, RoleVeterinarian},
}

// ResourceMeta is the ownership header shared by every catalog entry.
// OwnerID is a lookup key to the creating Account.
type ResourceMeta struct {
	ID        string    `json:"id" bson:"_id"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (m *ResourceMeta) Meta() *ResourceMeta { return m }

// Resource is an owned catalog entry.
type Resource interface {
	Meta() *ResourceMeta
	Validate() error
}

// ResourceFilter narrows catalog listings. Empty fields do not filter.
type ResourceFilter struct {
	OwnerID  string
	Status   string
	Category string
	Limit    int
}

// CattleStatus is the soft availability state of a listing; any status may follow any other.
type CattleStatus string

const (
	CattleAvailable CattleStatus = "available"
	CattleReserved  CattleStatus = "reserved"
	CattleSold      CattleStatus = "sold"
)

// Cattle is a livestock listing published by a farmer.
type Cattle struct {
	ResourceMeta `bson:",inline"`
	Title        string       `json:"title" bson:"title"`
	Breed        string       `json:"breed" bson:"breed"`
	Gender       string       `json:"gender,omitempty" bson:"gender,omitempty"`
	AgeMonths    int          `json:"age_months" bson:"age_months"`
	WeightKg     float64      `json:"weight_kg" bson:"weight_kg"`
	Price        float64      `json:"price" bson:"price"`
	Location     string       `json:"location,omitempty" bson:"location,omitempty"`
	Description  string       `json:"description,omitempty" bson:"description,omitempty"`
	Status       CattleStatus `json:"status" bson:"status"`
}

func (c *Cattle) Validate() error {
	if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.Breed) == "" {
		return fmt.Errorf("%w: title and breed are required", ErrValidation)
	}
	if c.Price < 0 || c.WeightKg < 0 || c.AgeMonths < 0 {
		return fmt.Errorf("%w: price, weight and age cannot be negative", ErrValidation)
	}
	switch c.Status {
	case "":
		c.Status = CattleAvailable
	case CattleAvailable, CattleReserved, CattleSold:
	default:
		return fmt.Errorf("%w: unknown cattle status %q", ErrValidation, c.Status)
	}
	return nil
}

// Product is a supply item offered by a seller.
type Product struct {
	ResourceMeta `bson:",inline"`
	Name         string  `json:"name" bson:"name"`
	Category     string  `json:"category" bson:"category"`
	Description  string  `json:"description,omitempty" bson:"description,omitempty"`
	Price        float64 `json:"price" bson:"price"`
	Unit         string  `json:"unit,omitempty" bson:"unit,omitempty"`
	Stock        int     `json:"stock" bson:"stock"`
}

func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("%w: name and category are required", ErrValidation)
	}
	if p.Price < 0 || p.Stock < 0 {
		return fmt.Errorf("%w: price and stock cannot be negative", ErrValidation)
	}
	return nil
}

// NewsItem is an article published by an admin or veterinarian.
type NewsItem struct {
	ResourceMeta `bson:",inline"`
	Title        string `json:"title" bson:"title"`
	Summary      string `json:"summary,omitempty" bson:"summary,omitempty"`
	Body         string `json:"body" bson:"body"`
	Category     string `json:"category,omitempty" bson:"category,omitempty"`
	SourceURL    string `json:"source_url,omitempty" bson:"source_url,omitempty"`
}

func (n *NewsItem) Validate() error {
	if strings.TrimSpace(n.Title) == "" || strings.TrimSpace(n.Body) == "" {
		return fmt.Errorf("%w: title and body are required", ErrValidation)
	}
	return nil
}

// DashboardStats aggregates entity counts for the admin dashboard.
type DashboardStats struct {
	Accounts       int64                  `json:"accounts"`
	AccountsByRole map[Role]int64         `json:"accounts_by_role"`
	Resources      map[ResourceKind]int64 `json:"resources"`
	Appointments   int64                  `json:"appointments"`
	Ratings        int64                  `json:"ratings"`
}
