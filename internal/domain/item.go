package domain

import "time"

type ItemStatus string

const (
	ItemStatusAvailable   ItemStatus = "Available"
	ItemStatusRented      ItemStatus = "Rented"
	ItemStatusMaintenance ItemStatus = "Maintenance"
)

type ItemCategory string

const (
	CategoryElectronics ItemCategory = "Electronics"
	CategoryBooks       ItemCategory = "Books"
	CategorySports      ItemCategory = "Sports"
	CategoryFurniture   ItemCategory = "Furniture"
	CategoryVehicles    ItemCategory = "Vehicles"
	CategoryClothing    ItemCategory = "Clothing"
	CategoryTools       ItemCategory = "Tools"
	CategoryOther       ItemCategory = "Other"
)

// Categories lists every category in display order.
var Categories = []ItemCategory{
	CategoryElectronics,
	CategoryBooks,
	CategorySports,
	CategoryFurniture,
	CategoryVehicles,
	CategoryClothing,
	CategoryTools,
	CategoryOther,
}

type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Item struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Category         ItemCategory `json:"category"`
	PricePerDayCents int64        `json:"price_per_day_cents"`
	// BaseDepositCents is nil when the item carries no deposit.
	BaseDepositCents *int64     `json:"base_deposit_cents,omitempty"`
	Owner            *Owner     `json:"owner,omitempty"`
	Status           ItemStatus `json:"status"`
	ImageURL         string     `json:"image_url,omitempty"`
	Location         string     `json:"location,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
	Features         []string   `json:"features,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// DepositCents returns the deposit or 0 when absent.
func (i *Item) DepositCents() int64 {
	if i.BaseDepositCents == nil || *i.BaseDepositCents < 0 {
		return 0
	}
	return *i.BaseDepositCents
}

// OwnerID returns the owner's id when the backend included the owner.
func (i *Item) OwnerID() string {
	if i.Owner == nil {
		return ""
	}
	return i.Owner.ID
}

// ItemFilter narrows a catalog listing. Empty fields match everything.
type ItemFilter struct {
	Category ItemCategory
	Status   ItemStatus
	Search   string
}

// ItemForm is what an owner submits when posting or editing a listing.
type ItemForm struct {
	Name             string       `json:"name" validate:"required,max=120"`
	Description      string       `json:"description" validate:"required"`
	Category         ItemCategory `json:"category" validate:"required,category"`
	PricePerDayCents int64        `json:"price_per_day_cents" validate:"gt=0"`
	BaseDepositCents *int64       `json:"base_deposit_cents,omitempty" validate:"omitempty,gte=0"`
	Status           ItemStatus   `json:"status,omitempty" validate:"omitempty,oneof=Available Rented Maintenance"`
	Location         string       `json:"location,omitempty"`
	Tags             []string     `json:"tags,omitempty"`
	Features         []string     `json:"features,omitempty"`
}
