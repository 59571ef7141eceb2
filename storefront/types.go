package storefront

import (
	"github.com/jrsteele09/go-storefront/sessions"
)

// LoginResult is what the login mutation returns
type LoginResult struct {
	TTL    sessions.TTL `json:"ttl"`
	Secret string       `json:"secret"`
	Email  string       `json:"email"`
}

// OwnerRef is the owner as embedded in a store
type OwnerRef struct {
	ID    string `json:"_id"`
	Email string `json:"email,omitempty"`
}

// Owner is an account that owns stores
type Owner struct {
	ID     string  `json:"_id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Stores []Store `json:"-"`
}

// Store is a tenant of the storefront, managed by its owner
type Store struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Categories     []string  `json:"categories"`
	PaymentMethods []string  `json:"paymentMethods"`
	PublicKey      string    `json:"publicKey,omitempty"`
	Owner          *OwnerRef `json:"owner,omitempty"`
}

// OwnerID returns the id of the recorded owner, empty when the store has none
func (s Store) OwnerID() string {
	if s.Owner == nil {
		return ""
	}
	return s.Owner.ID
}

// Shop is the visitor-facing listing of a store
type Shop struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	PublicKey string `json:"publicKey"`
}

// Product is an item sold by a shop
type Product struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

// PlaceholderImage is shown for products without an image
const PlaceholderImage = "https://images.unsplash.com/photo-1636390785299-b4df455163dd"

// ImageOrPlaceholder returns the product image, or PlaceholderImage when it has none
func (p Product) ImageOrPlaceholder() string {
	if p.Image == "" {
		return PlaceholderImage
	}
	return p.Image
}

// StoreInput is the editable part of a store
type StoreInput struct {
	Name           string
	Email          string
	Categories     []string
	PaymentMethods []string
}

// ProductInput is the editable part of a product
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Image       string
}

type page[T any] struct {
	Data []T `json:"data"`
}

type ownerDocument struct {
	ID     string       `json:"_id"`
	Name   string       `json:"name"`
	Email  string       `json:"email"`
	Stores *page[Store] `json:"stores"`
}

func (d ownerDocument) toOwner() Owner {
	owner := Owner{ID: d.ID, Name: d.Name, Email: d.Email}
	if d.Stores != nil {
		owner.Stores = d.Stores.Data
	}
	return owner
}
