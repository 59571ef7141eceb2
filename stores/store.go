package stores

// Store is a tenant of the storefront. Each store has a public key that lets
// anonymous visitors list its products and nothing else.
type Store struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Categories     []string `json:"categories"`
	PaymentMethods []string `json:"payment_methods"`
	PublicKey      string   `json:"public_key"`
	OwnerID        string   `json:"owner_id"`
}

// Product is an item sold by a store
type Product struct {
	ID          string  `json:"id"`
	StoreID     string  `json:"store_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}
