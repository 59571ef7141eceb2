package stores

import "github.com/pkg/errors"

var (
	ErrNotFound        = errors.New("store not found")
	ErrProductNotFound = errors.New("product not found")
)

type Repo interface {
	// Upsert stores s, assigning an ID and a PublicKey when they are empty
	Upsert(s *Store) error
	// Delete removes the store and its products
	Delete(storeID string) error
	Get(storeID string) (*Store, error)
	GetByPublicKey(publicKey string) (*Store, error)
	List(offset, limit int) ([]*Store, error)
	ListByOwner(ownerID string) ([]*Store, error)

	UpsertProduct(p *Product) error
	ListProducts(storeID string, offset, limit int) ([]*Product, error)
}
