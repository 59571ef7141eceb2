package owners

import "github.com/pkg/errors"

var (
	ErrNotFound    = errors.New("owner not found")
	ErrEmailExists = errors.New("an owner with this email already exists")
)

type Repo interface {
	// Create stores a new owner, assigning an ID when empty. It fails with ErrEmailExists on a duplicate email.
	Create(owner *Owner) error
	Upsert(owner *Owner) error
	Delete(email string) error
	GetByEmail(email string) (*Owner, error)
	GetByID(ID string) (*Owner, error)
	List(offset, limit int) ([]*Owner, error)
}
