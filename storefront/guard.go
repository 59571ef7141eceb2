package storefront

import (
	apperrors "github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/pkg/errors"
)

// CheckOwnership refuses a write unless the store's recorded owner is the session owner.
// It never touches the network.
func CheckOwnership(session sessions.Session, store Store) error {
	if session.OwnerID == "" {
		return errors.Wrapf(apperrors.ErrNoSession, "store %s", store.ID)
	}
	if store.OwnerID() != session.OwnerID {
		return errors.Wrapf(apperrors.ErrNotOwner, "store %s", store.ID)
	}
	return nil
}
