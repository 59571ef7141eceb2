package fakeownerrepo

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-storefront/owners"
)

var _ owners.Repo = (*FakeOwnerRepo)(nil)

type FakeOwnerRepo struct {
	owners   map[string]*owners.Owner
	emailIds map[string]string // email to owner id
	lock     sync.RWMutex
}

func NewFakeOwnerRepo() owners.Repo {
	return &FakeOwnerRepo{
		owners:   make(map[string]*owners.Owner),
		emailIds: make(map[string]string),
	}
}

func (or *FakeOwnerRepo) Create(owner *owners.Owner) error {
	or.lock.Lock()
	defer or.lock.Unlock()

	email := owners.NormalizeEmail(owner.Email)
	if _, ok := or.emailIds[email]; ok {
		return owners.ErrEmailExists
	}
	or.put(owner)
	return nil
}

func (or *FakeOwnerRepo) Upsert(owner *owners.Owner) error {
	or.lock.Lock()
	defer or.lock.Unlock()

	or.put(owner)
	return nil
}

func (or *FakeOwnerRepo) put(owner *owners.Owner) {
	if owner.ID == "" {
		owner.ID = uuid.New().String()
	}
	owner.Email = owners.NormalizeEmail(owner.Email)
	copied := *owner
	or.owners[owner.ID] = &copied
	or.emailIds[owner.Email] = owner.ID
}

func (or *FakeOwnerRepo) Delete(email string) error {
	or.lock.Lock()
	defer or.lock.Unlock()

	email = owners.NormalizeEmail(email)
	ownerID, ok := or.emailIds[email]
	if !ok {
		return owners.ErrNotFound
	}
	delete(or.emailIds, email)
	delete(or.owners, ownerID)
	return nil
}

func (or *FakeOwnerRepo) GetByEmail(email string) (*owners.Owner, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	ownerID, ok := or.emailIds[owners.NormalizeEmail(email)]
	if !ok {
		return nil, owners.ErrNotFound
	}
	copied := *or.owners[ownerID]
	return &copied, nil
}

func (or *FakeOwnerRepo) GetByID(id string) (*owners.Owner, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	owner, ok := or.owners[id]
	if !ok {
		return nil, owners.ErrNotFound
	}
	copied := *owner
	return &copied, nil
}

func (or *FakeOwnerRepo) List(offset, limit int) ([]*owners.Owner, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	ownerList := make([]*owners.Owner, 0, len(or.owners))
	for _, v := range or.owners {
		copied := *v
		ownerList = append(ownerList, &copied)
	}

	sort.Slice(ownerList, func(i, j int) bool {
		return ownerList[i].ID < ownerList[j].ID
	})

	if offset >= len(ownerList) {
		return []*owners.Owner{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(ownerList) {
		end = len(ownerList)
	}
	return ownerList[offset:end], nil
}
