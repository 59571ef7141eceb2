package storerepofakes

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-storefront/stores"
)

var _ stores.Repo = (*FakeStoreRepo)(nil)

type FakeStoreRepo struct {
	stores     map[string]*stores.Store
	publicKeys map[string]string // public key to store id
	products   map[string]*stores.Product
	lock       sync.RWMutex
}

func NewFakeStoreRepo() stores.Repo {
	return &FakeStoreRepo{
		stores:     make(map[string]*stores.Store),
		publicKeys: make(map[string]string),
		products:   make(map[string]*stores.Product),
	}
}

func (sr *FakeStoreRepo) Upsert(s *stores.Store) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.PublicKey == "" {
		s.PublicKey = uuid.New().String()
	}
	if previous, ok := sr.stores[s.ID]; ok && previous.PublicKey != s.PublicKey {
		delete(sr.publicKeys, previous.PublicKey)
	}
	sr.stores[s.ID] = copyStore(s)
	sr.publicKeys[s.PublicKey] = s.ID
	return nil
}

func (sr *FakeStoreRepo) Delete(storeID string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	s, ok := sr.stores[storeID]
	if !ok {
		return stores.ErrNotFound
	}
	delete(sr.publicKeys, s.PublicKey)
	delete(sr.stores, storeID)
	for id, p := range sr.products {
		if p.StoreID == storeID {
			delete(sr.products, id)
		}
	}
	return nil
}

func (sr *FakeStoreRepo) Get(storeID string) (*stores.Store, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	s, ok := sr.stores[storeID]
	if !ok {
		return nil, stores.ErrNotFound
	}
	return copyStore(s), nil
}

func (sr *FakeStoreRepo) GetByPublicKey(publicKey string) (*stores.Store, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	storeID, ok := sr.publicKeys[publicKey]
	if !ok {
		return nil, stores.ErrNotFound
	}
	return copyStore(sr.stores[storeID]), nil
}

func (sr *FakeStoreRepo) List(offset, limit int) ([]*stores.Store, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	storeList := make([]*stores.Store, 0, len(sr.stores))
	for _, s := range sr.stores {
		storeList = append(storeList, copyStore(s))
	}
	sortStores(storeList)
	return window(storeList, offset, limit), nil
}

func (sr *FakeStoreRepo) ListByOwner(ownerID string) ([]*stores.Store, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	storeList := make([]*stores.Store, 0)
	for _, s := range sr.stores {
		if s.OwnerID == ownerID {
			storeList = append(storeList, copyStore(s))
		}
	}
	sortStores(storeList)
	return storeList, nil
}

func (sr *FakeStoreRepo) UpsertProduct(p *stores.Product) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	if _, ok := sr.stores[p.StoreID]; !ok {
		return stores.ErrNotFound
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	copied := *p
	sr.products[p.ID] = &copied
	return nil
}

func (sr *FakeStoreRepo) ListProducts(storeID string, offset, limit int) ([]*stores.Product, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	productList := make([]*stores.Product, 0)
	for _, p := range sr.products {
		if p.StoreID == storeID {
			copied := *p
			productList = append(productList, &copied)
		}
	}
	sort.Slice(productList, func(i, j int) bool {
		if productList[i].Name != productList[j].Name {
			return productList[i].Name < productList[j].Name
		}
		return productList[i].ID < productList[j].ID
	})
	return window(productList, offset, limit), nil
}

func copyStore(s *stores.Store) *stores.Store {
	copied := *s
	copied.Categories = append([]string(nil), s.Categories...)
	copied.PaymentMethods = append([]string(nil), s.PaymentMethods...)
	return &copied
}

func sortStores(list []*stores.Store) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}

// window returns list[offset:offset+limit]; a non-positive limit means no limit
func window[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
