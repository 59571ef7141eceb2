package devapi

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/graph-gophers/graphql-go"
	"github.com/jrsteele09/go-storefront/internal/utils"
	"github.com/jrsteele09/go-storefront/owners"
	"github.com/jrsteele09/go-storefront/stores"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const defaultPageSize = 64

// Resolver is the root resolver for queries and mutations
type Resolver struct {
	owners owners.Repo
	stores stores.Repo
	keys   *Keyring
}

type pageArgs struct {
	Size   *int32
	Cursor *string
}

func (a pageArgs) bounds() (offset, size int, err error) {
	size = defaultPageSize
	if a.Size != nil {
		if *a.Size <= 0 {
			return 0, 0, errInvalidArgument("_size must be positive")
		}
		size = int(*a.Size)
	}
	if a.Cursor != nil && *a.Cursor != "" {
		offset, err = strconv.Atoi(*a.Cursor)
		if err != nil || offset < 0 {
			return 0, 0, errInvalidArgument("invalid _cursor")
		}
	}
	return offset, size, nil
}

// after is the cursor of the next page, nil when fetched holds no more than one page
func after(offset, size, fetched int) *string {
	if fetched <= size {
		return nil
	}
	return utils.Ptr(strconv.Itoa(offset + size))
}

type ownerRelation struct {
	Connect *graphql.ID
}

type storeInput struct {
	Name           string
	Email          *string
	Categories     *[]*string
	PaymentMethods *[]*string
	Owner          *ownerRelation
}

type storeRelation struct {
	Connect *graphql.ID
}

type productInput struct {
	Name        string
	Description *string
	Price       float64
	Image       *string
	Store       *storeRelation
}

func (r *Resolver) Login(ctx context.Context, args struct {
	Email    string
	Password string
}) (*loginResolver, error) {
	owner, err := r.owners.GetByEmail(args.Email)
	if err != nil || !owner.CheckPassword(args.Password) {
		log.Debug().Str("email", args.Email).Msg("Login refused")
		return nil, errAuthenticationFailed
	}

	secret, expires := r.keys.Issue(owner.ID)
	owner.LastLogin = r.keys.now()
	if err := r.owners.Upsert(owner); err != nil {
		return nil, errors.Wrap(err, "[Resolver Login] record last login")
	}

	return &loginResolver{ttl: expires.UTC().Format(time.RFC3339), secret: secret, email: owner.Email}, nil
}

func (r *Resolver) RegisterOwner(ctx context.Context, args struct {
	Email    string
	Name     string
	Password string
}) (*ownerResolver, error) {
	email := owners.NormalizeEmail(args.Email)
	if err := owners.ValidateEmail(email); err != nil {
		return nil, errInvalidArgument(err.Error())
	}
	if strings.TrimSpace(args.Name) == "" {
		return nil, errInvalidArgument("name is required")
	}
	if err := owners.ValidatePasswordStrength(args.Password); err != nil {
		return nil, errInvalidArgument(err.Error())
	}

	hash, err := owners.HashPassword(args.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver RegisterOwner]")
	}

	owner := &owners.Owner{
		Email:        email,
		Name:         strings.TrimSpace(args.Name),
		PasswordHash: hash,
		DateJoined:   r.keys.now(),
	}
	if err := r.owners.Create(owner); err != nil {
		if errors.Is(err, owners.ErrEmailExists) {
			return nil, errInstanceNotUnique
		}
		return nil, errors.Wrap(err, "[Resolver RegisterOwner]")
	}

	log.Info().Str("owner_id", owner.ID).Str("email", owner.Email).Msg("Owner registered")
	return &ownerResolver{owner: owner, r: r}, nil
}

func (r *Resolver) FindOwnerByEmail(ctx context.Context, args struct{ Email string }) (*ownerResolver, error) {
	p := PrincipalFromContext(ctx)
	if p.Role != RoleOwner {
		return nil, errPermissionDenied
	}

	owner, err := r.owners.GetByEmail(args.Email)
	if errors.Is(err, owners.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver FindOwnerByEmail]")
	}
	if owner.ID != p.OwnerID {
		return nil, errPermissionDenied
	}
	return &ownerResolver{owner: owner, r: r}, nil
}

func (r *Resolver) FindStoreByID(ctx context.Context, args struct{ ID graphql.ID }) (*storeResolver, error) {
	p := PrincipalFromContext(ctx)
	switch p.Role {
	case RoleOwner:
	case RoleStore:
		if p.StoreID != string(args.ID) {
			return nil, errPermissionDenied
		}
	default:
		return nil, errPermissionDenied
	}

	store, err := r.stores.Get(string(args.ID))
	if errors.Is(err, stores.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver FindStoreByID]")
	}
	return &storeResolver{store: store, r: r}, nil
}

func (r *Resolver) AllShops(ctx context.Context, args pageArgs) (*shopPageResolver, error) {
	p := PrincipalFromContext(ctx)
	if p.Role != RoleGuest && p.Role != RoleOwner {
		return nil, errPermissionDenied
	}

	offset, size, err := args.bounds()
	if err != nil {
		return nil, err
	}
	list, err := r.stores.List(offset, size+1)
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver AllShops]")
	}

	page := &shopPageResolver{after: after(offset, size, len(list))}
	for i, s := range list {
		if i == size {
			break
		}
		page.data = append(page.data, &shopResolver{store: s})
	}
	return page, nil
}

func (r *Resolver) AllProducts(ctx context.Context, args pageArgs) (*productPageResolver, error) {
	p := PrincipalFromContext(ctx)
	if p.Role != RoleStore {
		return nil, errPermissionDenied
	}
	return r.products(p.StoreID, args)
}

func (r *Resolver) CreateStore(ctx context.Context, args struct{ Data storeInput }) (*storeResolver, error) {
	p := PrincipalFromContext(ctx)
	if p.Role != RoleOwner {
		return nil, errPermissionDenied
	}
	if args.Data.Owner != nil && args.Data.Owner.Connect != nil && string(*args.Data.Owner.Connect) != p.OwnerID {
		return nil, errPermissionDenied
	}
	if strings.TrimSpace(args.Data.Name) == "" {
		return nil, errInvalidArgument("name is required")
	}

	store := &stores.Store{OwnerID: p.OwnerID}
	applyStoreInput(store, args.Data)
	if err := r.stores.Upsert(store); err != nil {
		return nil, errors.Wrap(err, "[Resolver CreateStore]")
	}

	log.Info().Str("store_id", store.ID).Str("owner_id", p.OwnerID).Msg("Store created")
	return &storeResolver{store: store, r: r}, nil
}

func (r *Resolver) UpdateStore(ctx context.Context, args struct {
	ID   graphql.ID
	Data storeInput
}) (*storeResolver, error) {
	store, err := r.ownedStore(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(args.Data.Name) == "" {
		return nil, errInvalidArgument("name is required")
	}

	applyStoreInput(store, args.Data)
	if err := r.stores.Upsert(store); err != nil {
		return nil, errors.Wrap(err, "[Resolver UpdateStore]")
	}
	return &storeResolver{store: store, r: r}, nil
}

func (r *Resolver) DeleteStore(ctx context.Context, args struct{ ID graphql.ID }) (*storeResolver, error) {
	store, err := r.ownedStore(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	if err := r.stores.Delete(store.ID); err != nil {
		return nil, errors.Wrap(err, "[Resolver DeleteStore]")
	}

	log.Info().Str("store_id", store.ID).Msg("Store deleted")
	return &storeResolver{store: store, r: r}, nil
}

func (r *Resolver) CreateProduct(ctx context.Context, args struct{ Data productInput }) (*productResolver, error) {
	if args.Data.Store == nil || args.Data.Store.Connect == nil {
		return nil, errInvalidArgument("store is required")
	}
	store, err := r.ownedStore(ctx, string(*args.Data.Store.Connect))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(args.Data.Name) == "" {
		return nil, errInvalidArgument("name is required")
	}
	if args.Data.Price < 0 {
		return nil, errInvalidArgument("price must not be negative")
	}

	product := &stores.Product{
		StoreID:     store.ID,
		Name:        strings.TrimSpace(args.Data.Name),
		Description: utils.Value(args.Data.Description),
		Price:       args.Data.Price,
		Image:       utils.Value(args.Data.Image),
	}
	if err := r.stores.UpsertProduct(product); err != nil {
		return nil, errors.Wrap(err, "[Resolver CreateProduct]")
	}
	return &productResolver{product: product}, nil
}

// ownedStore loads a store the calling owner may write to
func (r *Resolver) ownedStore(ctx context.Context, storeID string) (*stores.Store, error) {
	p := PrincipalFromContext(ctx)
	if p.Role != RoleOwner {
		return nil, errPermissionDenied
	}

	store, err := r.stores.Get(storeID)
	if errors.Is(err, stores.ErrNotFound) {
		return nil, errInstanceNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver ownedStore]")
	}
	if store.OwnerID != p.OwnerID {
		log.Warn().Str("store_id", storeID).Str("owner_id", p.OwnerID).Msg("Write to a foreign store refused")
		return nil, errPermissionDenied
	}
	return store, nil
}

func (r *Resolver) products(storeID string, args pageArgs) (*productPageResolver, error) {
	offset, size, err := args.bounds()
	if err != nil {
		return nil, err
	}
	list, err := r.stores.ListProducts(storeID, offset, size+1)
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver products]")
	}

	page := &productPageResolver{after: after(offset, size, len(list))}
	for i, p := range list {
		if i == size {
			break
		}
		page.data = append(page.data, &productResolver{product: p})
	}
	return page, nil
}

func applyStoreInput(store *stores.Store, input storeInput) {
	store.Name = strings.TrimSpace(input.Name)
	if input.Email != nil {
		store.Email = *input.Email
	}
	if input.Categories != nil {
		store.Categories = utils.Strings(input.Categories)
	}
	if input.PaymentMethods != nil {
		store.PaymentMethods = utils.Strings(input.PaymentMethods)
	}
}

type loginResolver struct {
	ttl    string
	secret string
	email  string
}

func (l *loginResolver) TTL() *string  { return utils.OptionalString(l.ttl) }
func (l *loginResolver) Secret() string { return l.secret }
func (l *loginResolver) Email() string  { return l.email }

type ownerResolver struct {
	owner *owners.Owner
	r     *Resolver
}

func (o *ownerResolver) ID() graphql.ID { return graphql.ID(o.owner.ID) }
func (o *ownerResolver) Name() string   { return o.owner.Name }
func (o *ownerResolver) Email() string  { return o.owner.Email }

// Stores lists the owner's stores, for that owner only
func (o *ownerResolver) Stores(ctx context.Context, args pageArgs) (*storePageResolver, error) {
	if !ownsStore(PrincipalFromContext(ctx), o.owner.ID) {
		return nil, errPermissionDenied
	}
	offset, size, err := args.bounds()
	if err != nil {
		return nil, err
	}
	list, err := o.r.stores.ListByOwner(o.owner.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[ownerResolver Stores]")
	}

	page := &storePageResolver{after: after(offset, size, len(list)-offset)}
	for i := offset; i < len(list) && i < offset+size; i++ {
		page.data = append(page.data, &storeResolver{store: list[i], r: o.r})
	}
	return page, nil
}

type storeResolver struct {
	store *stores.Store
	r     *Resolver
}

func (s *storeResolver) ID() graphql.ID           { return graphql.ID(s.store.ID) }
func (s *storeResolver) Name() string             { return s.store.Name }
func (s *storeResolver) Email() *string           { return utils.OptionalString(s.store.Email) }
func (s *storeResolver) Categories() []string     { return nonNil(s.store.Categories) }
func (s *storeResolver) PaymentMethods() []string { return nonNil(s.store.PaymentMethods) }
func (s *storeResolver) PublicKey() *string       { return utils.OptionalString(s.store.PublicKey) }

// Owner is null unless the caller is the owner, so a public key or another owner never reaches the owner's account
func (s *storeResolver) Owner(ctx context.Context) (*ownerResolver, error) {
	if !ownsStore(PrincipalFromContext(ctx), s.store.OwnerID) {
		return nil, nil
	}
	owner, err := s.r.owners.GetByID(s.store.OwnerID)
	if errors.Is(err, owners.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[storeResolver Owner]")
	}
	return &ownerResolver{owner: owner, r: s.r}, nil
}

// Products is readable by the store's owner and with the store's own public key
func (s *storeResolver) Products(ctx context.Context, args pageArgs) (*productPageResolver, error) {
	p := PrincipalFromContext(ctx)
	if !ownsStore(p, s.store.OwnerID) && !(p.Role == RoleStore && p.StoreID == s.store.ID) {
		return nil, errPermissionDenied
	}
	return s.r.products(s.store.ID, args)
}

func ownsStore(p Principal, ownerID string) bool {
	return p.Role == RoleOwner && ownerID != "" && p.OwnerID == ownerID
}

type shopResolver struct {
	store *stores.Store
}

func (s *shopResolver) ID() graphql.ID     { return graphql.ID(s.store.ID) }
func (s *shopResolver) Name() string       { return s.store.Name }
func (s *shopResolver) PublicKey() *string { return utils.OptionalString(s.store.PublicKey) }

type productResolver struct {
	product *stores.Product
}

func (p *productResolver) ID() graphql.ID       { return graphql.ID(p.product.ID) }
func (p *productResolver) Name() string         { return p.product.Name }
func (p *productResolver) Description() *string { return utils.OptionalString(p.product.Description) }
func (p *productResolver) Price() float64       { return p.product.Price }
func (p *productResolver) Image() *string       { return utils.OptionalString(p.product.Image) }

type storePageResolver struct {
	data  []*storeResolver
	after *string
}

func (p *storePageResolver) Data() []*storeResolver { return nonNil(p.data) }
func (p *storePageResolver) After() *string         { return p.after }

type shopPageResolver struct {
	data  []*shopResolver
	after *string
}

func (p *shopPageResolver) Data() []*shopResolver { return nonNil(p.data) }
func (p *shopPageResolver) After() *string        { return p.after }

type productPageResolver struct {
	data  []*productResolver
	after *string
}

func (p *productPageResolver) Data() []*productResolver { return nonNil(p.data) }
func (p *productPageResolver) After() *string           { return p.after }

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
