// Package storefront holds the typed API operations of the storefront and the
// rules that gate them: the login flow that produces a session and the
// ownership guard that runs before any write against a store.
package storefront

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jrsteele09/go-storefront/authctx"
	"github.com/jrsteele09/go-storefront/graphql"
	apperrors "github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/internal/metrics"
	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Service runs storefront operations through a dispatcher.
// Credentials come from the dispatcher's auth-context provider, normally the
// session or override carried by ctx (see authctx.WithSession, authctx.WithOverride).
type Service struct {
	client  *graphql.Client
	metrics *metrics.Manager
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithMetrics counts refused writes
func WithMetrics(m *metrics.Manager) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(client *graphql.Client, options ...ServiceOption) (*Service, error) {
	if client == nil {
		return nil, errors.New("[NewService] graphql client is required")
	}
	s := &Service{client: client}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// WithProvider returns a service whose requests authenticate with p, ignoring the session in ctx
func (s *Service) WithProvider(p authctx.Provider) *Service {
	clone := *s
	clone.client = s.client.WithProvider(p)
	return &clone
}

// Login exchanges credentials for a secret
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if email == "" || password == "" {
		return LoginResult{}, errors.Wrap(apperrors.ErrInvalidRequest, "[Service Login] email and password are required")
	}

	var out struct {
		Login *LoginResult `json:"login"`
	}
	err := s.client.Do(ctx, graphql.Request{
		Query:         loginMutation,
		OperationName: opLogin,
		Variables:     map[string]interface{}{"email": email, "password": password},
	}, &out)
	if err != nil {
		switch graphql.KindOf(err) {
		case graphql.KindGraphQL, graphql.KindUnauthorized:
			return LoginResult{}, fmt.Errorf("[Service Login] %w: %w", apperrors.ErrInvalidCredentials, err)
		default:
			return LoginResult{}, errors.Wrap(err, "[Service Login]")
		}
	}
	if out.Login == nil || out.Login.Secret == "" {
		return LoginResult{}, errors.Wrap(apperrors.ErrInvalidCredentials, "[Service Login] no secret issued")
	}
	if out.Login.Email == "" {
		out.Login.Email = email
	}
	return *out.Login, nil
}

// SignIn logs in and completes the session with the owner's id, looked up with the newly issued secret.
func (s *Service) SignIn(ctx context.Context, email, password string) (sessions.Session, error) {
	result, err := s.Login(ctx, email, password)
	if err != nil {
		return sessions.Session{}, err
	}

	owner, err := s.findOwnerByEmail(ctx, s.client.WithProvider(authctx.Override(result.Secret)), result.Email)
	if err != nil {
		return sessions.Session{}, errors.Wrap(err, "[Service SignIn] owner lookup")
	}

	log.Info().Str("email", result.Email).Str("owner_id", owner.ID).Msg("Owner signed in")
	return sessions.New(result.Email, owner.ID, result.Secret, result.TTL), nil
}

// RegisterOwner creates an owner account
func (s *Service) RegisterOwner(ctx context.Context, email, name, password string) (Owner, error) {
	if email == "" || name == "" || password == "" {
		return Owner{}, errors.Wrap(apperrors.ErrInvalidRequest, "[Service RegisterOwner] email, name and password are required")
	}

	var out struct {
		RegisterOwner *ownerDocument `json:"registerOwner"`
	}
	err := s.client.Do(ctx, graphql.Request{
		Query:         registerOwnerMutation,
		OperationName: opRegisterOwner,
		Variables:     map[string]interface{}{"email": email, "name": name, "password": password},
	}, &out)
	if err != nil {
		return Owner{}, errors.Wrap(err, "[Service RegisterOwner]")
	}
	if out.RegisterOwner == nil {
		return Owner{}, errors.Wrap(apperrors.ErrInternal, "[Service RegisterOwner] empty response")
	}
	return out.RegisterOwner.toOwner(), nil
}

// FindOwnerByEmail returns the owner and their stores
func (s *Service) FindOwnerByEmail(ctx context.Context, email string) (Owner, error) {
	return s.findOwnerByEmail(ctx, s.client, email)
}

func (s *Service) findOwnerByEmail(ctx context.Context, client *graphql.Client, email string) (Owner, error) {
	var out struct {
		FindOwnerByEmail *ownerDocument `json:"findOwnerByEmail"`
	}
	err := client.Do(ctx, graphql.Request{
		Query:         findOwnerByEmailQuery,
		OperationName: opFindOwnerByEmail,
		Variables:     map[string]interface{}{"email": email},
	}, &out)
	if err != nil {
		return Owner{}, errors.Wrap(err, "[Service FindOwnerByEmail]")
	}
	if out.FindOwnerByEmail == nil {
		return Owner{}, errors.Wrapf(apperrors.ErrOwnerNotFound, "[Service FindOwnerByEmail] %s", email)
	}
	return out.FindOwnerByEmail.toOwner(), nil
}

// CreateStore creates a store owned by the session's owner
func (s *Service) CreateStore(ctx context.Context, session sessions.Session, input StoreInput) (Store, error) {
	if session.OwnerID == "" {
		return Store{}, errors.Wrap(apperrors.ErrNoSession, "[Service CreateStore]")
	}
	if err := validateStoreInput(input); err != nil {
		return Store{}, errors.Wrap(err, "[Service CreateStore]")
	}

	var out struct {
		CreateStore *Store `json:"createStore"`
	}
	err := s.client.Do(ctx, graphql.Request{
		Query:         createStoreMutation,
		OperationName: opCreateStore,
		Variables: map[string]interface{}{
			"name":           input.Name,
			"email":          input.Email,
			"categories":     nonNil(input.Categories),
			"paymentMethods": nonNil(input.PaymentMethods),
			"ownerID":        session.OwnerID,
		},
	}, &out)
	if err != nil {
		return Store{}, errors.Wrap(err, "[Service CreateStore]")
	}
	if out.CreateStore == nil {
		return Store{}, errors.Wrap(apperrors.ErrInternal, "[Service CreateStore] empty response")
	}
	return *out.CreateStore, nil
}

// FindStoreByID loads a store with its owner
func (s *Service) FindStoreByID(ctx context.Context, id string) (Store, error) {
	if id == "" {
		return Store{}, errors.Wrap(apperrors.ErrInvalidRequest, "[Service FindStoreByID] id is required")
	}

	var out struct {
		FindStoreByID *Store `json:"findStoreByID"`
	}
	err := s.client.Do(ctx, graphql.Request{
		Query:         findStoreByIDQuery,
		OperationName: opFindStoreByID,
		Variables:     map[string]interface{}{"id": id},
	}, &out)
	if err != nil {
		return Store{}, errors.Wrap(err, "[Service FindStoreByID]")
	}
	if out.FindStoreByID == nil {
		return Store{}, errors.Wrapf(apperrors.ErrStoreNotFound, "[Service FindStoreByID] %s", id)
	}
	return *out.FindStoreByID, nil
}

// UpdateStore replaces the editable fields of current. The write is only sent when the session owns current.
func (s *Service) UpdateStore(ctx context.Context, session sessions.Session, current Store, input StoreInput) (Store, error) {
	if err := s.guard(session, current); err != nil {
		return Store{}, errors.Wrap(err, "[Service UpdateStore]")
	}
	if err := validateStoreInput(input); err != nil {
		return Store{}, errors.Wrap(err, "[Service UpdateStore]")
	}

	var out struct {
		UpdateStore *Store `json:"updateStore"`
	}
	err := s.client.Do(ctx, graphql.Request{
		Query:         updateStoreMutation,
		OperationName: opUpdateStore,
		Variables: map[string]interface{}{
			"id": current.ID,
			"input": map[string]interface{}{
				"name":           input.Name,
				"email":          input.Email,
				"categories":     nonNil(input.Categories),
				"paymentMethods": nonNil(input.PaymentMethods),
			},
		},
	}, &out)
	if err != nil {
		return Store{}, errors.Wrap(err, "[Service UpdateStore]")
	}
	if out.UpdateStore == nil {
		return Store{}, errors.Wrapf(apperrors.ErrStoreNotFound, "[Service UpdateStore] %s", current.ID)
	}
	return *out.UpdateStore, nil
}

// DeleteStore removes current when the session owns it
func (s *Service) DeleteStore(ctx context.Context, session sessions.Session, current Store) error {
	if err := s.guard(session, current); err != nil {
		return errors.Wrap(err, "[Service DeleteStore]")
	}

	var out struct {
		DeleteStore *struct {
			ID string `json:"_id"`
		} `json:"deleteStore"`
	}
	err := s.client.Do(ctx, graphql.Request{
		Query:         deleteStoreMutation,
		OperationName: opDeleteStore,
		Variables:     map[string]interface{}{"id": current.ID},
	}, &out)
	if err != nil {
		return errors.Wrap(err, "[Service DeleteStore]")
	}
	if out.DeleteStore == nil {
		return errors.Wrapf(apperrors.ErrStoreNotFound, "[Service DeleteStore] %s", current.ID)
	}
	return nil
}

// CreateProduct adds a product to current when the session owns it
func (s *Service) CreateProduct(ctx context.Context, session sessions.Session, current Store, input ProductInput) (Product, error) {
	if err := s.guard(session, current); err != nil {
		return Product{}, errors.Wrap(err, "[Service CreateProduct]")
	}
	if err := validateProductInput(input); err != nil {
		return Product{}, errors.Wrap(err, "[Service CreateProduct]")
	}

	var out struct {
		CreateProduct *Product `json:"createProduct"`
	}
	err := s.client.Do(ctx, graphql.Request{
		Query:         createProductMutation,
		OperationName: opCreateProduct,
		Variables: map[string]interface{}{
			"name":        input.Name,
			"description": input.Description,
			"price":       input.Price,
			"image":       input.Image,
			"storeID":     current.ID,
		},
	}, &out)
	if err != nil {
		return Product{}, errors.Wrap(err, "[Service CreateProduct]")
	}
	if out.CreateProduct == nil {
		return Product{}, errors.Wrap(apperrors.ErrInternal, "[Service CreateProduct] empty response")
	}
	return *out.CreateProduct, nil
}

// AllShops lists the shops visible to the caller's credential
func (s *Service) AllShops(ctx context.Context) ([]Shop, error) {
	var out struct {
		AllShops page[Shop] `json:"allShops"`
	}
	err := s.client.Do(ctx, graphql.Request{
		Query:         allShopsQuery,
		OperationName: opAllShops,
		Variables:     map[string]interface{}{"size": pageSize},
	}, &out)
	if err != nil {
		return nil, errors.Wrap(err, "[Service AllShops]")
	}
	return out.AllShops.Data, nil
}

// AllProducts lists the products visible to the caller's credential, normally a shop's public key
func (s *Service) AllProducts(ctx context.Context) ([]Product, error) {
	var out struct {
		AllProducts page[Product] `json:"allProducts"`
	}
	err := s.client.Do(ctx, graphql.Request{
		Query:         allProductsQuery,
		OperationName: opAllProducts,
		Variables:     map[string]interface{}{"size": pageSize},
	}, &out)
	if err != nil {
		return nil, errors.Wrap(err, "[Service AllProducts]")
	}
	return out.AllProducts.Data, nil
}

func (s *Service) guard(session sessions.Session, current Store) error {
	err := CheckOwnership(session, current)
	if err != nil && s.metrics != nil {
		s.metrics.CounterOwnershipDenied.Inc()
	}
	return err
}

func validateStoreInput(input StoreInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return errors.Wrap(apperrors.ErrInvalidRequest, "store name is required")
	}
	return nil
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return errors.Wrap(apperrors.ErrInvalidRequest, "product name is required")
	}
	if math.IsNaN(input.Price) || math.IsInf(input.Price, 0) || input.Price < 0 {
		return errors.Wrapf(apperrors.ErrInvalidRequest, "price %v must be a finite, non-negative number", input.Price)
	}
	return nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
