// Package memory holds map-backed versions of the repositories for service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/Rakhulsr/bigcorp-shop/app/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Store struct {
	mu         sync.Mutex
	clock      time.Time
	categories map[string]models.Category
	products   map[string]models.Product
	users      map[string]models.User
	carts      map[string]models.Cart
	items      map[string]models.CartItem
}

func NewStore() *Store {
	return &Store{
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		categories: map[string]models.Category{},
		products:   map[string]models.Product{},
		users:      map[string]models.User{},
		carts:      map[string]models.Cart{},
		items:      map[string]models.CartItem{},
	}
}

// tick hands out strictly increasing timestamps so insertion order is observable.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

// CartIDsForUser lists the carts bound to userID.
func (s *Store) CartIDsForUser(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id, cart := range s.carts {
		if cart.UserID != nil && *cart.UserID == userID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) Categories() repositories.CategoryRepositoryImpl { return &categoryRepo{s} }
func (s *Store) Products() repositories.ProductRepositoryImpl    { return &productRepo{s} }
func (s *Store) Users() repositories.UserRepositoryImpl          { return &userRepo{s} }
func (s *Store) Carts() repositories.CartRepositoryImpl          { return &cartRepo{s} }
func (s *Store) CartItems() repositories.CartItemRepositoryImpl  { return &cartItemRepo{s} }

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := c.BeforeCreate(nil); err != nil {
		return err
	}
	for _, other := range r.s.categories {
		if other.Slug == c.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	c.CreatedAt = r.s.tick()
	stored := *c
	stored.Parent, stored.Children, stored.Products = nil, nil, nil
	r.s.categories[c.ID] = stored
	return nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) list(keep func(models.Category) bool) []models.Category {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Category{}
	for _, c := range r.s.categories {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *categoryRepo) GetAll(ctx context.Context) ([]models.Category, error) {
	return r.list(func(models.Category) bool { return true }), nil
}

func (r *categoryRepo) GetTopLevel(ctx context.Context) ([]models.Category, error) {
	return r.list(func(c models.Category) bool { return c.IsRoot() }), nil
}

func (r *categoryRepo) descendants(id string) []string {
	var all []string
	seen := map[string]bool{id: true}
	frontier := []string{id}
	for len(frontier) > 0 {
		var next []string
		for _, c := range r.s.categories {
			if c.IsRoot() || seen[c.ID] {
				continue
			}
			for _, f := range frontier {
				if *c.ParentID == f {
					seen[c.ID] = true
					all = append(all, c.ID)
					next = append(next, c.ID)
					break
				}
			}
		}
		frontier = next
	}
	return all
}

func (r *categoryRepo) GetDescendantIDs(ctx context.Context, id string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.descendants(id), nil
}

func (r *categoryRepo) LoadAncestors(ctx context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for cur := c; !cur.IsRoot(); cur = cur.Parent {
		parent, ok := r.s.categories[*cur.ParentID]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		cur.Parent = &parent
	}
	return nil
}

func (r *categoryRepo) Update(ctx context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.categories[c.ID]
	if !ok {
		return nil
	}
	for _, other := range r.s.categories {
		if other.ID != c.ID && other.Slug == c.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	stored.Name, stored.Slug, stored.ParentID = c.Name, c.Slug, c.ParentID
	r.s.categories[c.ID] = stored
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := append([]string{id}, r.descendants(id)...)
	doomed := map[string]bool{}
	for _, cid := range ids {
		doomed[cid] = true
		delete(r.s.categories, cid)
	}
	for pid, p := range r.s.products {
		if doomed[p.CategoryID] {
			r.s.dropProduct(pid)
		}
	}
	return nil
}

// dropProduct removes a product and the cart lines pointing at it. Caller holds the lock.
func (s *Store) dropProduct(id string) {
	delete(s.products, id)
	for iid, item := range s.items {
		if item.ProductID == id {
			delete(s.items, iid)
		}
	}
}

type productRepo struct{ s *Store }

func (r *productRepo) withCategory(p models.Product) models.Product {
	if c, ok := r.s.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return p
}

func (r *productRepo) list(keep func(models.Product) bool) []models.Product {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Product{}
	for _, p := range r.s.products {
		if keep(p) {
			out = append(out, r.withCategory(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *productRepo) GetAvailable(ctx context.Context) ([]models.Product, error) {
	return r.list(func(p models.Product) bool { return p.Available }), nil
}

func (r *productRepo) GetAvailableByCategoryID(ctx context.Context, categoryID string) ([]models.Product, error) {
	return r.list(func(p models.Product) bool { return p.Available && p.CategoryID == categoryID }), nil
}

func (r *productRepo) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.list(func(models.Product) bool { return true }), nil
}

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *models.Product
	for _, p := range r.s.products {
		if p.Slug != slug {
			continue
		}
		if found == nil || p.CreatedAt.Before(found.CreatedAt) || (p.CreatedAt.Equal(found.CreatedAt) && p.ID < found.ID) {
			candidate := r.withCategory(p)
			found = &candidate
		}
	}
	return found, nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		p = r.withCategory(p)
		return &p, nil
	}
	return nil, nil
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := p.BeforeCreate(nil); err != nil {
		return err
	}
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	p.CreatedAt = r.s.tick()
	p.UpdatedAt = p.CreatedAt
	stored := *p
	stored.Category = nil
	r.s.products[p.ID] = stored
	return nil
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	p.UpdatedAt = r.s.tick()
	stored := *p
	stored.Category = nil
	r.s.products[p.ID] = stored
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.dropProduct(id)
	return nil
}

type userRepo struct{ s *Store }

func (r *userRepo) conflict(u *models.User) bool {
	for _, other := range r.s.users {
		if other.ID != u.ID && (other.Username == u.Username || other.Email == u.Email) {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := u.BeforeCreate(nil); err != nil {
		return err
	}
	if r.conflict(u) {
		return gorm.ErrDuplicatedKey
	}
	u.CreatedAt = r.s.tick()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) find(match func(models.User) bool) *models.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id }), nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username }), nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email }), nil
}

func (r *userRepo) Update(ctx context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.conflict(u) {
		return gorm.ErrDuplicatedKey
	}
	u.UpdatedAt = r.s.tick()
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) Activate(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.IsActive {
		return gorm.ErrRecordNotFound
	}
	u.IsActive = true
	r.s.users[id] = u
	return nil
}

func (r *userRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.LastLogin = &at
		r.s.users[id] = u
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for cid, c := range r.s.carts {
		if c.UserID != nil && *c.UserID == id {
			r.s.dropCart(cid)
		}
	}
	delete(r.s.users, id)
	return nil
}

// dropCart removes a cart with its lines. Caller holds the lock.
func (s *Store) dropCart(id string) {
	for iid, item := range s.items {
		if item.CartID == id {
			delete(s.items, iid)
		}
	}
	delete(s.carts, id)
}

type cartRepo struct{ s *Store }

func (r *cartRepo) GetCartWithItems(ctx context.Context, cartID string) (*models.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cart, ok := r.s.carts[cartID]
	if !ok {
		return nil, nil
	}
	cart.CartItems = nil
	for _, item := range r.s.items {
		if item.CartID != cartID {
			continue
		}
		if p, ok := r.s.products[item.ProductID]; ok {
			item.Product = &p
		}
		cart.CartItems = append(cart.CartItems, item)
	}
	sort.Slice(cart.CartItems, func(i, j int) bool {
		return cart.CartItems[i].CreatedAt.Before(cart.CartItems[j].CreatedAt)
	})
	return &cart, nil
}

func (r *cartRepo) GetOrCreateCart(ctx context.Context, cartID string) (*models.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cart, ok := r.s.carts[cartID]
	if !ok {
		cart = models.Cart{ID: cartID, GrandTotal: decimal.Zero, CreatedAt: r.s.tick()}
		r.s.carts[cartID] = cart
	}
	return &cart, nil
}

func (r *cartRepo) AssignUser(ctx context.Context, cartID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cart, ok := r.s.carts[cartID]; ok {
		cart.UserID = &userID
		r.s.carts[cartID] = cart
	}
	return nil
}

func (r *cartRepo) UpdateCartSummary(ctx context.Context, cartID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cart, ok := r.s.carts[cartID]
	if !ok {
		return nil
	}
	total := decimal.Zero
	for _, item := range r.s.items {
		if item.CartID == cartID {
			total = total.Add(item.Subtotal)
		}
	}
	cart.GrandTotal = total
	r.s.carts[cartID] = cart
	return nil
}

func (r *cartRepo) GetCartItemCount(ctx context.Context, cartID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, item := range r.s.items {
		if item.CartID == cartID {
			n++
		}
	}
	return n, nil
}

func (r *cartRepo) DeleteCart(ctx context.Context, cartID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.dropCart(cartID)
	return nil
}

type cartItemRepo struct{ s *Store }

func (r *cartItemRepo) Add(ctx context.Context, item *models.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = r.s.tick()
	item.UpdatedAt = item.CreatedAt
	stored := *item
	stored.Product = nil
	r.s.items[item.ID] = stored
	return nil
}

func (r *cartItemRepo) Update(ctx context.Context, item *models.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item.UpdatedAt = r.s.tick()
	stored := *item
	stored.Product = nil
	r.s.items[item.ID] = stored
	return nil
}

func (r *cartItemRepo) Delete(ctx context.Context, cartID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, item := range r.s.items {
		if item.CartID == cartID && item.ProductID == productID {
			delete(r.s.items, id)
		}
	}
	return nil
}

func (r *cartItemRepo) GetCartAndProduct(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range r.s.items {
		if item.CartID == cartID && item.ProductID == productID {
			return &item, nil
		}
	}
	return nil, nil
}
