// internal/repository/memory.go
package repository

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/luxe-clothing/storefront/internal/models"
)

// memoryStore keeps every table behind one lock. Values go in and come out
// as deep copies so callers never share state with the store.
type memoryStore struct {
	mu sync.RWMutex

	products   map[uuid.UUID]models.Product
	productSeq []uuid.UUID
	orders     map[uuid.UUID]models.Order
	orderSeq   []uuid.UUID
	numbers    map[string]uuid.UUID
	users      map[uuid.UUID]models.User
	emails     map[string]uuid.UUID
	addresses  map[uuid.UUID]models.Address
	addrSeq    []uuid.UUID
	audit      []models.AuditLog
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		products:  make(map[uuid.UUID]models.Product),
		orders:    make(map[uuid.UUID]models.Order),
		numbers:   make(map[string]uuid.UUID),
		users:     make(map[uuid.UUID]models.User),
		emails:    make(map[string]uuid.UUID),
		addresses: make(map[uuid.UUID]models.Address),
	}
}

func stampCreate(m *models.BaseModel) {
	now := time.Now()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	return slices.DeleteFunc(ids, func(x uuid.UUID) bool { return x == id })
}

func cloneStrings(a pq.StringArray) pq.StringArray {
	if a == nil {
		return nil
	}
	return slices.Clone(a)
}

func cloneProduct(p models.Product) models.Product {
	p.Colors = cloneStrings(p.Colors)
	p.Sizes = cloneStrings(p.Sizes)
	p.Images = cloneStrings(p.Images)
	p.Features = cloneStrings(p.Features)
	p.Tags = cloneStrings(p.Tags)
	p.Featured = cloneStrings(p.Featured)
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		p.OriginalPrice = &v
	}
	return p
}

func cloneEntry(e *models.TimelineEntry) *models.TimelineEntry {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

func cloneOrder(o models.Order) models.Order {
	o.Items = slices.Clone(o.Items)
	for i := range o.Items {
		if id := o.Items[i].ProductID; id != nil {
			v := *id
			o.Items[i].ProductID = &v
		}
	}
	o.Timeline = models.OrderTimeline{
		Ordered:    cloneEntry(o.Timeline.Ordered),
		Confirmed:  cloneEntry(o.Timeline.Confirmed),
		Processing: cloneEntry(o.Timeline.Processing),
		Shipped:    cloneEntry(o.Timeline.Shipped),
		Delivered:  cloneEntry(o.Timeline.Delivered),
	}
	return o
}

func matchesText(p *models.Product, q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Brand), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

type memoryProductRepo struct{ s *memoryStore }

func (r *memoryProductRepo) Create(_ context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stampCreate(&p.BaseModel)
	r.s.products[p.ID] = cloneProduct(*p)
	r.s.productSeq = append(r.s.productSeq, p.ID)
	return nil
}

func (r *memoryProductRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	c := cloneProduct(p)
	return &c, nil
}

func (r *memoryProductRepo) List(_ context.Context, f ProductFilter) ([]models.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []models.Product
	for i := len(r.s.productSeq) - 1; i >= 0; i-- {
		p := r.s.products[r.s.productSeq[i]]
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Subcategory != "" && p.Subcategory != f.Subcategory {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.Featured != "" && !slices.Contains(p.Featured, f.Featured) {
			continue
		}
		if f.Search != "" && !matchesText(&p, f.Search) {
			continue
		}
		matched = append(matched, cloneProduct(p))
	}

	total := int64(len(matched))
	if f.Offset > 0 {
		if f.Offset >= len(matched) {
			return []models.Product{}, total, nil
		}
		matched = matched[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

func (r *memoryProductRepo) Update(_ context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		stampCreate(&p.BaseModel)
		r.s.productSeq = append(r.s.productSeq, p.ID)
	}
	p.UpdatedAt = time.Now()
	r.s.products[p.ID] = cloneProduct(*p)
	return nil
}

func (r *memoryProductRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return false, nil
	}
	delete(r.s.products, id)
	r.s.productSeq = removeID(r.s.productSeq, id)
	return true, nil
}

func (r *memoryProductRepo) BulkUpdate(_ context.Context, ids []uuid.UUID, apply func(p *models.Product) error) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	staged := make(map[uuid.UUID]models.Product)
	for _, id := range ids {
		p, ok := r.s.products[id]
		if !ok {
			continue
		}
		c := cloneProduct(p)
		if err := apply(&c); err != nil {
			return 0, err
		}
		c.UpdatedAt = time.Now()
		staged[id] = c
	}
	for id, p := range staged {
		r.s.products[id] = p
	}
	return len(staged), nil
}

func (r *memoryProductRepo) BulkDelete(_ context.Context, ids []uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.s.products[id]; ok {
			delete(r.s.products, id)
			r.s.productSeq = removeID(r.s.productSeq, id)
			n++
		}
	}
	return n, nil
}

func (r *memoryProductRepo) Stats(_ context.Context) (*models.InventoryStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var st models.InventoryStats
	for _, p := range r.s.products {
		st.TotalProducts++
		if p.InStock {
			st.InStockProducts++
		} else {
			st.OutOfStockProducts++
		}
		if len(p.Featured) > 0 {
			st.FeaturedProducts++
		}
	}
	return &st, nil
}

func (r *memoryProductRepo) LowStock(_ context.Context, threshold int) ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Product
	for _, id := range r.s.productSeq {
		if p := r.s.products[id]; p.StockCount <= threshold {
			out = append(out, cloneProduct(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StockCount < out[j].StockCount })
	return out, nil
}

func (r *memoryProductRepo) DecrementStock(_ context.Context, id uuid.UUID, qty int) (*StockLevel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	p.ApplyDecrement(qty)
	p.UpdatedAt = time.Now()
	r.s.products[id] = p
	return &StockLevel{StockCount: p.StockCount, InStock: p.InStock}, nil
}

type memoryOrderRepo struct{ s *memoryStore }

func (r *memoryOrderRepo) Create(_ context.Context, o *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.numbers[o.OrderNumber]; taken {
		return ErrDuplicateOrderNumber
	}
	stampCreate(&o.BaseModel)
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
		o.Items[i].Position = i
	}
	r.s.orders[o.ID] = cloneOrder(*o)
	r.s.orderSeq = append(r.s.orderSeq, o.ID)
	r.s.numbers[o.OrderNumber] = o.ID
	return nil
}

func (r *memoryOrderRepo) GetForUser(_ context.Context, id, userID uuid.UUID) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok || o.UserID != userID {
		return nil, nil
	}
	c := cloneOrder(o)
	return &c, nil
}

func (r *memoryOrderRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Order
	for i := len(r.s.orderSeq) - 1; i >= 0; i-- {
		if o := r.s.orders[r.s.orderSeq[i]]; o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *memoryOrderRepo) UpdateProgress(_ context.Context, o *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.orders[o.ID]
	if !ok {
		return nil
	}
	next := cloneOrder(*o)
	stored.Status = next.Status
	stored.Timeline = next.Timeline
	stored.UpdatedAt = time.Now()
	r.s.orders[o.ID] = stored
	return nil
}

type memoryUserRepo struct{ s *memoryStore }

func (r *memoryUserRepo) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.emails[u.Email]; taken {
		return ErrDuplicateEmail
	}
	stampCreate(&u.BaseModel)
	stored := *u
	stored.Addresses = nil
	r.s.users[u.ID] = stored
	r.s.emails[u.Email] = u.ID
	return nil
}

func (r *memoryUserRepo) addressesOf(userID uuid.UUID) []models.Address {
	var out []models.Address
	for _, id := range r.s.addrSeq {
		if a := r.s.addresses[id]; a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}

func (r *memoryUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	u.Addresses = r.addressesOf(id)
	return &u, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.emails[email]
	if !ok {
		return nil, nil
	}
	u := r.s.users[id]
	return &u, nil
}

func (r *memoryUserRepo) Update(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.users[u.ID]
	if !ok {
		return nil
	}
	stored.Name = u.Name
	stored.Phone = u.Phone
	stored.Avatar = u.Avatar
	stored.PasswordHash = u.PasswordHash
	stored.UpdatedAt = time.Now()
	r.s.users[u.ID] = stored
	return nil
}

func (r *memoryUserRepo) ListAddresses(_ context.Context, userID uuid.UUID) ([]models.Address, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.addressesOf(userID), nil
}

func (r *memoryUserRepo) GetAddress(_ context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.addresses[addressID]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	return &a, nil
}

func (r *memoryUserRepo) CreateAddress(_ context.Context, a *models.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stampCreate(&a.BaseModel)
	r.s.addresses[a.ID] = *a
	r.s.addrSeq = append(r.s.addrSeq, a.ID)
	return nil
}

func (r *memoryUserRepo) UpdateAddress(_ context.Context, a *models.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.addresses[a.ID]; !ok {
		stampCreate(&a.BaseModel)
		r.s.addrSeq = append(r.s.addrSeq, a.ID)
	}
	a.UpdatedAt = time.Now()
	r.s.addresses[a.ID] = *a
	return nil
}

func (r *memoryUserRepo) DeleteAddress(_ context.Context, userID, addressID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.addresses[addressID]
	if !ok || a.UserID != userID {
		return false, nil
	}
	delete(r.s.addresses, addressID)
	r.s.addrSeq = removeID(r.s.addrSeq, addressID)
	return true, nil
}

func (r *memoryUserRepo) SetDefaultAddress(_ context.Context, userID, addressID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.addresses[addressID]; !ok || a.UserID != userID {
		return false, nil
	}
	for id, a := range r.s.addresses {
		if a.UserID != userID {
			continue
		}
		a.IsDefault = id == addressID
		r.s.addresses[id] = a
	}
	return true, nil
}

type memoryAuditLogRepo struct{ s *memoryStore }

func (r *memoryAuditLogRepo) Create(_ context.Context, entry *models.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stampCreate(&entry.BaseModel)
	r.s.audit = append(r.s.audit, *entry)
	return nil
}

func (r *memoryAuditLogRepo) Recent(_ context.Context, limit int) ([]models.AuditLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.AuditLog
	for i := len(r.s.audit) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, r.s.audit[i])
	}
	return out, nil
}
