package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"stackvault/internal/entity"
	"stackvault/internal/repo/persistent"
	"stackvault/pkg/logger"

	"github.com/google/uuid"
)

// memStore backs the in-memory repositories used by the usecase tests.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*entity.User
	products map[string]*entity.Product
	payments []*entity.Payment
	reviews  map[string]*entity.Review
	coupons  map[string]*entity.Coupon
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*entity.User{},
		products: map[string]*entity.Product{},
		reviews:  map[string]*entity.Review{},
		coupons:  map[string]*entity.Coupon{},
	}
}

func (s *memStore) addUser(email string, status entity.MembershipStatus) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &entity.User{
		ID:         uuid.New().String(),
		Email:      email,
		Role:       entity.RoleUser,
		Membership: entity.Membership{Status: status},
	}
	s.users[email] = u
	return u
}

func (s *memStore) addProduct(p *entity.Product) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addCoupon(c *entity.Coupon) *entity.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.coupons[c.ID] = c
	return c
}

type memUserRepo struct{ s *memStore }

var _ persistent.UserRepository = memUserRepo{}

func (r memUserRepo) Upsert(_ context.Context, profile entity.UserProfile, now time.Time) (*entity.User, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[profile.Email]; ok {
		u.Name, u.Photo, u.Bio, u.AuthProvider, u.UpdatedAt = profile.Name, profile.Photo, profile.Bio, profile.AuthProvider, now
		cp := *u
		return &cp, false, nil
	}
	u := &entity.User{
		ID:           uuid.New().String(),
		Email:        profile.Email,
		Name:         profile.Name,
		Photo:        profile.Photo,
		Bio:          profile.Bio,
		AuthProvider: profile.AuthProvider,
		Role:         entity.RoleUser,
		Membership:   entity.Membership{Status: entity.MembershipNone},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.users[u.Email] = u
	cp := *u
	return &cp, true, nil
}

func (r memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[email]
	if !ok {
		return nil, entity.NotFound("User not found")
	}
	cp := *u
	return &cp, nil
}

func (r memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entity.NotFound("User not found")
}

func (r memUserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := *u
		users = append(users, &cp)
	}
	return users, nil
}

func (r memUserRepo) UpdateRole(_ context.Context, id string, role entity.Role, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			u.Role, u.UpdatedAt = role, now
			return nil
		}
	}
	return entity.NotFound("User not found")
}

type memProductRepo struct{ s *memStore }

var _ persistent.ProductRepository = memProductRepo{}

func (r memProductRepo) countByOwner(email string) int64 {
	var n int64
	for _, p := range r.s.products {
		if p.Owner.Email == email {
			n++
		}
	}
	return n
}

func (r memProductRepo) CreateWithQuota(_ context.Context, product *entity.Product, check persistent.QuotaCheck) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owner, ok := r.s.users[product.Owner.Email]
	if !ok {
		return entity.NotFound("User not found")
	}
	cp := *owner
	if err := check(&cp, r.countByOwner(product.Owner.Email)); err != nil {
		return err
	}
	product.ID = uuid.New().String()
	stored := *product
	r.s.products[product.ID] = &stored
	return nil
}

func (r memProductRepo) CountByOwner(_ context.Context, email string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.countByOwner(email), nil
}

func (r memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, entity.NotFound("Product not found")
	}
	cp := *p
	return &cp, nil
}

func (r memProductRepo) filter(keep func(p *entity.Product) bool) []*entity.Product {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memProductRepo) ListByOwner(_ context.Context, email string) ([]*entity.Product, error) {
	return r.filter(func(p *entity.Product) bool { return p.Owner.Email == email }), nil
}

func (r memProductRepo) ListAccepted(_ context.Context, query entity.ProductQuery) ([]*entity.Product, int64, error) {
	all := r.filter(func(p *entity.Product) bool { return p.Status == entity.ProductAccepted })
	total := int64(len(all))
	start := query.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + query.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r memProductRepo) ListFeatured(_ context.Context, limit int) ([]*entity.Product, error) {
	out := r.filter(func(p *entity.Product) bool { return p.Status == entity.ProductAccepted && p.Featured })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memProductRepo) ListTrending(_ context.Context, limit int) ([]*entity.Product, error) {
	out := r.filter(func(p *entity.Product) bool { return p.Status == entity.ProductAccepted })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Votes > out[j].Votes })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memProductRepo) ListPending(_ context.Context) ([]*entity.Product, error) {
	return r.filter(func(p *entity.Product) bool { return p.Status == entity.ProductPending }), nil
}

func (r memProductRepo) CountPending(ctx context.Context) (int64, error) {
	out, _ := r.ListPending(ctx)
	return int64(len(out)), nil
}

func (r memProductRepo) ListReported(_ context.Context) ([]*entity.Product, error) {
	return r.filter(func(p *entity.Product) bool { return p.Reported }), nil
}

func (r memProductRepo) CountReported(ctx context.Context) (int64, error) {
	out, _ := r.ListReported(ctx)
	return int64(len(out)), nil
}

func (r memProductRepo) ListAcceptedNonFeatured(_ context.Context) ([]*entity.Product, error) {
	return r.filter(func(p *entity.Product) bool { return p.Status == entity.ProductAccepted && !p.Featured }), nil
}

func (r memProductRepo) ListForModeration(_ context.Context) ([]*entity.Product, error) {
	return r.filter(func(p *entity.Product) bool { return true }), nil
}

func (r memProductRepo) mutate(id string, fn func(p *entity.Product)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return entity.NotFound("Product not found")
	}
	fn(p)
	return nil
}

func (r memProductRepo) UpdateContent(_ context.Context, id string, c entity.ProductContent, now time.Time) error {
	return r.mutate(id, func(p *entity.Product) {
		p.Name, p.Image, p.Description, p.Tags, p.ExternalLink, p.UpdatedAt = c.Name, c.Image, c.Description, c.Tags, c.ExternalLink, now
	})
}

func (r memProductRepo) Moderate(_ context.Context, id string, change entity.ProductModeration, now time.Time) (bool, error) {
	updated := false
	err := r.mutate(id, func(p *entity.Product) {
		if change.Featured != nil && change.Status == nil && p.Status != entity.ProductAccepted {
			return
		}
		if change.Status != nil {
			p.Status = *change.Status
		}
		if change.Featured != nil {
			p.Featured = *change.Featured
		}
		p.UpdatedAt = now
		updated = true
	})
	return updated, err
}

func (r memProductRepo) IncrementVotes(_ context.Context, id string, now time.Time) (*entity.Product, error) {
	var cp entity.Product
	err := r.mutate(id, func(p *entity.Product) {
		p.Votes++
		p.UpdatedAt = now
		cp = *p
	})
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (r memProductRepo) Report(_ context.Context, id string, report entity.ProductReport, now time.Time) error {
	return r.mutate(id, func(p *entity.Product) {
		p.Reported, p.ReportedBy, p.ReportReason, p.ReportedAt = true, report.ReporterEmail, report.Reason, &now
	})
}

func (r memProductRepo) Delete(_ context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return 0, entity.NotFound("Product not found")
	}
	var removed int64
	for rid, review := range r.s.reviews {
		if review.ProductID == id {
			delete(r.s.reviews, rid)
			removed++
		}
	}
	delete(r.s.products, id)
	return removed, nil
}

type memPaymentRepo struct{ s *memStore }

var _ persistent.PaymentRepository = memPaymentRepo{}

func (r memPaymentRepo) RecordAndUpgrade(_ context.Context, p *entity.Payment, membershipType string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = uuid.New().String()
	stored := *p
	r.s.payments = append(r.s.payments, &stored)

	u, ok := r.s.users[p.Email]
	if !ok {
		return false, nil
	}
	paidAt, amount := p.PaidAt, p.Amount
	u.Membership = entity.Membership{
		Status:        entity.MembershipPremium,
		Type:          membershipType,
		PurchasedAt:   &paidAt,
		TransactionID: p.TransactionID,
		Amount:        &amount,
	}
	return true, nil
}

func (r memPaymentRepo) ListByEmail(_ context.Context, email string) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Payment
	for i := len(r.s.payments) - 1; i >= 0; i-- {
		if r.s.payments[i].Email == email {
			out = append(out, r.s.payments[i])
		}
	}
	return out, nil
}

type memReviewRepo struct{ s *memStore }

var _ persistent.ReviewRepository = memReviewRepo{}

func (r memReviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	review.ID = uuid.New().String()
	stored := *review
	r.s.reviews[review.ID] = &stored
	return nil
}

func (r memReviewRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Review
	for _, review := range r.s.reviews {
		if review.ProductID == productID {
			cp := *review
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memCouponRepo struct{ s *memStore }

var _ persistent.CouponRepository = memCouponRepo{}

func (r memCouponRepo) byCode(code string) *entity.Coupon {
	for _, c := range r.s.coupons {
		if c.Code == code {
			return c
		}
	}
	return nil
}

func (r memCouponRepo) List(_ context.Context) ([]*entity.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Coupon, 0, len(r.s.coupons))
	for _, c := range r.s.coupons {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r memCouponRepo) GetByCode(_ context.Context, code string) (*entity.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := r.byCode(code)
	if c == nil {
		return nil, entity.NewCouponError(entity.CouponNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r memCouponRepo) Create(_ context.Context, coupon *entity.Coupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.byCode(coupon.Code) != nil {
		return entity.Conflict("Coupon code already exists")
	}
	coupon.ID = uuid.New().String()
	stored := *coupon
	r.s.coupons[coupon.ID] = &stored
	return nil
}

func (r memCouponRepo) Update(_ context.Context, coupon *entity.Coupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if other := r.byCode(coupon.Code); other != nil && other.ID != coupon.ID {
		return entity.Conflict("Coupon code already exists")
	}
	existing, ok := r.s.coupons[coupon.ID]
	if !ok {
		return entity.NotFound("Coupon not found")
	}
	coupon.UsedCount, coupon.CreatedAt = existing.UsedCount, existing.CreatedAt
	stored := *coupon
	r.s.coupons[coupon.ID] = &stored
	return nil
}

func (r memCouponRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.coupons[id]; !ok {
		return entity.NotFound("Coupon not found")
	}
	delete(r.s.coupons, id)
	return nil
}

func (r memCouponRepo) Redeem(_ context.Context, code string, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := r.byCode(code)
	if c == nil || !c.IsActive || !c.ExpiryDate.After(now) || (c.HasUsageCap() && c.UsedCount >= *c.MaxUses) {
		return false, nil
	}
	c.UsedCount++
	return true, nil
}

type memVotes struct {
	mu     sync.Mutex
	claims map[string]bool
}

func newMemVotes() *memVotes { return &memVotes{claims: map[string]bool{}} }

func (v *memVotes) Claim(_ context.Context, productID, email string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	key := productID + ":" + email
	if v.claims[key] {
		return false, nil
	}
	v.claims[key] = true
	return true, nil
}

func (v *memVotes) Release(_ context.Context, productID, email string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.claims, productID+":"+email)
	return nil
}

type recordedEvent struct {
	Type    string
	Payload interface{}
}

type memPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *memPublisher) PublishEvent(_ context.Context, eventType string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: eventType, Payload: payload})
	return nil
}

func (p *memPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testLogger() *logger.Logger {
	return logger.NewWithLevel("error")
}
