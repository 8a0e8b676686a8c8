package dispatch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"service-courier-dispatch/internal/apperr"
	"service-courier-dispatch/internal/cache/riderstatus"
	"service-courier-dispatch/internal/delayq"
	"service-courier-dispatch/internal/domain"
	"service-courier-dispatch/internal/geo"
	"service-courier-dispatch/internal/lock"
	"service-courier-dispatch/internal/metrics"
	"service-courier-dispatch/internal/notify"
	"service-courier-dispatch/internal/ports/dispatchtx"
	"service-courier-dispatch/internal/testutil"
)

// memStore is an in-memory record store. It enforces the single pending
// offer index and rolls back transactions that return an error.
type memStore struct {
	mu         sync.Mutex
	deliveries map[string]domain.Delivery
	riders     map[string]domain.Rider
	offers     map[string]domain.Offer
	seq        int

	failGet error
	// afterRiderGet and beforeTx run with the store unlocked and locked
	// respectively, to land a concurrent write between a read and a write.
	afterRiderGet func(id string)
	beforeTx      func()
}

func newMemStore() *memStore {
	return &memStore{
		deliveries: map[string]domain.Delivery{},
		riders:     map[string]domain.Rider{},
		offers:     map[string]domain.Offer{},
	}
}

type deliveryStore struct{ *memStore }
type riderStore struct{ *memStore }
type offerStore struct{ *memStore }

func (m *memStore) tick() time.Time {
	m.seq++
	return time.Unix(int64(m.seq), 0)
}

// deliveries

func (s deliveryStore) Create(_ context.Context, d *domain.Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deliveries[d.ID]; ok {
		return apperr.Conflictf("delivery %s already exists", d.ID)
	}
	d.CreatedAt = s.tick()
	d.UpdatedAt = d.CreatedAt
	s.deliveries[d.ID] = *d
	return nil
}

func (s deliveryStore) Get(_ context.Context, id string) (*domain.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet != nil {
		return nil, s.failGet
	}
	d, ok := s.deliveries[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (s deliveryStore) ListByStatus(_ context.Context, status domain.DeliveryStatus, limit int) ([]domain.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Delivery{}
	for _, d := range s.deliveries {
		if d.Status == status {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s deliveryStore) UpdateStatus(_ context.Context, id string, from, to domain.DeliveryStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateDelivery(id, from, to), nil
}

func (m *memStore) updateDelivery(id string, from, to domain.DeliveryStatus) bool {
	d, ok := m.deliveries[id]
	if !ok || d.Status != from {
		return false
	}
	d.Status = to
	m.deliveries[id] = d
	return true
}

func (s deliveryStore) CountByStatus(_ context.Context, status domain.DeliveryStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, d := range s.deliveries {
		if d.Status == status {
			n++
		}
	}
	return n, nil
}

// riders

func (s riderStore) Create(_ context.Context, r *domain.Rider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.riders {
		if other.Phone == r.Phone {
			return apperr.Conflictf("rider with phone %s already exists", r.Phone)
		}
	}
	r.CreatedAt = s.tick()
	s.riders[r.ID] = *r
	return nil
}

func (s riderStore) Get(_ context.Context, id string) (*domain.Rider, error) {
	s.mu.Lock()
	r, ok := s.riders[id]
	hook := s.afterRiderGet
	s.mu.Unlock()

	if hook != nil {
		hook(id)
	}
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s riderStore) List(_ context.Context, limit, offset int) ([]domain.Rider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Rider, 0, len(s.riders))
	for _, r := range s.riders {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s riderStore) UpdateStatus(_ context.Context, id string, from, to domain.RiderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateRider(id, from, to), nil
}

func (m *memStore) updateRider(id string, from, to domain.RiderStatus) bool {
	r, ok := m.riders[id]
	if !ok || r.Status != from {
		return false
	}
	r.Status = to
	m.riders[id] = r
	return true
}

func (m *memStore) setRider(id string, status domain.RiderStatus) error {
	r, ok := m.riders[id]
	if !ok {
		return apperr.NotFoundf("rider %s", id)
	}
	r.Status = status
	m.riders[id] = r
	return nil
}

func (s riderStore) SetPosition(_ context.Context, id string, p domain.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.riders[id]
	if !ok {
		return apperr.NotFoundf("rider %s", id)
	}
	r.Position = &p
	s.riders[id] = r
	return nil
}

func (s riderStore) CountByStatus(_ context.Context, status domain.RiderStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.riders {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

// offers

func (s offerStore) Create(_ context.Context, o *domain.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createOffer(o)
}

func (m *memStore) createOffer(o *domain.Offer) error {
	if o.Status == domain.OfferPending {
		for _, other := range m.offers {
			if other.DeliveryID == o.DeliveryID && other.Status == domain.OfferPending {
				return apperr.Conflictf("delivery %s already has a pending offer", o.DeliveryID)
			}
		}
	}
	o.CreatedAt = m.tick()
	o.UpdatedAt = o.CreatedAt
	m.offers[o.ID] = *o
	return nil
}

func (s offerStore) Get(_ context.Context, id string) (*domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.offers[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (s offerStore) FindByDelivery(_ context.Context, deliveryID string, status domain.OfferStatus) ([]domain.Offer, error) {
	return s.List(context.Background(), domain.OfferFilter{DeliveryID: deliveryID, Status: status})
}

func (s offerStore) List(_ context.Context, f domain.OfferFilter) ([]domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Offer{}
	for _, o := range s.offers {
		if f.DeliveryID != "" && o.DeliveryID != f.DeliveryID {
			continue
		}
		if f.RiderID != "" && o.RiderID != f.RiderID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s offerStore) Transition(_ context.Context, t domain.OfferTransition) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transition(t), nil
}

func (m *memStore) transition(t domain.OfferTransition) bool {
	o, ok := m.offers[t.OfferID]
	if !ok || o.Status != t.From {
		return false
	}
	o.Status = t.To
	if t.RespondedAt != nil {
		at := *t.RespondedAt
		o.RespondedAt = &at
	}
	m.offers[t.OfferID] = o
	return true
}

func (s offerStore) ExpireStale(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, o := range s.offers {
		if o.Status == domain.OfferPending && o.ExpiresAt.Before(cutoff) {
			o.Status = domain.OfferExpired
			s.offers[id] = o
			n++
		}
	}
	return n, nil
}

func (s offerStore) RiderIDsByDelivery(_ context.Context, deliveryID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, o := range s.offers {
		if o.DeliveryID == deliveryID && !seen[o.RiderID] {
			seen[o.RiderID] = true
			out = append(out, o.RiderID)
		}
	}
	return out, nil
}

func (s offerStore) CountByStatus(_ context.Context, status domain.OfferStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, o := range s.offers {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

// transactions

type memTx struct{ m *memStore }

func (t memTx) CreateOffer(_ context.Context, o *domain.Offer) error { return t.m.createOffer(o) }
func (t memTx) TransitionOffer(_ context.Context, tr domain.OfferTransition) (bool, error) {
	return t.m.transition(tr), nil
}
func (t memTx) UpdateDeliveryStatus(_ context.Context, id string, from, to domain.DeliveryStatus) (bool, error) {
	return t.m.updateDelivery(id, from, to), nil
}
func (t memTx) UpdateRiderStatus(_ context.Context, id string, from, to domain.RiderStatus) (bool, error) {
	return t.m.updateRider(id, from, to), nil
}

// WithTx holds the store mutex for the whole transaction and restores a
// snapshot when fn fails.
func (m *memStore) WithTx(ctx context.Context, fn func(tx dispatchtx.Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.beforeTx != nil {
		m.beforeTx()
	}

	snapD := cloneMap(m.deliveries)
	snapR := cloneMap(m.riders)
	snapO := cloneMap(m.offers)

	if err := fn(memTx{m: m}); err != nil {
		m.deliveries, m.riders, m.offers = snapD, snapR, snapO
		return err
	}
	return nil
}

func cloneMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// scheduler

type scheduled struct {
	delay time.Duration
	job   delayq.Job
}

type fakeScheduler struct {
	mu   sync.Mutex
	jobs []scheduled
	err  error
}

func (f *fakeScheduler) Schedule(_ context.Context, delay time.Duration, job delayq.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, scheduled{delay: delay, job: job})
	return nil
}

func (f *fakeScheduler) all() []scheduled {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]scheduled(nil), f.jobs...)
}

// notifier

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) kinds() []notify.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Kind, len(f.sent))
	for i, n := range f.sent {
		out[i] = n.Kind
	}
	return out
}

func (f *fakeNotifier) to(target string) []notify.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notify.Kind
	for _, n := range f.sent {
		if n.Target() == target {
			out = append(out, n.Kind)
		}
	}
	return out
}

// clock

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// env wires a Service over the in-memory store and Redis components backed
// by miniredis.
type env struct {
	svc       *Service
	store     *memStore
	mr        *miniredis.Miniredis
	client    *redis.Client
	locker    *lock.Locker
	cache     *riderstatus.Cache
	locator   *geo.RedisLocator
	scheduler *fakeScheduler
	notifier  *fakeNotifier
	metrics   *metrics.Dispatch
	clock     *testClock
	logs      *testutil.Recorder
	ids       atomic.Int64
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	e := &env{
		store:     newMemStore(),
		mr:        mr,
		client:    client,
		locker:    lock.NewLocker(client, 5*time.Second),
		cache:     riderstatus.New(client),
		scheduler: &fakeScheduler{},
		notifier:  &fakeNotifier{},
		metrics:   metrics.NewDispatch(),
		clock:     &testClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		logs:      testutil.NewRecorder(),
	}
	e.locator = geo.NewRedisLocator(client, e.cache)

	e.svc = NewService(Deps{
		Deliveries: deliveryStore{e.store},
		Riders:     riderStore{e.store},
		Offers:     offerStore{e.store},
		Tx:         e.store,
		Locker:     e.locker,
		Statuses:   e.cache,
		Locator:    e.locator,
		Positions:  e.locator,
		Scheduler:  e.scheduler,
		Notifier:   e.notifier,
		Metrics:    e.metrics,
	}, Config{}, e.logs.Logger())
	e.svc.now = e.clock.now
	e.svc.newID = e.nextID
	return e
}

func (e *env) nextID() string {
	return fmt.Sprintf("id-%03d", e.ids.Add(1))
}

// seoulCityHall is the pickup point used across the scenarios.
var seoulCityHall = domain.Point{Lat: 37.5665, Lon: 126.9780}

// north returns a point roughly km kilometres north of seoulCityHall.
func north(km float64) domain.Point {
	return domain.Point{Lat: seoulCityHall.Lat + km/111.0, Lon: seoulCityHall.Lon}
}

func (e *env) rider(t *testing.T, name string, at domain.Point) *domain.Rider {
	t.Helper()
	r, err := e.svc.RegisterRider(context.Background(), NewRider{
		Name:     name,
		Phone:    fmt.Sprintf("+8210%08d", e.ids.Add(1)),
		Status:   domain.RiderAvailable,
		Position: &at,
	})
	if err != nil {
		t.Fatalf("register rider %s: %v", name, err)
	}
	return r
}

// delivery stores a pending delivery without dispatching it.
func (e *env) delivery(t *testing.T) *domain.Delivery {
	t.Helper()
	d := &domain.Delivery{
		ID:             e.nextID(),
		StoreID:        "store-1",
		Status:         domain.DeliveryPending,
		PickupAddress:  "Seoul City Hall",
		Pickup:         seoulCityHall,
		DropoffAddress: "Gwanghwamun",
		Dropoff:        north(1),
	}
	if err := (deliveryStore{e.store}).Create(context.Background(), d); err != nil {
		t.Fatalf("create delivery: %v", err)
	}
	return d
}

func (e *env) offer(t *testing.T, id string) domain.Offer {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	o, ok := e.store.offers[id]
	if !ok {
		t.Fatalf("offer %s not found", id)
	}
	return o
}

func (e *env) deliveryStatus(id string) domain.DeliveryStatus {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return e.store.deliveries[id].Status
}

func (e *env) riderStatus(id string) domain.RiderStatus {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return e.store.riders[id].Status
}

func (e *env) pendingOffers(deliveryID string) []domain.Offer {
	out, _ := (offerStore{e.store}).FindByDelivery(context.Background(), deliveryID, domain.OfferPending)
	return out
}

func (e *env) offersOf(deliveryID string) []domain.Offer {
	out, _ := (offerStore{e.store}).List(context.Background(), domain.OfferFilter{DeliveryID: deliveryID})
	return out
}

// setRiderStatusBehindCache changes the record store only, leaving the cache stale.
func (e *env) setRiderStatusBehindCache(id string, st domain.RiderStatus) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	_ = e.store.setRider(id, st)
}
