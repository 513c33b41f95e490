package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKR-SG/ASP/internal/ati"
	"github.com/SKR-SG/ASP/internal/entity"
	"github.com/SKR-SG/ASP/internal/feed"
	"github.com/SKR-SG/ASP/pkg/errorutil"
	"github.com/SKR-SG/ASP/pkg/logger"
)

type memOrders struct {
	orders map[string]*entity.Order
	saves  int
}

func newMemOrders() *memOrders {
	return &memOrders{orders: make(map[string]*entity.Order)}
}

func (m *memOrders) GetByExternalNo(_ context.Context, externalNo string) (*entity.Order, error) {
	o, ok := m.orders[externalNo]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) All(_ context.Context, platform string) ([]entity.Order, error) {
	out := make([]entity.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if o.Platform == platform {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrders) Create(_ context.Context, order *entity.Order) error {
	cp := *order
	m.orders[order.ExternalNo] = &cp
	return nil
}

func (m *memOrders) Save(_ context.Context, order *entity.Order) error {
	cp := *order
	m.orders[order.ExternalNo] = &cp
	m.saves++
	return nil
}

func (m *memOrders) DeleteByExternalNo(_ context.Context, externalNo string) error {
	delete(m.orders, externalNo)
	return nil
}

func (m *memOrders) SetListing(_ context.Context, externalNo, cargoID, cargoNumber string) error {
	o := m.orders[externalNo]
	o.CargoID = &cargoID
	o.Published = &cargoNumber
	return nil
}

func (m *memOrders) ClearListing(_ context.Context, externalNo string) error {
	o := m.orders[externalNo]
	o.CargoID = nil
	o.Published = nil
	return nil
}

type fakeRules struct {
	rules []entity.DistributionRule
}

func (f *fakeRules) ListByPlatform(_ context.Context, _ string) ([]entity.DistributionRule, error) {
	return f.rules, nil
}

type fakeGate struct {
	enabled bool
}

func (f *fakeGate) Enabled(_ context.Context, _ string) (bool, error) {
	return f.enabled, nil
}

type fakeFeed struct {
	snapshot *feed.Snapshot
}

func (f *fakeFeed) Fetch(_ context.Context) (*feed.Snapshot, error) {
	return f.snapshot, nil
}

type fakeMarket struct {
	creates   int
	updates   int
	withdraws []string
	createErr error
	updateErr error
}

func (f *fakeMarket) CreateCargo(_ context.Context, _ *ati.CargoApplication) (*ati.CargoRef, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.creates++
	return &ati.CargoRef{CargoID: "cargo-1", CargoNumber: "AT-1"}, nil
}

func (f *fakeMarket) UpdateCargo(_ context.Context, _ string, _ *ati.CargoApplication) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	return nil
}

func (f *fakeMarket) WithdrawCargo(_ context.Context, cargoID string) error {
	f.withdraws = append(f.withdraws, cargoID)
	return nil
}

type fakeBuilder struct {
	builds int
}

func (f *fakeBuilder) Build(_ context.Context, _ *entity.Order) (*ati.CargoApplication, error) {
	f.builds++
	return &ati.CargoApplication{}, nil
}

type fakeScheduler struct {
	calls  []scheduledPublish
	inline *Reconciler
}

type scheduledPublish struct {
	externalNo string
	delay      int
}

func (f *fakeScheduler) Schedule(ctx context.Context, platform, externalNo string, delayMinutes int) error {
	f.calls = append(f.calls, scheduledPublish{externalNo: externalNo, delay: delayMinutes})
	if delayMinutes == 0 && f.inline != nil {
		return f.inline.PublishOrder(ctx, platform, externalNo)
	}
	return nil
}

type fakeNotifier struct {
	events []ListingEvent
}

func (f *fakeNotifier) ListingChanged(_ context.Context, event ListingEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fixture struct {
	orders    *memOrders
	rules     *fakeRules
	gate      *fakeGate
	feed      *fakeFeed
	market    *fakeMarket
	builder   *fakeBuilder
	scheduler *fakeScheduler
	notifier  *fakeNotifier
	engine    *Reconciler
}

func newFixture(ruleSet []entity.DistributionRule, snapshot *feed.Snapshot) *fixture {
	f := &fixture{
		orders:    newMemOrders(),
		rules:     &fakeRules{rules: ruleSet},
		gate:      &fakeGate{enabled: true},
		feed:      &fakeFeed{snapshot: snapshot},
		market:    &fakeMarket{},
		builder:   &fakeBuilder{},
		scheduler: &fakeScheduler{},
		notifier:  &fakeNotifier{},
	}
	f.engine = NewReconciler(f.orders, f.rules, f.gate, f.feed, f.market, f.builder, f.scheduler, f.notifier, logger.Nop())
	f.scheduler.inline = f.engine
	return f
}

func candidate(externalNo string) feed.Candidate {
	return feed.Candidate{
		ExternalNo:    externalNo,
		OrderType:     entity.OrderTypeAssigned,
		LoadingCity:   "Москва",
		UnloadingCity: "Казань",
		LoadDate:      time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
		Weight:        20,
		Volume:        82,
		VehicleType:   "Тент",
		LoadingTypes:  "задняя",
		BidPrice:      10000,
	}
}

func snapshotOf(cands ...feed.Candidate) *feed.Snapshot {
	s := &feed.Snapshot{Complete: true}
	for _, c := range cands {
		s.Candidates = append(s.Candidates, c)
		s.ExternalNos = append(s.ExternalNos, c.ExternalNo)
	}
	return s
}

func autoRule(margin float64, delay int) entity.DistributionRule {
	return entity.DistributionRule{
		Platform:      "ati",
		Logistician:   "Иванов Иван",
		MarginPercent: &margin,
		AutoPublish:   true,
		PublishDelay:  delay,
	}
}

func TestRunCreatesAndAutoPublishes(t *testing.T) {
	f := newFixture([]entity.DistributionRule{autoRule(10, 0)}, snapshotOf(candidate("T2-1")))

	require.NoError(t, f.engine.Run(context.Background(), "ati"))

	order := f.orders.orders["T2-1"]
	require.NotNil(t, order)
	require.NotNil(t, order.AtiPrice)
	assert.Equal(t, 9000.0, *order.AtiPrice)
	assert.Equal(t, "Иванов Иван", order.LogisticianName)
	assert.Equal(t, "20 т / 82 м3", order.WeightVolume)

	assert.Equal(t, 1, f.market.creates)
	assert.True(t, order.IsListed())
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, EventPublished, f.notifier.events[0].Event)
}

func TestRunPersistsNormalizedAddresses(t *testing.T) {
	cand := candidate("T2-1")
	cand.LoadingAddress = "г. Москва, ул. Тверская, 1"
	cand.UnloadingAddress = "г. Казань, ул. Баумана, 7"
	f := newFixture(nil, snapshotOf(cand))

	require.NoError(t, f.engine.Run(context.Background(), "ati"))

	order := f.orders.orders["T2-1"]
	require.NotNil(t, order)
	require.NotNil(t, order.LoadingAddress)
	assert.Equal(t, "Тверская", *order.LoadingAddress, "loading side carries the street without a house number")
	require.NotNil(t, order.UnloadingAddress)
	assert.Equal(t, "Баумана 7", *order.UnloadingAddress, "unloading side carries the house number")

	// A second run over the same feed must see the stored form as current.
	saves := f.orders.saves
	require.NoError(t, f.engine.Run(context.Background(), "ati"))
	assert.Equal(t, saves, f.orders.saves)
}

func TestRunDropsUnparseableAddress(t *testing.T) {
	cand := candidate("T2-1")
	cand.LoadingAddress = "промзона восточная"
	f := newFixture(nil, snapshotOf(cand))

	require.NoError(t, f.engine.Run(context.Background(), "ati"))

	order := f.orders.orders["T2-1"]
	require.NotNil(t, order)
	assert.Nil(t, order.LoadingAddress)
}

func TestRunDelayedPublishGoesToScheduler(t *testing.T) {
	f := newFixture([]entity.DistributionRule{autoRule(10, 5)}, snapshotOf(candidate("T2-1")))

	require.NoError(t, f.engine.Run(context.Background(), "ati"))

	require.Len(t, f.scheduler.calls, 1)
	assert.Equal(t, 5, f.scheduler.calls[0].delay)
	assert.Zero(t, f.market.creates, "delayed publish must not hit the marketplace inline")
}

func TestRunIdempotent(t *testing.T) {
	f := newFixture([]entity.DistributionRule{autoRule(10, 0)}, snapshotOf(candidate("T2-1")))

	require.NoError(t, f.engine.Run(context.Background(), "ati"))
	creates, updates := f.market.creates, f.market.updates
	saves := f.orders.saves

	require.NoError(t, f.engine.Run(context.Background(), "ati"))

	assert.Equal(t, creates, f.market.creates)
	assert.Equal(t, updates, f.market.updates)
	assert.Empty(t, f.market.withdraws)
	assert.Equal(t, saves, f.orders.saves, "unchanged order must not be rewritten")
}

func TestRunDeletesVanishedWithWithdraw(t *testing.T) {
	f := newFixture(nil, snapshotOf())
	cargoID := "cargo-9"
	number := "AT-9"
	f.orders.orders["T2-GONE"] = &entity.Order{
		ExternalNo: "T2-GONE",
		Platform:   "ati",
		CargoID:    &cargoID,
		Published:  &number,
	}

	require.NoError(t, f.engine.Run(context.Background(), "ati"))

	assert.Equal(t, []string{"cargo-9"}, f.market.withdraws)
	assert.NotContains(t, f.orders.orders, "T2-GONE")
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, EventWithdrawn, f.notifier.events[0].Event)
}

func TestRunKeepsFilteredButPresentOrders(t *testing.T) {
	// The order is still in the feed but no longer passes intake, for
	// example its status changed. It must survive the deletion phase.
	snapshot := &feed.Snapshot{Complete: true, ExternalNos: []string{"T2-HELD"}}
	f := newFixture(nil, snapshot)
	f.orders.orders["T2-HELD"] = &entity.Order{ExternalNo: "T2-HELD", Platform: "ati"}

	require.NoError(t, f.engine.Run(context.Background(), "ati"))

	assert.Contains(t, f.orders.orders, "T2-HELD")
	assert.Empty(t, f.market.withdraws)
}

func TestRunSkipsDeletionOnIncompleteSnapshot(t *testing.T) {
	snapshot := snapshotOf()
	snapshot.Complete = false
	f := newFixture(nil, snapshot)
	f.orders.orders["T2-SAFE"] = &entity.Order{ExternalNo: "T2-SAFE", Platform: "ati"}

	require.NoError(t, f.engine.Run(context.Background(), "ati"))

	assert.Contains(t, f.orders.orders, "T2-SAFE")
}

func TestRunDisabledPlatformDoesNothing(t *testing.T) {
	f := newFixture([]entity.DistributionRule{autoRule(10, 0)}, snapshotOf(candidate("T2-1")))
	f.gate.enabled = false

	require.NoError(t, f.engine.Run(context.Background(), "ati"))

	assert.Empty(t, f.orders.orders)
	assert.Zero(t, f.market.creates)
}

func TestRunSourcePriceChangeRecomputesAndUpdates(t *testing.T) {
	f := newFixture([]entity.DistributionRule{autoRule(10, 0)}, snapshotOf(candidate("T2-1")))
	require.NoError(t, f.engine.Run(context.Background(), "ati"))

	changed := candidate("T2-1")
	changed.BidPrice = 20000
	f.feed.snapshot = snapshotOf(changed)

	require.NoError(t, f.engine.Run(context.Background(), "ati"))

	order := f.orders.orders["T2-1"]
	assert.Equal(t, 20000.0, order.BidPrice)
	require.NotNil(t, order.AtiPrice)
	assert.Equal(t, 18000.0, *order.AtiPrice)
	assert.Equal(t, 1, f.market.updates)
}

func TestRunFieldChangeKeepsManualPrice(t *testing.T) {
	f := newFixture([]entity.DistributionRule{autoRule(10, 0)}, snapshotOf(candidate("T2-1")))
	require.NoError(t, f.engine.Run(context.Background(), "ati"))

	// Operator overrides the listing price by hand.
	manual := 12345.0
	f.orders.orders["T2-1"].AtiPrice = &manual

	changed := candidate("T2-1")
	changed.Comment = "срочно"
	f.feed.snapshot = snapshotOf(changed)

	require.NoError(t, f.engine.Run(context.Background(), "ati"))

	order := f.orders.orders["T2-1"]
	require.NotNil(t, order.AtiPrice)
	assert.Equal(t, 12345.0, *order.AtiPrice, "manual price must survive a non-price change")
	assert.Equal(t, "срочно", order.Comment)
	assert.Equal(t, 1, f.market.updates)
}

func TestRunRateLimitAbortsPass(t *testing.T) {
	f := newFixture([]entity.DistributionRule{autoRule(10, 0)},
		snapshotOf(candidate("T2-1"), candidate("T2-2")))
	f.market.createErr = errorutil.RateLimit("too many requests")

	err := f.engine.Run(context.Background(), "ati")
	require.Error(t, err)
	assert.True(t, errorutil.IsRateLimited(err))
	assert.Zero(t, f.market.creates)
}

func TestPublishOrderGoneIsNoop(t *testing.T) {
	f := newFixture(nil, snapshotOf())

	require.NoError(t, f.engine.PublishOrder(context.Background(), "ati", "T2-MISSING"))
	assert.Zero(t, f.market.creates)
	assert.Zero(t, f.builder.builds)
}

func TestPublishOrderAlreadyListedIsNoop(t *testing.T) {
	f := newFixture(nil, snapshotOf())
	cargoID := "cargo-5"
	f.orders.orders["T2-1"] = &entity.Order{ExternalNo: "T2-1", Platform: "ati", CargoID: &cargoID}

	require.NoError(t, f.engine.PublishOrder(context.Background(), "ati", "T2-1"))
	assert.Zero(t, f.market.creates)
}

func TestWithdrawListingClearsState(t *testing.T) {
	f := newFixture(nil, snapshotOf())
	cargoID := "cargo-5"
	number := "AT-5"
	f.orders.orders["T2-1"] = &entity.Order{ExternalNo: "T2-1", Platform: "ati", CargoID: &cargoID, Published: &number}

	require.NoError(t, f.engine.WithdrawListing(context.Background(), "T2-1"))

	assert.Equal(t, []string{"cargo-5"}, f.market.withdraws)
	order := f.orders.orders["T2-1"]
	assert.Nil(t, order.CargoID)
	assert.Nil(t, order.Published)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, EventWithdrawn, f.notifier.events[0].Event)
}
