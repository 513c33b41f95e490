package listing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKR-SG/ASP/internal/ati"
	"github.com/SKR-SG/ASP/internal/entity"
)

type fakeCities struct {
	ids map[string]int64
}

func (f *fakeCities) CityID(_ context.Context, name string) (int64, error) {
	if id, ok := f.ids[name]; ok {
		return id, nil
	}
	return 0, ati.ErrCityNotFound
}

type fakeContacts struct {
	id int64
}

func (f *fakeContacts) Resolve(_ context.Context, _ string) (int64, error) {
	return f.id, nil
}

type fakeRules struct {
	rules []entity.DistributionRule
}

func (f *fakeRules) ListByPlatform(_ context.Context, _ string) ([]entity.DistributionRule, error) {
	return f.rules, nil
}

func testDicts() *ati.Dictionaries {
	return &ati.Dictionaries{
		CarTypes:       map[string]int{"тент": 200, "рефрижератор": 300},
		LoadingTypes:   map[string]int{"верхняя": 1, "боковая": 2, "задняя": 3},
		UnloadingTypes: map[string]int{"верхняя": 1, "боковая": 2, "задняя": 3},
	}
}

func testTransformer(ruleSet []entity.DistributionRule) *Transformer {
	cities := &fakeCities{ids: map[string]int64{"Москва": 4, "Казань": 9}}
	return NewTransformer(cities, &fakeContacts{id: 77}, &fakeRules{rules: ruleSet}, testDicts(), "board-1")
}

func testOrder() *entity.Order {
	price := 9000.0
	loadingAddr := "Ленина"
	unloadingAddr := "Баумана 7"
	return &entity.Order{
		ExternalNo:       "T2-100",
		Platform:         "ati",
		LoadingCity:      "Москва",
		UnloadingCity:    "Казань",
		LoadingAddress:   &loadingAddr,
		UnloadingAddress: &unloadingAddr,
		LoadDate:         time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		WeightVolume:     "20 т / 82 м3",
		VehicleType:      "Тент, 82 м3",
		LoadingTypes:     "задняя",
		OrderType:        entity.OrderTypeAssigned,
		BidPrice:         10000,
		AtiPrice:         &price,
		LogisticianName:  "Иванов Иван",
	}
}

func TestBuildFixedRate(t *testing.T) {
	tr := testTransformer(nil)

	app, err := tr.Build(context.Background(), testOrder())
	require.NoError(t, err)

	assert.Equal(t, int64(4), app.Route.Loading.CityID)
	assert.Equal(t, int64(9), app.Route.Unloading.CityID)
	assert.Equal(t, "Ленина", app.Route.Loading.Address)
	assert.Equal(t, "Баумана 7", app.Route.Unloading.Address)
	assert.Equal(t, []int64{77}, app.Contacts)
	assert.Equal(t, []ati.Board{{ID: "board-1", PublicationMode: "now"}}, app.Boards)

	require.Len(t, app.Route.Loading.Cargos, 1)
	cargo := app.Route.Loading.Cargos[0]
	assert.Equal(t, DefaultCargoName, cargo.Name)
	assert.Equal(t, 20.0, cargo.Weight.Quantity)
	assert.Equal(t, 82, cargo.Volume.Quantity)

	assert.Equal(t, []int{200}, app.Truck.BodyTypes)
	assert.Equal(t, []int{3}, app.Truck.BodyLoading.Types)
	assert.Empty(t, app.Truck.BodyUnloading.Types)

	assert.Equal(t, ati.PaymentWithoutBargaining, app.Payment.Type)
	assert.Equal(t, 9000.0, app.Payment.RateWithVAT)
	assert.Equal(t, int64(7500), app.Payment.RateWithoutVAT)
	assert.Equal(t, defaultPaymentDays, app.Payment.PaymentMode.PaymentDelayDays)
	assert.Empty(t, app.Note)
}

func TestBuildRateRequestWhenNoPrice(t *testing.T) {
	tr := testTransformer(nil)
	order := testOrder()
	order.AtiPrice = nil

	app, err := tr.Build(context.Background(), order)
	require.NoError(t, err)

	assert.Equal(t, ati.PaymentRateRequest, app.Payment.Type)
	assert.True(t, app.Payment.RateWithVATAvailable)
	assert.True(t, app.Payment.RateWithoutVATAvailable)
	assert.Zero(t, app.Payment.RateWithVAT)
}

func TestBuildEmptyAddressesWhenUnresolved(t *testing.T) {
	tr := testTransformer(nil)
	order := testOrder()
	order.LoadingAddress = nil
	order.UnloadingAddress = nil

	app, err := tr.Build(context.Background(), order)
	require.NoError(t, err)

	assert.Empty(t, app.Route.Loading.Address)
	assert.Empty(t, app.Route.Unloading.Address)
}

func TestBuildLoadDatesBoundedSingleDay(t *testing.T) {
	tr := testTransformer(nil)

	app, err := tr.Build(context.Background(), testOrder())
	require.NoError(t, err)

	dates := app.Route.Loading.Dates
	require.NotNil(t, dates)
	assert.Equal(t, ati.DatesTypeFromDate, dates.Type)
	assert.Equal(t, "2026-03-10", dates.FirstDate)
	assert.Equal(t, "2026-03-10", dates.LastDate)
	assert.Equal(t, ati.TimeWindowBounded, dates.Time.Type)
	assert.Equal(t, "09:30", dates.Time.Start)
	assert.Equal(t, "09:30", dates.Time.End)
}

func TestBuildUnloadDatesOmittedWhenUnknown(t *testing.T) {
	tr := testTransformer(nil)
	order := testOrder()
	order.UnloadDate = nil

	app, err := tr.Build(context.Background(), order)
	require.NoError(t, err)
	assert.Nil(t, app.Route.Unloading.Dates)

	ts := time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)
	order.UnloadDate = &ts
	app, err = tr.Build(context.Background(), order)
	require.NoError(t, err)
	require.NotNil(t, app.Route.Unloading.Dates)
	assert.Equal(t, "2026-03-12", app.Route.Unloading.Dates.FirstDate)
}

func TestBuildPaymentDaysFromRule(t *testing.T) {
	from := "Москва"
	tr := testTransformer([]entity.DistributionRule{
		{Platform: "ati", LoadingCity: &from, PaymentDays: 45},
	})

	app, err := tr.Build(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, 45, app.Payment.PaymentMode.PaymentDelayDays)
}

func TestBuildCargoNameFromRule(t *testing.T) {
	name := "Продукты"
	tr := testTransformer([]entity.DistributionRule{
		{Platform: "ati", CargoName: &name},
	})

	app, err := tr.Build(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, "Продукты", app.Route.Loading.Cargos[0].Name)
}

func TestBuildAuctionNote(t *testing.T) {
	tr := testTransformer(nil)
	order := testOrder()
	order.OrderType = entity.OrderTypeAuction

	app, err := tr.Build(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, "Аукцион", app.Note)
}

func TestBuildCityNotFound(t *testing.T) {
	tr := testTransformer(nil)
	order := testOrder()
	order.LoadingCity = "Неизвестный"

	_, err := tr.Build(context.Background(), order)
	require.Error(t, err)
	assert.ErrorIs(t, err, ati.ErrCityNotFound)
}
