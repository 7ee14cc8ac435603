package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"produce-reports/internal/core"
	"produce-reports/internal/picklist"
	"produce-reports/internal/report"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListOrders(ctx context.Context, fromDay, toDay string) ([]core.Order, error) {
	args := m.Called(ctx, fromDay, toDay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]core.Order), args.Error(1)
}

func (m *mockStore) ListPurchases(ctx context.Context, fromDay, toDay string) ([]core.Purchase, error) {
	args := m.Called(ctx, fromDay, toDay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]core.Purchase), args.Error(1)
}

func (m *mockStore) ListUnits(ctx context.Context) ([]core.Unit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]core.Unit), args.Error(1)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var (
	utcMinus5 = time.FixedZone("UTC-5", -5*60*60)

	casaVerde = &core.Company{ID: 1, Name: "Casa Verde", Color: "#2E7D32"}
	kitchen   = &core.Area{ID: 10, Name: "Kitchen", Color: "#C62828", Company: casaVerde}
	veg       = &core.Category{ID: 1, Name: "Vegetables"}
	tomato    = &core.Product{ID: 1, Name: "Tomato", Category: veg}
	onion     = &core.Product{ID: 2, Name: "Onion", Category: veg}
	finca     = &core.Client{ID: 1, Name: "Finca El Roble"}

	units = []core.Unit{{ID: 1, Name: "kg"}, {ID: 2, Name: "lb"}}
)

func testOptions() report.Options {
	return report.Options{
		Location:         utcMinus5,
		CategoryPriority: report.DefaultCategoryPriority,
		Uncategorized:    report.DefaultUncategorized,
	}
}

func newTestService(store core.TransactionStore) *appService {
	svc := NewAppService(store, testOptions()).(*appService)
	svc.now = func() time.Time { return time.Date(2024, 3, 6, 13, 45, 0, 0, time.UTC) }
	return svc
}

func testOrders() []core.Order {
	q := decimal.RequireFromString
	return []core.Order{
		{ID: 1, Area: kitchen, CreatedAt: "2024-03-04 09:00:00", Items: []core.OrderItem{
			{Product: tomato, Quantity: q("2"), UnitID: 1},
		}},
		{ID: 2, Area: kitchen, CreatedAt: "2024-03-06T02:00:00Z", Observation: "Late night", Items: []core.OrderItem{
			{Product: onion, Quantity: q("3"), UnitID: 1},
			{Product: nil, Quantity: q("1"), UnitID: 1},
		}},
		{ID: 3, Area: kitchen, CreatedAt: "2024-03-06", Items: []core.OrderItem{
			{Product: tomato, Quantity: q("7"), UnitID: 2},
		}},
		{ID: 4, Area: kitchen, CreatedAt: "not a date", Items: []core.OrderItem{
			{Product: tomato, Quantity: q("100"), UnitID: 1},
		}},
	}
}

func TestOrderReport(t *testing.T) {
	store := new(mockStore)
	store.On("ListUnits", mock.Anything).Return(units, nil)
	store.On("ListOrders", mock.Anything, "2024-03-03", "2024-03-07").Return(testOrders(), nil)
	svc := newTestService(store)

	res, err := svc.OrderReport(context.Background(), ReportRequest{Start: "2024-03-04", End: "2024-03-06"})
	require.NoError(t, err)
	store.AssertExpectations(t)

	assert.Equal(t, "orders-report_2024-03-04_2024-03-06.xlsx", res.Filename)
	assert.Equal(t, ContentTypeXLSX, res.ContentType)
	assert.Equal(t, 1, res.Dropped)

	f, err := excelize.OpenReader(bytes.NewReader(res.Body))
	require.NoError(t, err)
	defer f.Close()
	header, err := f.GetCellValue("Orders", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Casa Verde", header)
}

func TestOrderReportCSV_FiltersByDateKey(t *testing.T) {
	store := new(mockStore)
	store.On("ListUnits", mock.Anything).Return(units, nil)
	store.On("ListOrders", mock.Anything, "2024-03-04", "2024-03-06").Return(testOrders(), nil)
	svc := newTestService(store)

	res, err := svc.OrderReportCSV(context.Background(), ReportRequest{Start: "2024-03-05", End: "2024-03-05"})
	require.NoError(t, err)

	assert.Equal(t, "orders-report_2024-03-05_2024-03-05.csv", res.Filename)
	assert.Equal(t, ContentTypeCSV, res.ContentType)

	body := string(res.Body)
	// Only order 2 lands on 2024-03-05 in the reference zone.
	assert.Contains(t, body, "Onion,3kg")
	assert.NotContains(t, body, "Tomato")
	assert.Contains(t, body, "• Late night")
}

func TestOrderReport_Unbounded(t *testing.T) {
	store := new(mockStore)
	store.On("ListUnits", mock.Anything).Return(units, nil)
	store.On("ListOrders", mock.Anything, "", "").Return(testOrders(), nil)
	svc := newTestService(store)

	res, err := svc.OrderReportCSV(context.Background(), ReportRequest{})
	require.NoError(t, err)

	assert.Equal(t, "orders-report_all_all.csv", res.Filename)
	// The undated order is kept when no range is requested.
	assert.Contains(t, string(res.Body), "Tomato,102kg + 7lb")
}

func TestOrderReport_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		req  ReportRequest
	}{
		{"bad start", ReportRequest{Start: "2024-13-01"}},
		{"bad end", ReportRequest{End: "03/05/2024"}},
		{"reversed", ReportRequest{Start: "2024-03-06", End: "2024-03-05"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockStore)
			svc := newTestService(store)

			_, err := svc.OrderReport(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrValidation)
			store.AssertNotCalled(t, "ListOrders", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestOrderReport_UpstreamFailure(t *testing.T) {
	store := new(mockStore)
	store.On("ListUnits", mock.Anything).Return(units, nil).Maybe()
	store.On("ListOrders", mock.Anything, "", "").Return(nil, errors.New("connection refused"))
	svc := newTestService(store)

	res, err := svc.OrderReport(context.Background(), ReportRequest{})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestOrderReport_UnitsFailure(t *testing.T) {
	store := new(mockStore)
	store.On("ListUnits", mock.Anything).Return(nil, errors.New("timeout"))
	store.On("ListOrders", mock.Anything, "", "").Return(testOrders(), nil).Maybe()
	svc := newTestService(store)

	_, err := svc.OrderReportCSV(context.Background(), ReportRequest{})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestPurchaseReport(t *testing.T) {
	q := decimal.RequireFromString
	purchases := []core.Purchase{
		{ID: 1, Client: finca, CreatedAt: "2024-03-04 07:00:00", Items: []core.PurchaseItem{
			{Product: tomato, Quantity: q("10"), UnitCost: q("2500"), UnitID: 1},
		}},
		{ID: 2, Client: finca, CreatedAt: "2024-03-09", Items: []core.PurchaseItem{
			{Product: tomato, Quantity: q("1"), UnitCost: q("1"), UnitID: 1},
		}},
		{ID: 3, Client: finca, CreatedAt: "garbage", Items: []core.PurchaseItem{
			{Product: tomato, Quantity: q("1"), UnitCost: q("1"), UnitID: 1},
		}},
	}
	store := new(mockStore)
	store.On("ListUnits", mock.Anything).Return(units, nil)
	store.On("ListPurchases", mock.Anything, "2024-03-03", "2024-03-08").Return(purchases, nil)
	svc := newTestService(store)

	res, err := svc.PurchaseReport(context.Background(), ReportRequest{Start: "2024-03-04", End: "2024-03-07"})
	require.NoError(t, err)

	assert.Equal(t, "purchases-report_2024-03-04_2024-03-07.xlsx", res.Filename)
	assert.Equal(t, 1, res.Dropped)

	f, err := excelize.OpenReader(bytes.NewReader(res.Body))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Purchases")
	require.NoError(t, err)
	last := rows[len(rows)-1]
	assert.Equal(t, "GRAND TOTAL", last[0])
	assert.Equal(t, "25000", last[len(last)-1])
}

func TestPickList(t *testing.T) {
	svc := newTestService(new(mockStore))

	res, err := svc.PickList(context.Background(), picklist.Request{
		AreaName: "Cocina Norte",
		Items:    []picklist.Item{{ProductName: "Tomato", Quantity: decimal.NewFromInt(2), UnitName: "kg"}},
	})
	require.NoError(t, err)

	assert.Equal(t, ContentTypePDF, res.ContentType)
	assert.Equal(t, "picklist_cocina-norte_20240306-0845.pdf", res.Filename)
	assert.True(t, bytes.HasPrefix(res.Body, []byte("%PDF-")))
}

func TestPickList_Invalid(t *testing.T) {
	svc := newTestService(new(mockStore))

	_, err := svc.PickList(context.Background(), picklist.Request{AreaName: "Kitchen"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, picklist.ErrInvalidRequest)
}

func TestHealth(t *testing.T) {
	store := new(mockStore)
	store.On("Ping", mock.Anything).Return(errors.New("down")).Once()
	store.On("Ping", mock.Anything).Return(nil).Once()
	svc := newTestService(store)

	assert.ErrorIs(t, svc.Health(context.Background()), ErrUpstream)
	assert.NoError(t, svc.Health(context.Background()))
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Cocina Norte":    "cocina-norte",
		"  Bar / Grill! ": "bar-grill",
		"Ñandú":           "and",
		"***":             "area",
	}
	for in, want := range tests {
		assert.Equal(t, want, slug(in), "slug(%q)", in)
	}
}

func TestRangeTitle(t *testing.T) {
	assert.Equal(t, "Orders report 2024-03-01 to 2024-03-07", rangeTitle("Orders report", ReportRequest{Start: "2024-03-01", End: "2024-03-07"}))
	assert.True(t, strings.HasSuffix(rangeTitle("Orders report", ReportRequest{}), "beginning to today"))
}
