package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"produce-reports/internal/app"
	"produce-reports/internal/picklist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) result(args mock.Arguments) (*app.ReportResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.ReportResult), args.Error(1)
}

func (m *mockService) OrderReport(ctx context.Context, req app.ReportRequest) (*app.ReportResult, error) {
	return m.result(m.Called(ctx, req))
}

func (m *mockService) OrderReportCSV(ctx context.Context, req app.ReportRequest) (*app.ReportResult, error) {
	return m.result(m.Called(ctx, req))
}

func (m *mockService) PurchaseReport(ctx context.Context, req app.ReportRequest) (*app.ReportResult, error) {
	return m.result(m.Called(ctx, req))
}

func (m *mockService) PickList(ctx context.Context, req picklist.Request) (*app.ReportResult, error) {
	return m.result(m.Called(ctx, req))
}

func (m *mockService) Health(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func execute(t *testing.T, opts Options, args ...string) error {
	t.Helper()
	cmd := NewRootCommand(opts)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestOrdersReport_ToStdout(t *testing.T) {
	svc := new(mockService)
	svc.On("OrderReportCSV", mock.Anything, app.ReportRequest{Start: "2024-03-01", End: "2024-03-31"}).
		Return(&app.ReportResult{Filename: "orders.csv", Body: []byte("\ufeffCategory\n")}, nil)
	var stdout bytes.Buffer

	err := execute(t, Options{Stdout: &stdout, Service: svc},
		"orders-report", "--start", "2024-03-01", "--end", "2024-03-31", "--format", "csv", "--out", "-")

	require.NoError(t, err)
	assert.Equal(t, "\ufeffCategory\n", stdout.String())
	svc.AssertExpectations(t)
}

func TestOrdersReport_RejectsUnknownFormat(t *testing.T) {
	svc := new(mockService)

	err := execute(t, Options{Service: svc}, "orders-report", "--format", "ods")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
	svc.AssertNotCalled(t, "OrderReport", mock.Anything, mock.Anything)
}

func TestOrdersReport_ServiceError(t *testing.T) {
	svc := new(mockService)
	svc.On("OrderReport", mock.Anything, app.ReportRequest{Start: "2024-02-30"}).
		Return(nil, app.ErrValidation)

	err := execute(t, Options{Service: svc}, "orders-report", "--start", "2024-02-30")

	assert.ErrorIs(t, err, app.ErrValidation)
}

func TestPurchasesReport_DefaultFilename(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	svc := new(mockService)
	svc.On("PurchaseReport", mock.Anything, app.ReportRequest{}).
		Return(&app.ReportResult{Filename: "purchases_all_all.xlsx", Body: []byte("PK")}, nil)

	require.NoError(t, execute(t, Options{Service: svc}, "purchases-report"))

	body, err := os.ReadFile("purchases_all_all.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "PK", string(body))
}

func TestPickList_RendersFromFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "order.json")
	out := filepath.Join(dir, "order.pdf")
	require.NoError(t, os.WriteFile(in, []byte(`{
		"areaName": "Cocina Norte",
		"observation": "Deliver before 7am",
		"items": [
			{"productName": "Tomato", "quantity": 12.5, "unitName": "kg"},
			{"productName": "Cilantro", "quantity": "3", "unitName": "bunch"}
		]
	}`), 0o644))

	require.NoError(t, execute(t, Options{}, "picklist", "--in", in, "--out", out))

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestPickList_FromStdin(t *testing.T) {
	svc := new(mockService)
	svc.On("PickList", mock.Anything, mock.MatchedBy(func(req picklist.Request) bool {
		return req.AreaName == "Bar" && len(req.Items) == 1
	})).Return(&app.ReportResult{Filename: "p.pdf", Body: []byte("%PDF-1.3")}, nil)
	var stdout bytes.Buffer
	stdin := strings.NewReader(`{"areaName":"Bar","items":[{"productName":"Lime","quantity":1,"unitName":"kg"}]}`)

	err := execute(t, Options{Stdout: &stdout, Stdin: stdin, Service: svc}, "picklist", "--out", "-")

	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", stdout.String())
}

func TestPickList_InvalidJSON(t *testing.T) {
	err := execute(t, Options{Stdin: strings.NewReader("{")}, "picklist")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pick-list request")
}
