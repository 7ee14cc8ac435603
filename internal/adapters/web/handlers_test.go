package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"produce-reports/internal/app"
	"produce-reports/internal/picklist"

	"github.com/rs/zerolog"
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

func serve(t *testing.T, svc *mockService, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(svc, "https://ops.example.com", zerolog.Nop())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "ok", expectedStatus: http.StatusOK},
		{
			name:           "database down",
			err:            fmt.Errorf("%w: connection refused", app.ErrUpstream),
			expectedStatus: http.StatusBadGateway,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("Health", mock.Anything).Return(tt.err)

			rec := serve(t, svc, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			svc.AssertExpectations(t)
		})
	}
}

func TestOrderReport(t *testing.T) {
	xlsx := &app.ReportResult{
		Filename:    "orders_2024-03-01_2024-03-31.xlsx",
		ContentType: app.ContentTypeXLSX,
		Body:        []byte("PK-workbook"),
	}
	csv := &app.ReportResult{
		Filename:    "orders_2024-03-01_2024-03-31.csv",
		ContentType: app.ContentTypeCSV,
		Body:        []byte("\ufeffCategory\n"),
		Dropped:     2,
	}
	rng := app.ReportRequest{Start: "2024-03-01", End: "2024-03-31"}

	tests := []struct {
		name           string
		query          string
		setupMock      func(*mockService)
		expectedStatus int
		expectedType   string
		expectedName   string
		expectedDrops  string
	}{
		{
			name:  "workbook by default",
			query: "?start=2024-03-01&end=2024-03-31",
			setupMock: func(m *mockService) {
				m.On("OrderReport", mock.Anything, rng).Return(xlsx, nil)
			},
			expectedStatus: http.StatusOK,
			expectedType:   app.ContentTypeXLSX,
			expectedName:   xlsx.Filename,
		},
		{
			name:  "csv",
			query: "?start=2024-03-01&end=2024-03-31&format=csv",
			setupMock: func(m *mockService) {
				m.On("OrderReportCSV", mock.Anything, rng).Return(csv, nil)
			},
			expectedStatus: http.StatusOK,
			expectedType:   app.ContentTypeCSV,
			expectedName:   csv.Filename,
			expectedDrops:  "2",
		},
		{
			name:           "unknown format",
			query:          "?format=pdf",
			setupMock:      func(m *mockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "invalid range",
			query: "?start=2024-13-01",
			setupMock: func(m *mockService) {
				m.On("OrderReport", mock.Anything, app.ReportRequest{Start: "2024-13-01"}).
					Return(nil, fmt.Errorf("%w: start is not a date", app.ErrValidation))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			tt.setupMock(svc)

			rec := serve(t, svc, httptest.NewRequest(http.MethodGet, "/api/reports/orders"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedType, rec.Header().Get("Content-Type"))
				assert.Equal(t, `attachment; filename="`+tt.expectedName+`"`, rec.Header().Get("Content-Disposition"))
				assert.Equal(t, fmt.Sprint(rec.Body.Len()), rec.Header().Get("Content-Length"))
				assert.Equal(t, tt.expectedDrops, rec.Header().Get("X-Dropped-Items"))
			} else {
				assert.Equal(t, "BAD_REQUEST", decodeError(t, rec).Code)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestPurchaseReport_HidesInternalErrors(t *testing.T) {
	svc := new(mockService)
	svc.On("PurchaseReport", mock.Anything, app.ReportRequest{}).
		Return(nil, fmt.Errorf("%w: excelize: sheet name too long", app.ErrRender))

	rec := serve(t, svc, httptest.NewRequest(http.MethodGet, "/api/reports/purchases", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.NotContains(t, body.Error, "excelize")
	assert.Equal(t, rec.Header().Get("X-Request-ID"), body.RequestID)
}

func TestPickList(t *testing.T) {
	pdf := &app.ReportResult{
		Filename:    "picklist_kitchen_20240306-0845.pdf",
		ContentType: app.ContentTypePDF,
		Body:        []byte("%PDF-1.3"),
	}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*mockService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "rendered",
			body: `{"areaName":"Kitchen","items":[{"productName":"Tomato","quantity":"2.5","unitName":"kg"}]}`,
			setupMock: func(m *mockService) {
				m.On("PickList", mock.Anything, mock.MatchedBy(func(req picklist.Request) bool {
					return req.AreaName == "Kitchen" && len(req.Items) == 1 && req.Items[0].Quantity.String() == "2.5"
				})).Return(pdf, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "empty body",
			body:           "",
			setupMock:      func(m *mockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name:           "malformed body",
			body:           `{"areaName":`,
			setupMock:      func(m *mockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name: "no items",
			body: `{"areaName":"Kitchen","items":[]}`,
			setupMock: func(m *mockService) {
				m.On("PickList", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: %w", app.ErrValidation, picklist.ErrInvalidRequest))
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name: "render failure",
			body: `{"areaName":"Kitchen","items":[{"productName":"Tomato","quantity":1,"unitName":"kg"}]}`,
			setupMock: func(m *mockService) {
				m.On("PickList", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: font not found", app.ErrRender))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/picklist", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := serve(t, svc, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, app.ContentTypePDF, rec.Header().Get("Content-Type"))
				assert.Equal(t, "%PDF-1.3", rec.Body.String())
			} else {
				assert.Equal(t, tt.expectedCode, decodeError(t, rec).Code)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestPickList_BodyTooLarge(t *testing.T) {
	svc := new(mockService)
	big := `{"areaName":"` + strings.Repeat("x", maxBodyBytes) + `"}`

	rec := serve(t, svc, httptest.NewRequest(http.MethodPost, "/api/picklist", strings.NewReader(big)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	svc.AssertNotCalled(t, "PickList", mock.Anything, mock.Anything)
}

func TestPickListSchema(t *testing.T) {
	rec := serve(t, new(mockService), httptest.NewRequest(http.MethodGet, "/api/picklist/schema", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var schema map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "areaName")
	assert.Contains(t, props, "items")
}

func TestRecoverer(t *testing.T) {
	svc := new(mockService)
	svc.On("Health", mock.Anything).Run(func(mock.Arguments) { panic("boom") })

	rec := serve(t, svc, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, rec).Code)
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "caller id kept", incoming: "abc-123", keep: true},
		{name: "unsafe id replaced", incoming: "abc 123<script>", keep: false},
		{name: "missing id generated", incoming: "", keep: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("Health", mock.Anything).Return(nil)
			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			if tt.incoming != "" {
				req.Header.Set("X-Request-ID", tt.incoming)
			}

			rec := serve(t, svc, req)

			got := rec.Header().Get("X-Request-ID")
			require.NotEmpty(t, got)
			assert.Equal(t, tt.keep, got == tt.incoming)
		})
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		allow  string
	}{
		{name: "listed origin", origin: "https://ops.example.com", allow: "https://ops.example.com"},
		{name: "other origin", origin: "https://evil.example.com", allow: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/picklist", nil)
			req.Header.Set("Origin", tt.origin)

			rec := serve(t, new(mockService), req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.allow, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestWriteServiceError_UnknownErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("something odd"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeError(t, rec).Error)
}
