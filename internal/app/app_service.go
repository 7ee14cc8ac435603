package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"produce-reports/internal/core"
	"produce-reports/internal/export"
	"produce-reports/internal/picklist"
	"produce-reports/internal/report"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type appService struct {
	store core.TransactionStore
	opts  report.Options
	now   func() time.Time
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(store core.TransactionStore, opts report.Options) ApplicationService {
	return &appService{store: store, opts: opts, now: time.Now}
}

// OrderReport returns the order workbook.
func (s *appService) OrderReport(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	doc, dropped, err := s.orderDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	body, err := export.WriteXLSX(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return &ReportResult{
		Filename:    export.ReportFilename("orders-report", req.Start, req.End, FormatXLSX),
		ContentType: ContentTypeXLSX,
		Body:        body,
		Dropped:     dropped,
	}, nil
}

// OrderReportCSV returns the order report as CSV.
func (s *appService) OrderReportCSV(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	doc, dropped, err := s.orderDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return &ReportResult{
		Filename:    export.ReportFilename("orders-report", req.Start, req.End, FormatCSV),
		ContentType: ContentTypeCSV,
		Body:        buf.Bytes(),
		Dropped:     dropped,
	}, nil
}

// PurchaseReport returns the purchase workbook.
func (s *appService) PurchaseReport(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		units     []core.Unit
		purchases []core.Purchase
	)
	from, to := report.WidenRange(req.Start, req.End)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		units, err = s.store.ListUnits(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		purchases, err = s.store.ListPurchases(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	// Unparseable dates pass through so the aggregator counts them as dropped.
	inRange := make([]core.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if key, ok := report.DateKey(p.CreatedAt, s.opts.Location); ok && !report.InRange(key, req.Start, req.End) {
			continue
		}
		inRange = append(inRange, p)
	}

	tree := report.AggregatePurchases(inRange, core.NewUnitNames(units), s.opts.Location)
	s.logDropped(ctx, "purchases", tree.Dropped)

	doc, err := report.RenderPurchases(tree, s.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	doc.Title = rangeTitle("Purchases report", req)

	body, err := export.WriteXLSX(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return &ReportResult{
		Filename:    export.ReportFilename("purchases-report", req.Start, req.End, FormatXLSX),
		ContentType: ContentTypeXLSX,
		Body:        body,
		Dropped:     tree.Dropped,
	}, nil
}

// PickList renders a single order as a PDF.
func (s *appService) PickList(ctx context.Context, req picklist.Request) (*ReportResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	now := s.now()
	if s.opts.Location != nil {
		now = now.In(s.opts.Location)
	}
	body, err := picklist.Render(req, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	zerolog.Ctx(ctx).Debug().
		Str("area", req.AreaName).
		Int("items", len(req.Items)).
		Int("bytes", len(body)).
		Msg("pick list rendered")

	return &ReportResult{
		Filename:    fmt.Sprintf("picklist_%s_%s.pdf", slug(req.AreaName), now.Format("20060102-1504")),
		ContentType: ContentTypePDF,
		Body:        body,
	}, nil
}

func (s *appService) Health(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return nil
}

// orderDocument fetches, filters, aggregates and renders orders. Units and
// orders are fetched concurrently and both must succeed before aggregation.
func (s *appService) orderDocument(ctx context.Context, req ReportRequest) (*report.Document, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}

	var (
		units  []core.Unit
		orders []core.Order
	)
	from, to := report.WidenRange(req.Start, req.End)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		units, err = s.store.ListUnits(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.store.ListOrders(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	orders = filterOrders(orders, req, s.opts.Location)

	tree := report.AggregateOrders(orders, core.NewUnitNames(units), s.opts)
	s.logDropped(ctx, "orders", tree.Dropped)

	companies := report.NewSorter(s.opts).SortedCompanies(tree)
	doc, err := report.RenderOrders(tree, companies, report.CollectObservations(orders), s.opts)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrRender, err)
	}
	doc.Title = rangeTitle("Orders report", req)
	return doc, tree.Dropped, nil
}

// filterOrders keeps orders whose date key falls in the range. Orders without
// a date key are kept only for an unbounded request.
func filterOrders(orders []core.Order, req ReportRequest, loc *time.Location) []core.Order {
	out := make([]core.Order, 0, len(orders))
	for _, o := range orders {
		key, ok := report.DateKey(o.CreatedAt, loc)
		if !ok {
			if req.Bounded() {
				continue
			}
		} else if !report.InRange(key, req.Start, req.End) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (s *appService) logDropped(ctx context.Context, source string, dropped int) {
	if dropped == 0 {
		return
	}
	zerolog.Ctx(ctx).Warn().
		Str("source", source).
		Int("dropped", dropped).
		Msg("line items with unresolvable references left out of report")
}

func rangeTitle(prefix string, req ReportRequest) string {
	start, end := req.Start, req.End
	if start == "" {
		start = "beginning"
	}
	if end == "" {
		end = "today"
	}
	return fmt.Sprintf("%s %s to %s", prefix, start, end)
}

// slug lowercases s and replaces every run of characters other than ASCII
// letters and digits with "-".
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "area"
	}
	return out
}
