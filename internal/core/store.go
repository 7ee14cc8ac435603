package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransactionStore is the read side the report engine depends on.
// It returns transactions with every reference it could resolve; anything it
// could not resolve is left nil for the engine to skip.
type TransactionStore interface {
	// ListOrders returns orders whose stored creation day falls within
	// [fromDay, toDay]. Empty bounds are open. The bounds are a coarse
	// pre-filter on the raw text; callers apply exact date keys afterwards.
	ListOrders(ctx context.Context, fromDay, toDay string) ([]Order, error)

	// ListPurchases is the purchase counterpart of ListOrders.
	ListPurchases(ctx context.Context, fromDay, toDay string) ([]Purchase, error)

	// ListUnits returns every unit of measure.
	ListUnits(ctx context.Context) ([]Unit, error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error
}

type transactionStore struct {
	pool *pgxpool.Pool
}

// NewTransactionStore constructs a TransactionStore backed by PostgreSQL.
func NewTransactionStore(pool *pgxpool.Pool) TransactionStore {
	return &transactionStore{pool: pool}
}

func (s *transactionStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *transactionStore) ListUnits(ctx context.Context) ([]Unit, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, name FROM units ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	var units []Unit
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unit row iteration error: %w", err)
	}
	return units, nil
}

func (s *transactionStore) ListOrders(ctx context.Context, fromDay, toDay string) ([]Order, error) {
	const q = `
		SELECT o.id, o.created_at, COALESCE(o.observation, ''),
		       a.id, a.name, a.color,
		       c.id, c.name, c.color,
		       oi.id, oi.quantity, oi.unit_id,
		       p.id, p.name,
		       cat.id, cat.name
		FROM orders o
		LEFT JOIN areas a         ON a.id   = o.area_id
		LEFT JOIN companies c     ON c.id   = a.company_id
		LEFT JOIN order_items oi  ON oi.order_id = o.id
		LEFT JOIN products p      ON p.id   = oi.product_id
		LEFT JOIN categories cat  ON cat.id = p.category_id
		WHERE ($1::text = '' OR substr(o.created_at, 1, 10) >= $1::text)
		  AND ($2::text = '' OR substr(o.created_at, 1, 10) <= $2::text)
		ORDER BY o.id ASC, oi.id ASC`

	rows, err := s.pool.Query(ctx, q, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	refs := newRefCache()
	var orders []Order
	var current *Order

	for rows.Next() {
		var (
			orderID                int
			createdAt, observation string
			areaID                 *int
			areaName, areaColor    *string
			companyID              *int
			companyName, compColor *string
			itemID, unitID         *int
			quantity               decimal.NullDecimal
			productID              *int
			productName            *string
			categoryID             *int
			categoryName           *string
		)
		if err := rows.Scan(
			&orderID, &createdAt, &observation,
			&areaID, &areaName, &areaColor,
			&companyID, &companyName, &compColor,
			&itemID, &quantity, &unitID,
			&productID, &productName,
			&categoryID, &categoryName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}

		if current == nil || current.ID != orderID {
			orders = append(orders, Order{
				ID:          orderID,
				CreatedAt:   createdAt,
				Observation: observation,
				Area: refs.area(areaID, areaName, areaColor,
					refs.company(companyID, companyName, compColor)),
			})
			current = &orders[len(orders)-1]
		}

		// An order without items yields one row of NULL item columns.
		if itemID == nil {
			continue
		}
		current.Items = append(current.Items, OrderItem{
			ID:       *itemID,
			Product:  refs.product(productID, productName, refs.category(categoryID, categoryName)),
			Quantity: quantity.Decimal,
			UnitID:   deref(unitID),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order row iteration error: %w", err)
	}
	return orders, nil
}

func (s *transactionStore) ListPurchases(ctx context.Context, fromDay, toDay string) ([]Purchase, error) {
	const q = `
		SELECT pu.id, pu.created_at, COALESCE(pu.observation, ''),
		       cl.id, cl.name, cl.color,
		       pi.id, pi.quantity, pi.unit_cost, pi.unit_id,
		       p.id, p.name,
		       cat.id, cat.name
		FROM purchases pu
		LEFT JOIN clients cl        ON cl.id  = pu.client_id
		LEFT JOIN purchase_items pi ON pi.purchase_id = pu.id
		LEFT JOIN products p        ON p.id   = pi.product_id
		LEFT JOIN categories cat    ON cat.id = p.category_id
		WHERE ($1::text = '' OR substr(pu.created_at, 1, 10) >= $1::text)
		  AND ($2::text = '' OR substr(pu.created_at, 1, 10) <= $2::text)
		ORDER BY pu.id ASC, pi.id ASC`

	rows, err := s.pool.Query(ctx, q, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	refs := newRefCache()
	var purchases []Purchase
	var current *Purchase

	for rows.Next() {
		var (
			purchaseID              int
			createdAt, observation  string
			clientID                *int
			clientName, clientColor *string
			itemID, unitID          *int
			quantity, unitCost      decimal.NullDecimal
			productID               *int
			productName             *string
			categoryID              *int
			categoryName            *string
		)
		if err := rows.Scan(
			&purchaseID, &createdAt, &observation,
			&clientID, &clientName, &clientColor,
			&itemID, &quantity, &unitCost, &unitID,
			&productID, &productName,
			&categoryID, &categoryName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan purchase row: %w", err)
		}

		if current == nil || current.ID != purchaseID {
			purchases = append(purchases, Purchase{
				ID:          purchaseID,
				CreatedAt:   createdAt,
				Observation: observation,
				Client:      refs.client(clientID, clientName, clientColor),
			})
			current = &purchases[len(purchases)-1]
		}

		if itemID == nil {
			continue
		}
		current.Items = append(current.Items, PurchaseItem{
			ID:       *itemID,
			Product:  refs.product(productID, productName, refs.category(categoryID, categoryName)),
			Quantity: quantity.Decimal,
			UnitCost: unitCost.Decimal,
			UnitID:   deref(unitID),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("purchase row iteration error: %w", err)
	}
	return purchases, nil
}

// refCache shares one pointer per referenced row so that every order of the
// same area points at the same *Area.
type refCache struct {
	companies  map[int]*Company
	areas      map[int]*Area
	clients    map[int]*Client
	categories map[int]*Category
	products   map[int]*Product
}

func newRefCache() *refCache {
	return &refCache{
		companies:  make(map[int]*Company),
		areas:      make(map[int]*Area),
		clients:    make(map[int]*Client),
		categories: make(map[int]*Category),
		products:   make(map[int]*Product),
	}
}

func (r *refCache) company(id *int, name, color *string) *Company {
	if id == nil {
		return nil
	}
	if c, ok := r.companies[*id]; ok {
		return c
	}
	c := &Company{ID: *id, Name: deref(name), Color: deref(color)}
	r.companies[*id] = c
	return c
}

func (r *refCache) area(id *int, name, color *string, company *Company) *Area {
	if id == nil {
		return nil
	}
	if a, ok := r.areas[*id]; ok {
		return a
	}
	a := &Area{ID: *id, Name: deref(name), Color: deref(color), Company: company}
	r.areas[*id] = a
	return a
}

func (r *refCache) client(id *int, name, color *string) *Client {
	if id == nil {
		return nil
	}
	if c, ok := r.clients[*id]; ok {
		return c
	}
	c := &Client{ID: *id, Name: deref(name), Color: deref(color)}
	r.clients[*id] = c
	return c
}

func (r *refCache) category(id *int, name *string) *Category {
	if id == nil {
		return nil
	}
	if c, ok := r.categories[*id]; ok {
		return c
	}
	c := &Category{ID: *id, Name: deref(name)}
	r.categories[*id] = c
	return c
}

func (r *refCache) product(id *int, name *string, category *Category) *Product {
	if id == nil {
		return nil
	}
	if p, ok := r.products[*id]; ok {
		return p
	}
	p := &Product{ID: *id, Name: deref(name), Category: category}
	r.products[*id] = p
	return p
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
