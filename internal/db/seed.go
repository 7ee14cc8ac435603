package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// seedStatements replace all reporting data with a small demo data set. The
// data deliberately mixes naive and offset timestamps and includes one line
// that references a product that does not exist.
var seedStatements = []struct {
	name string
	sql  string
}{
	{"clear", `
		TRUNCATE order_items, orders, purchase_items, purchases,
		         products, units, categories, clients, areas, companies
		RESTART IDENTITY CASCADE;`},
	{"companies", `
		INSERT INTO companies (id, name, color) VALUES
		  (1, 'Casa Verde', '#2E7D32'),
		  (2, 'Bistro Norte', '#1565C0'),
		  (3, 'Mercado Sur', NULL);`},
	{"areas", `
		INSERT INTO areas (id, company_id, name, color) VALUES
		  (1, 1, 'Kitchen',   '#C62828'),
		  (2, 1, 'Bakery',    '#6A1B9A'),
		  (3, 2, 'Main',      '#EF6C00'),
		  (4, 3, 'Warehouse', NULL);`},
	{"clients", `
		INSERT INTO clients (id, name, color) VALUES
		  (1, 'Finca El Roble', '#558B2F'),
		  (2, 'Huerta Andina',  '#00838F');`},
	{"categories", `
		INSERT INTO categories (id, name) VALUES
		  (1, 'Vegetables'), (2, 'Fruits'), (3, 'Herbs'), (4, 'Dairy');`},
	{"units", `
		INSERT INTO units (id, name) VALUES
		  (1, 'kg'), (2, 'lb'), (3, 'bunch'), (4, 'box');`},
	{"products", `
		INSERT INTO products (id, name, category_id) VALUES
		  (1, 'Tomato',   1),
		  (2, 'Onion',    1),
		  (3, 'avocado',  2),
		  (4, 'Banana',   2),
		  (5, 'Cilantro', 3),
		  (6, 'Cheese',   4),
		  (7, 'Ginger',   NULL);`},
	{"orders", `
		INSERT INTO orders (id, area_id, created_at, observation) VALUES
		  (1, 1, '2024-03-04 08:15:00',        'Deliver before 9am'),
		  (2, 1, '2024-03-05T23:00:00-05:00',  '  '),
		  (3, 2, '2024-03-06T02:00:00Z',       'Ring the back door'),
		  (4, 3, '2024-03-06',                 NULL),
		  (5, 4, '2024-03-07T10:30:00',        'Ripe avocados only');`},
	{"order_items", `
		INSERT INTO order_items (order_id, product_id, quantity, unit_id) VALUES
		  (1, 1, 2,    1),
		  (1, 5, 3,    3),
		  (2, 1, 3,    1),
		  (2, 3, 1.5,  1),
		  (3, 1, 4,    2),
		  (3, 6, 2,    4),
		  (4, 2, 10,   1),
		  (4, 99, 5,   1),
		  (5, 3, 12,   4),
		  (5, 7, 0.25, 1);`},
	{"purchases", `
		INSERT INTO purchases (id, client_id, created_at, observation) VALUES
		  (1, 1, '2024-03-01 07:00:00', NULL),
		  (2, 1, '2024-03-04 07:00:00', NULL),
		  (3, 1, '2024-03-04T15:00:00Z', NULL),
		  (4, 2, '2024-03-05', 'Partial delivery');`},
	{"purchase_items", `
		INSERT INTO purchase_items (purchase_id, product_id, quantity, unit_cost, unit_id) VALUES
		  (1, 1, 20, 2500, 1),
		  (2, 1, 15, 2600, 1),
		  (3, 1, 5,  2600, 1),
		  (3, 2, 30, 1800, 1),
		  (4, 4, 40, 900,  4);`},
	{"sequences", `
		SELECT setval('companies_id_seq',  (SELECT MAX(id) FROM companies));
		SELECT setval('areas_id_seq',      (SELECT MAX(id) FROM areas));
		SELECT setval('clients_id_seq',    (SELECT MAX(id) FROM clients));
		SELECT setval('categories_id_seq', (SELECT MAX(id) FROM categories));
		SELECT setval('units_id_seq',      (SELECT MAX(id) FROM units));
		SELECT setval('products_id_seq',   (SELECT MAX(id) FROM products));
		SELECT setval('orders_id_seq',     (SELECT MAX(id) FROM orders));
		SELECT setval('purchases_id_seq',  (SELECT MAX(id) FROM purchases));`},
}

// Seed replaces the reporting tables with demo data in one transaction.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	log := zerolog.Ctx(ctx)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range seedStatements {
		if _, err := tx.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("failed to seed %s: %w", stmt.name, err)
		}
		log.Debug().Str("step", stmt.name).Msg("seed step done")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	log.Info().Msg("demo data seeded")
	return nil
}
