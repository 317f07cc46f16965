package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	order_number  TEXT NOT NULL UNIQUE,
	order_date    TEXT NOT NULL DEFAULT '',
	total_price   TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'Processing'
		CHECK(status IN ('Processing', 'Shipped', 'Cancelled')),
	email_address TEXT NOT NULL DEFAULT '',
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS products (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	position INTEGER NOT NULL DEFAULT 0,
	title    TEXT NOT NULL,
	price    TEXT NOT NULL DEFAULT '',
	quantity TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tracking_numbers (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id        INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	tracking_number TEXT NOT NULL,
	UNIQUE(order_id, tracking_number)
);

CREATE TABLE IF NOT EXISTS xbox_codes (
	code         TEXT PRIMARY KEY,
	email_date   TEXT NOT NULL DEFAULT '',
	order_number TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
CREATE INDEX IF NOT EXISTS idx_products_order_id ON products(order_id);
CREATE INDEX IF NOT EXISTS idx_tracking_numbers_order_id ON tracking_numbers(order_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE VIEW IF NOT EXISTS successful_orders AS
SELECT
	o.order_number,
	o.order_date,
	o.total_price,
	o.status,
	o.email_address,
	COALESCE((SELECT GROUP_CONCAT(p.title, '; ')
		FROM products p WHERE p.order_id = o.id), '') AS titles,
	COALESCE((SELECT GROUP_CONCAT(p.quantity, '; ')
		FROM products p WHERE p.order_id = o.id), '') AS quantities,
	COALESCE((SELECT GROUP_CONCAT(t.tracking_number, '; ')
		FROM tracking_numbers t WHERE t.order_id = o.id), '') AS tracking
FROM orders o
WHERE o.status != 'Cancelled';

CREATE TABLE IF NOT EXISTS sync_runs (
	id          TEXT PRIMARY KEY,
	profile     TEXT NOT NULL DEFAULT '',
	folder      TEXT NOT NULL DEFAULT '',
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	orders      INTEGER NOT NULL DEFAULT 0,
	codes       INTEGER NOT NULL DEFAULT 0,
	stats       TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_started_at ON sync_runs(started_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
