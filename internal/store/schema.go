package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS datasets (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    row_count            INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS customers (
    file_path            TEXT NOT NULL REFERENCES datasets(file_path) ON DELETE CASCADE,
    row_idx              INTEGER NOT NULL,
    customer_id          TEXT,
    has_gas              TEXT NOT NULL,
    churn                INTEGER NOT NULL,
    nb_prod_act          INTEGER NOT NULL,
    origin_up            TEXT NOT NULL,
    cons_12m             REAL NOT NULL,
    margin_net_pow_ele   REAL NOT NULL,
    pow_max              REAL NOT NULL,
    date_activ           TEXT NOT NULL,
    date_end             TEXT NOT NULL,
    date_modif_prod      TEXT NOT NULL,
    date_renewal         TEXT NOT NULL,
    PRIMARY KEY (file_path, row_idx)
);

CREATE INDEX IF NOT EXISTS idx_customers_origin ON customers(origin_up);
`
