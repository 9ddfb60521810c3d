package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS participants (
    id                   TEXT PRIMARY KEY,
    seq                  INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    ndis_number          TEXT NOT NULL DEFAULT '',
    level                TEXT NOT NULL,
    rate                 REAL NOT NULL,
    budget               REAL NOT NULL DEFAULT 0,
    balance              REAL NOT NULL DEFAULT 0,
    plan_end             TEXT NOT NULL,
    hours                REAL NOT NULL DEFAULT 0,
    notes                TEXT,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS balance_log (
    participant_id       TEXT NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
    balance              REAL NOT NULL,
    recorded_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS roster_meta (
    key                  TEXT PRIMARY KEY,
    value                INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_participants_seq ON participants(seq);
CREATE INDEX IF NOT EXISTS idx_balance_log_participant ON balance_log(participant_id, recorded_at);
`
