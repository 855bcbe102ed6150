package store

const schema = `
CREATE TABLE IF NOT EXISTS signals (
    article_key TEXT NOT NULL,
    signal_id   TEXT NOT NULL,
    weight      INTEGER NOT NULL DEFAULT 0,
    author      TEXT NOT NULL DEFAULT '',
    text        TEXT NOT NULL DEFAULT '',
    posted_at   DATETIME NOT NULL,
    observed_at DATETIME NOT NULL,
    PRIMARY KEY (article_key, signal_id)
);

CREATE INDEX IF NOT EXISTS idx_signals_key ON signals(article_key);
CREATE INDEX IF NOT EXISTS idx_signals_observed ON signals(observed_at);

CREATE TABLE IF NOT EXISTS alert_state (
    article_key        TEXT PRIMARY KEY,
    last_alerted_score INTEGER NOT NULL DEFAULT 0,
    last_alerted_at    DATETIME NOT NULL
);
`
