package storage

import (
	"context"
	"database/sql"
	"errors"
)

// Schema creates the table MySQLStore reads and writes.
const Schema = `CREATE TABLE IF NOT EXISTS client_storage (
  client_id  CHAR(36)    NOT NULL,
  item_key   VARCHAR(32) NOT NULL,
  item_value TEXT        NOT NULL,
  updated_at DATETIME    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  PRIMARY KEY (client_id, item_key)
)`

// MySQLStore persists values in the client_storage table.
type MySQLStore struct{ DB *sql.DB }

func NewMySQLStore(db *sql.DB) *MySQLStore { return &MySQLStore{DB: db} }

// Migrate creates the client_storage table when it is missing.
func (m *MySQLStore) Migrate(ctx context.Context) error {
	_, err := m.DB.ExecContext(ctx, Schema)
	return err
}

func (m *MySQLStore) Get(ctx context.Context, clientID, key string) (string, error) {
	var v string
	err := m.DB.QueryRowContext(ctx,
		"SELECT item_value FROM client_storage WHERE client_id=? AND item_key=? LIMIT 1",
		clientID, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

func (m *MySQLStore) Set(ctx context.Context, clientID, key, value string) error {
	_, err := m.DB.ExecContext(ctx,
		"INSERT INTO client_storage (client_id, item_key, item_value) VALUES (?,?,?) ON DUPLICATE KEY UPDATE item_value=VALUES(item_value)",
		clientID, key, value)
	return err
}

func (m *MySQLStore) Remove(ctx context.Context, clientID, key string) error {
	_, err := m.DB.ExecContext(ctx,
		"DELETE FROM client_storage WHERE client_id=? AND item_key=?",
		clientID, key)
	return err
}
