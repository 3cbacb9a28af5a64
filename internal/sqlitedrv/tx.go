package sqlitedrv

import (
	"database/sql/driver"
	"fmt"
)

var _ driver.Tx = (*Tx)(nil)

// Tx implements the database/sql/driver.Tx interface
type Tx struct {
	conn *Conn
}

// Commit commits the transaction
func (tx *Tx) Commit() error {
	if err := tx.conn.conn.Exec("COMMIT"); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction
func (tx *Tx) Rollback() error {
	if err := tx.conn.conn.Exec("ROLLBACK"); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}
