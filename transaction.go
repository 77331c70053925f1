package embedded

import (
	"context"
	"regexp"
)

var savepointName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// AutoCommit reports whether every statement commits on its own.
func (c *Connection) AutoCommit() bool { return c.autoCommit }

// SetAutoCommit switches autocommit mode. Turning it off opens a
// transaction; turning it back on commits the open one.
func (c *Connection) SetAutoCommit(on bool) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if on == c.autoCommit {
		return nil
	}
	stmt := "BEGIN TRANSACTION"
	if on {
		stmt = "COMMIT"
	}
	if err := c.control(stmt); err != nil {
		return err
	}
	c.autoCommit = on
	return nil
}

// Commit commits the current transaction and opens the next one.
func (c *Connection) Commit() error {
	return c.finish("COMMIT")
}

// Rollback rolls the current transaction back and opens the next one.
func (c *Connection) Rollback() error {
	return c.finish("ROLLBACK")
}

func (c *Connection) finish(stmt string) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if c.autoCommit {
		return newErrorf(TransactionFailure, "%s not allowed in autocommit mode", stmt)
	}
	if err := c.control(stmt); err != nil {
		return err
	}
	return c.control("BEGIN TRANSACTION")
}

// SetSavepoint marks a savepoint in the current transaction.
func (c *Connection) SetSavepoint(name string) error {
	return c.savepoint("SAVEPOINT ", name)
}

// ReleaseSavepoint removes a savepoint.
func (c *Connection) ReleaseSavepoint(name string) error {
	return c.savepoint("RELEASE SAVEPOINT ", name)
}

// RollbackToSavepoint undoes the work done since the savepoint was set.
func (c *Connection) RollbackToSavepoint(name string) error {
	return c.savepoint("ROLLBACK TO SAVEPOINT ", name)
}

func (c *Connection) savepoint(stmt, name string) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if c.autoCommit {
		return NewError(TransactionFailure, "savepoints not allowed in autocommit mode")
	}
	if !savepointName.MatchString(name) {
		return newErrorf(InvalidLiteral, "invalid savepoint name %q", name)
	}
	return c.control(stmt + name)
}

func (c *Connection) control(stmt string) error {
	res, err := c.execute(context.Background(), stmt, "transaction")
	if err != nil {
		return err
	}
	res.Close()
	return nil
}
