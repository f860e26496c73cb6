package repository

import "fmt"

// StoreError marks an OxiDB I/O or protocol failure. Handlers log the cause
// and return a generic 500; the wrapped detail never reaches clients.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
