// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// Driver errors are translated onto the store sentinels: missing rows become
// store.ErrNotFound and unique violations become store.ErrConflict. Cascading
// deletes are performed explicitly inside transactions.
package gorm
