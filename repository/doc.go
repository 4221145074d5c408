// Package repository provides typed reads and staged writes bound to a
// session.UnitOfWork, plus the batched users-with-orders loader.
package repository
