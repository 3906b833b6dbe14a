// Package interfaces documents the seams between the exchange's layers.
//
// # Interface Categories
//
// ## Store Interfaces (internal/services/interfaces.go)
//
//   - BookStore: books with their genres (internal/database/books)
//   - GenreStore: get-or-create genres by name (internal/database/genres)
//   - InterestStore: book interests and the choose update (internal/database/interests)
//
// The services depend only on these, so a store can be swapped or faked
// in tests without touching the permission rules.
//
// ## Collaborator Interfaces
//
//   - auth.EventLogger: authentication events, implemented by *audit.Service
//   - tasks.AuditEventCleaner: retention cleanup, implemented by *audit.Service
//   - scheduler.Enqueuer: task submission, implemented by *tasks.Client
//
// # Adding a New Store
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Implement the interface methods, taking context.Context first
//
//  4. Add compile-time check to checks.go:
//
//     var _ services.SomeStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the current list.
package interfaces
