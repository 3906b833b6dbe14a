// Package database provides the data access layer for the exchange.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, migrations, partial indexes
//	├── books/           # Book CRUD and catalog filtering
//	├── genres/          # Genre get-or-create
//	├── interests/       # Book interests and recipient selection
//	├── users/           # Accounts, token hashes, login bookkeeping
//	└── audit/           # Audit event storage
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	booksRepo := books.NewRepository(db.DB)
//	genresRepo := genres.NewRepository(db.DB)
//	interestsRepo := interests.NewRepository(db.DB)
//
// # Interface Implementations
//
//   - books.Repository: implements services.BookStore
//   - genres.Repository: implements services.GenreStore
//   - interests.Repository: implements services.InterestStore
//
// Repositories return gorm errors unchanged (gorm.ErrRecordNotFound,
// gorm.ErrDuplicatedKey); the services layer maps them to domain errors.
package database
