package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookexchange/internal/audit"
	"github.com/mrlokans/bookexchange/internal/auth"
	"github.com/mrlokans/bookexchange/internal/database/books"
	"github.com/mrlokans/bookexchange/internal/database/genres"
	"github.com/mrlokans/bookexchange/internal/database/interests"
	"github.com/mrlokans/bookexchange/internal/scheduler"
	"github.com/mrlokans/bookexchange/internal/services"
	"github.com/mrlokans/bookexchange/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.BookStore = (*books.Repository)(nil)
var _ services.GenreStore = (*genres.Repository)(nil)
var _ services.InterestStore = (*interests.Repository)(nil)

// =============================================================================
// Audit & Background Jobs
// =============================================================================

var _ auth.EventLogger = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
