package ports

import "github.com/atomconnect/atom-connect-api/internal/core/domain"

// Actor identifies the authenticated caller of a service operation, as
// decoded from the session token. Services gate every mutating operation
// on Actor.Role before touching data.
type Actor struct {
	ID   string
	Role domain.Role
}
