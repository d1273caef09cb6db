package auth

import (
	"fmt"

	"github.com/nattapongw/fieldservice/internal"
)

// RequireLevel rejects actors below the minimum permission level. The
// check is a plain numeric comparison, so granting a role a higher
// level never revokes anything it could already do.
func RequireLevel(actor *Actor, minLevel int) error {
	if actor == nil {
		return internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken)
	}
	if actor.Level() < minLevel {
		return internal.NewForbiddenError(
			fmt.Sprintf("requires permission level %d", minLevel),
			internal.ErrCodeInsufficientLevel,
		)
	}
	return nil
}

// RequireSuperAdmin is the top of the ladder, nothing more.
func RequireSuperAdmin(actor *Actor) error {
	return RequireLevel(actor, LevelSuperAdmin)
}
