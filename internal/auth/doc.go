// Package auth authenticates principals and decides what they may do.
//
// # Credentials
//
// LocalProvider checks email and password against the users table (Argon2id hashes),
// registers accounts, changes passwords and runs the password reset flow.
// TokenService issues and verifies the HS256 JWTs used as bearer tokens: short lived
// access tokens, longer lived refresh tokens and reset tokens bound to the current
// password hash, so a reset link stops working once the password changes.
//
// # Policy
//
// Authorization is two-phase. The coarse check runs before any resource is loaded:
//
//	CheckPermission(user, method, models.PermissionWrite)
//
// rejects anonymous callers with apierr.ErrUnauthenticated and, for unsafe methods,
// callers whose role lacks the bit with apierr.ErrForbidden. Handlers then fetch the
// resource and run the object check:
//
//	CheckObjectOwnership(user, method, article.AuthorID)
//
// which lets the author or a MODERATE holder through. CheckCapability requires a bit
// for every method and guards user administration.
//
// # Middleware
//
// Authenticate resolves the bearer token into a *models.User stored in the request
// locals; it never rejects a request by itself. RequireAuthenticated, RequirePermission
// and RequireCapability wrap the policy functions for routes.
package auth
