package authz

import "errors"

// ErrUnauthorized means no identity was presented at all. HTTP boundaries
// translate it to 401.
var ErrUnauthorized = errors.New("unauthorized: no authenticated user")

// ErrForbidden means an identity was presented but lacks the required
// relation. HTTP boundaries translate it to 403 with a generic denial, so
// an unrelated user learns nothing about the resource.
var ErrForbidden = errors.New("forbidden: insufficient permissions")
