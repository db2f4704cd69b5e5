// Package identity handles identity-candidate fallback for hostile
// servers: a fetch presents each candidate User-Agent in order and
// keeps the first response whose status indicates success.
//
// [Try] is a pure attempt loop — every candidate gets a freshly built
// request, so no header state leaks between attempts or between items
// sharing a client:
//
//	resp, winner, err := identity.Try(ctx, httpClient, buildReq, identity.Defaults())
//
// An empty candidate string means "no identity": the User-Agent header
// is suppressed entirely for that attempt.
package identity
