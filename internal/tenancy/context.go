// Package tenancy carries the per-request organization identity through
// request context.
package tenancy

import "context"

type orgIDKey struct{}

// WithOrgID returns a context carrying the organization id.
func WithOrgID(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, orgIDKey{}, orgID)
}

// OrgIDFromContext reports the organization id stored by WithOrgID. An
// empty id is treated as absent.
func OrgIDFromContext(ctx context.Context) (string, bool) {
	orgID, ok := ctx.Value(orgIDKey{}).(string)
	if !ok || orgID == "" {
		return "", false
	}
	return orgID, true
}
