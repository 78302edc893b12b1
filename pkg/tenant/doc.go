// Package tenant scopes notification groups to the tenant of a request.
//
// Middleware takes the tenant identifier from the X-Tenant-ID header and
// GroupTransformer prefixes every group with "tenant/{id}", so a client of one
// tenant never receives the notifications of another even though both use the
// same logical group names.
//
//	transformer := tenant.GroupTransformer()
//	_ = registry.SetGroupTransformer(transformer)
//	hubHandler := hubhttp.NewHandler(hub, hubhttp.WithGroupTransformer(transformer))
//	router.Use(tenant.Middleware(""))
package tenant
