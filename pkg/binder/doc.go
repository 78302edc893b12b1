// Package binder decodes HTTP request input for the entityhub handlers.
//
// JSON enforces an application/json content type, a size cap, unknown-field
// rejection and a single top-level value. PathUUID reads chi URL parameters.
// Status turns a binding error into the matching 4xx code.
package binder
