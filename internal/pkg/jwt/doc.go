// Package jwt verifies the access tokens issued by the identity service and
// carries the authenticated principal through the request context.
package jwt
