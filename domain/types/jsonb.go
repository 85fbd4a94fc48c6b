// domain/types/jsonb.go
package types

// JSONB is a loose key/value payload used for handler responses and
// websocket event bodies.
type JSONB map[string]interface{}
