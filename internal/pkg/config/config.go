// Package config reads service configuration.
//
// Keys are dot-separated ("chat.base_url"). Every key can be overridden by an
// environment variable with dots replaced by underscores ("CHAT_BASE_URL").
package config

import (
	"io"
	"time"
)

// Config is the read-only view of the configuration used by the app wiring.
type Config interface {
	io.Closer

	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetFloat64(key string) float64

	// GetSecond, GetMinute, GetHour and GetDay read an integer and scale it.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetHour(key string) time.Duration
	GetDay(key string) time.Duration

	// GetBinary decodes a base64 value, nil when invalid.
	GetBinary(key string) []byte

	// GetArray splits "a,b,c" and drops empty elements.
	GetArray(key string) []string

	// GetMap parses "k1:v1,k2:v2".
	GetMap(key string) map[string]string
}
