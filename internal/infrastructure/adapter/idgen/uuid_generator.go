package idgen

import (
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/google/uuid"
)

// UUIDGenerator issues random (version 4) UUIDs
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUIDGenerator
func NewUUIDGenerator() core.IDGenerator {
	return UUIDGenerator{}
}

// NewID returns a new UUID string
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
