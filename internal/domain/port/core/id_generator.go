package core

// IDGenerator produces unique identifiers for sales, purchases and correlation ids
type IDGenerator interface {
	NewID() string
}
