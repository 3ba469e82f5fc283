// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) and hold no business rules.
package repository

import "time"

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// DateRange bounds a listing by a record's business date, inclusive. Zero values are open.
type DateRange struct {
	From time.Time
	To   time.Time
}
