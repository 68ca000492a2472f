package models

import (
	"database/sql/driver"
	"sort"

	"github.com/lib/pq"
)

// IntArray is a custom type for handling INTEGER[] arrays in PostgreSQL
type IntArray []int

// Value implements the driver.Valuer interface
func (a IntArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return pq.Array(a).Value()
}

// Scan implements the sql.Scanner interface
func (a *IntArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	slice := (*[]int)(a)
	return pq.Array(slice).Scan(src)
}

// Contains reports whether n is present in the array
func (a IntArray) Contains(n int) bool {
	for _, v := range a {
		if v == n {
			return true
		}
	}
	return false
}

// With returns a new sorted array with the given seats added
func (a IntArray) With(seats []int) IntArray {
	next := make(IntArray, 0, len(a)+len(seats))
	next = append(next, a...)
	next = append(next, seats...)
	sort.Ints(next)
	return next
}

// Without returns a new sorted array with the given seats removed
func (a IntArray) Without(seats []int) IntArray {
	drop := make(map[int]bool, len(seats))
	for _, s := range seats {
		drop[s] = true
	}
	next := make(IntArray, 0, len(a))
	for _, s := range a {
		if !drop[s] {
			next = append(next, s)
		}
	}
	sort.Ints(next)
	return next
}

// StringArray is a custom type for handling TEXT[] arrays in PostgreSQL
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return pq.Array(a).Value()
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	slice := (*[]string)(a)
	return pq.Array(slice).Scan(src)
}
