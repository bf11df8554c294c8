// Package config is the key-value input database the forcing engine reads its
// station definitions from. Keys follow ParFlow naming, eg.
// "Solver.CLM.Stations.<name>.Elevation".
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMissingKey a required key is absent
	ErrMissingKey = errors.New("missing input key")
	// ErrInvalidValue a key holds a value that cannot be converted
	ErrInvalidValue = errors.New("invalid input value")
)

// DB read access to the input database
type DB interface {
	GetString(key string) (string, error)
	GetInt(key string) (int, error)
	GetDouble(key string) (float64, error)
}

// Database a DB held in memory
type Database map[string]string

// Set assigns a value to key
func (d Database) Set(key, value string) { d[key] = value }

// GetString returns the value of key
func (d Database) GetString(key string) (string, error) {
	if v, ok := d[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: <%s>", ErrMissingKey, key)
}

// GetInt returns the value of key as an integer
func (d Database) GetInt(key string) (int, error) {
	s, err := d.GetString(key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: <%s> for key <%s> is not an integer", ErrInvalidValue, s, key)
	}
	return i, nil
}

// GetDouble returns the value of key as a float
func (d Database) GetDouble(key string) (float64, error) {
	s, err := d.GetString(key)
	if err != nil {
		return 0., err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0., fmt.Errorf("%w: <%s> for key <%s> is not a number", ErrInvalidValue, s, key)
	}
	return f, nil
}

// NameArray splits a whitespace-separated list of names
func NameArray(s string) []string {
	return strings.Fields(s)
}

// NameToIndex returns the position of name in names, -1 if not found
func NameToIndex(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
