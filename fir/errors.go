// Copyright © 2024 The ELPS authors

package fir

import "errors"

var (
	// ErrDuplicatePackage is returned when a package ID is inserted twice.
	ErrDuplicatePackage = errors.New("duplicate package")
	// ErrUnknownPackage is returned for references to packages not in the
	// store.
	ErrUnknownPackage = errors.New("unknown package")
	// ErrDependencyCycle is returned when packages depend on each other.
	ErrDependencyCycle = errors.New("package dependency cycle")
	// ErrTypeSyntax is returned for malformed type strings.
	ErrTypeSyntax = errors.New("invalid type syntax")
	// ErrInvalidStore is returned when a store document is malformed.
	ErrInvalidStore = errors.New("invalid store")
)
