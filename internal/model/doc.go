// Package model provides the plain value records driven by the navsplit
// state core.
//
// This package contains value types only. Every other internal package
// may import model; model imports nothing internal.
//
// Key design constraints:
//   - Entities are immutable once created and replaced wholesale on update
//   - Identified collections never mutate in place; every change returns
//     a new collection, so a snapshot handed to an observer stays valid
//   - Names are NFC normalised at construction so equal names compare equal
//   - Seed identifiers are derived, not random, so a seed is reproducible
package model
