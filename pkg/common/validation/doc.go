// Package validation provides common validation utilities for configuration
// parameters across the parflow library.
//
// Pool constructors clamp bad values instead of rejecting them; these helpers
// back the strict Validate methods that front-ends call before building a pool.
package validation
