// Package library holds the read-only catalog of predefined fields and
// accepted document types, grouped by category. The builder, the onboarding
// wizards and the category data-entry form all read from it. Lookups never
// fail loudly: an unknown category or field simply yields nothing, and
// Validate passes values for fields it does not know.
package library
