// Package sanitizer normalizes user-entered booking data before validation
// and storage.
//
// All normalization functions are idempotent: applying them twice produces the
// same result. Invalid input is handled gracefully, typically by returning an
// empty string rather than an error.
//
// Normalization includes:
//   - Phone numbers: convert to E.164 format (+[country][number]), with the
//     parse region inferred from the dialing prefix
//   - Names and titles: collapse internal whitespace, trim the ends
//   - Labels: as names, then lowercased
package sanitizer
