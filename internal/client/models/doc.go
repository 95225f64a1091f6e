// Package models defines the ledger API data types as the backend sends
// them. Decoding is lenient about the backend's mixed key casing and
// timestamp formats.
package models
