// Package store persists classified screenplay records in SQLite or
// PostgreSQL and queries them back by label, page and text.
//
// Both backends share one schema and one code path over database/sql;
// they differ only in driver, DDL types and placeholder syntax.
package store
