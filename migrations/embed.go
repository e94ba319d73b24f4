// Package migrations holds the versioned SQL schema for each supported database.
package migrations

import "embed"

// FS contains one sub-directory per dialect, each with NNN_name.sql files.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
