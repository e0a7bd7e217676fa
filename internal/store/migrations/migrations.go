// Package migrations embeds the schema of the hosted Yard database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
