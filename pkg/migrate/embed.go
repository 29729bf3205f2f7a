package migrate

import "embed"

// EmbeddedDir is the directory name of the SQL files inside Embedded.
const EmbeddedDir = "migrations"

// Embedded carries the postgres schema so binaries can migrate without the source tree.
//
//go:embed migrations/*.sql
var Embedded embed.FS
