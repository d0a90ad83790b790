package migrations

import "embed"

// FS contém os arquivos SQL versionados do goose
//
//go:embed *.sql
var FS embed.FS
