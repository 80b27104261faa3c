// Package migrations empaqueta los archivos SQL del esquema para que el
// binario pueda aplicarlos sin acceso al árbol de fuentes.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
