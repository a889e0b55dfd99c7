// Package all wires all built-in storage backends into the storage registry.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their factories and DDL bootstrappers with the storage package. Importing
// it makes the following storage kinds available at runtime:
//
//   - "postgres" (datloader/internal/storage/postgres)
//   - "mssql"    (datloader/internal/storage/mssql)
//   - "sqlite"   (datloader/internal/storage/sqlite)
//
// A binary that supports only a subset of backends can blank-import the
// required backend packages directly instead of this one.
package all

import (
	_ "datloader/internal/storage/mssql"
	_ "datloader/internal/storage/postgres"
	_ "datloader/internal/storage/sqlite"
)
