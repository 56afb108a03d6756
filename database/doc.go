// Package database provides the GORM database component.
//
// The component reads the `db` section for its primary connection and an
// optional `dbs` map of labelled connections:
//
//	db:
//	  dsn: "file:app.db?_busy_timeout=5000"
//	  max_open_conns: 10
//	dbs:
//	  reporting:
//	    dsn: "file:reporting.db"
//
// Connections are opened (with retries) while the component is built, so a
// later factory can look the component up and use the pools. Init applies
// file migrations and pings every pool; Shutdown closes them all.
//
//	app.Register(database.Factory("", database.WithMigrations(migrationsFS, "migrations")))
//
// The default dialector is SQLite (gorm.io/driver/sqlite); use WithDialector
// for another driver.
package database
