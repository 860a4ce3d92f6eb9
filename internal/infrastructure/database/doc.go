// Package database opens the SQLite access journal and keeps its schema
// current.
//
// The journal holds access outcomes and doorbell rings only. PIN digits
// and stored codes never reach it.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{
//	    Path:        cfg.Database.Path,
//	    WALMode:     cfg.Database.WALMode,
//	    BusyTimeout: cfg.Database.BusyTimeout,
//	})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are forward-only files named YYYYMMDD_HHMMSS_name.up.sql,
// embedded by the migrations package.
package database
