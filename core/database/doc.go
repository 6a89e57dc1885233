// Package database handles the GORM-backed MySQL connection.
//
// It configures the DSN (charset, parseTime, connection and I/O timeouts)
// and the connection pool from the application's configuration, and silences
// GORM's built-in logger in favor of the structured application logger.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
