// Package database opens the optional MySQL connection behind the audit journal.
//
// It wraps GORM with the MySQL driver, puts the configured timeouts into the DSN,
// and pings the server before handing out the connection. The connection is
// optional: callers log the error and carry on without it.
//
// # Usage
//
//	db, err := database.Connect(ctx, cfg.Database)
//	if err != nil {
//	    log.Warn("Audit journal disabled", zap.Error(err))
//	}
package database
