// Package config composes the application configuration from the partial
// configurations of each subsystem (server, storage, log, database).
//
// Values come from environment variables, optionally overlaid by a .env file
// via godotenv. Defaults are declared as struct tags on each partial config
// and bound into Viper reflectively, so a subsystem adds a setting by adding
// a tagged field without any central registration.
//
// Environment keys map to nested config keys by underscore replacement,
// e.g. SERVER_PORT -> server.port, DATABASE_TIMEOUT_SECONDS ->
// database.timeout_seconds.
package config
