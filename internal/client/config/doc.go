// Package config loads runtime configuration for the yard client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. An optional .env file in the working directory.
//  3. YARD_* environment variables.
//  4. Optional JSON file selected via flags: -c or -config.
//  5. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   auth service base URL
//	-d string   PostgreSQL DSN of the data store
//	-b string   backend: remote or demo
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so "10s" and integer nanoseconds both work:
//
//	{
//	  "backend": "remote",
//	  "auth_url": "https://project.supabase.co",
//	  "anon_key": "...",
//	  "database_dsn": "postgres://...",
//	  "upload_backend": "cloudinary",
//	  "request_timeout": "10s"
//	}
package config
