// Package db carries the SQL schema and seed data applied at startup.
// Every statement is idempotent so re-running on boot is safe.
package db

import _ "embed"

//go:embed schema.sql
var Schema string

//go:embed seed_tickets.sql
var SeedTickets string
