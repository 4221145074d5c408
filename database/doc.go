// Package database provides connection management, pool tuning, migrations,
// foreign key handling, configuration types, query hooks, logging, health
// checks and driver error classification built on top of Bun.
package database
