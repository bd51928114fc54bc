// FilePath: internal/repository/postgres/postgres.schema.go
package postgres

// schemaStatements create the tables when missing and upgrade tables created by
// earlier deployments, which lacked the email/name/updated_at columns and the
// telemetry tables.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sites (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		latitude DOUBLE PRECISION NULL,
		longitude DOUBLE PRECISION NULL,
		sensor_count INTEGER NOT NULL DEFAULT 0,
		building_size TEXT NOT NULL DEFAULT '',
		building_year TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'SAFE',
		construction_state TEXT NOT NULL DEFAULT 'IN_PROGRESS',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE sites ADD COLUMN IF NOT EXISTS updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'CLIENT',
		site_ids JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS email TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS name TEXT NOT NULL DEFAULT ''`,
	`CREATE TABLE IF NOT EXISTS sensors (
		id TEXT PRIMARY KEY,
		site_id TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		code TEXT UNIQUE NOT NULL,
		installed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen_at TIMESTAMPTZ NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sensors_site_id_idx ON sensors (site_id)`,
	`CREATE TABLE IF NOT EXISTS measurements (
		id TEXT PRIMARY KEY,
		sensor_id TEXT NOT NULL REFERENCES sensors(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		metrics JSONB NOT NULL DEFAULT '{}'::jsonb
	)`,
	`CREATE INDEX IF NOT EXISTS measurements_sensor_created_idx ON measurements (sensor_id, created_at DESC)`,
}

const siteColumns = `id, name, address, latitude, longitude, sensor_count, building_size,
	building_year, notes, status, construction_state, created_at, updated_at`

const userColumns = `id, username, email, name, role, site_ids, password, created_at`

const sensorColumns = `id, site_id, code, installed_at, last_seen_at`

const measurementColumns = `id, sensor_id, created_at, metrics`
