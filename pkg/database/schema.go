package database

// Statements applied in order by cmd/migrate. Enum types first, then the
// three catalog tables. The derived active flags are maintained by the
// repository layer inside the mutating transaction, so no trigger is
// installed here.
var SchemaStatements = []string{
	`DO $$ BEGIN
		CREATE TYPE event_type AS ENUM ('preplay', 'inplay');
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$`,

	`DO $$ BEGIN
		CREATE TYPE event_status AS ENUM ('Pending', 'Started', 'Ended', 'Cancelled');
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$`,

	`DO $$ BEGIN
		CREATE TYPE selection_outcome AS ENUM ('Unsettled', 'Void', 'Lose', 'Win');
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$`,

	`CREATE TABLE IF NOT EXISTS sports (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		url_identifier VARCHAR(255) NOT NULL UNIQUE,
		active BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS events (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		url_identifier VARCHAR(255) NOT NULL UNIQUE,
		active BOOLEAN NOT NULL DEFAULT FALSE,
		type event_type NOT NULL,
		sport_id VARCHAR(50) NOT NULL REFERENCES sports (id),
		status event_status NOT NULL,
		scheduled_start TIMESTAMP NOT NULL,
		actual_start TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP,
		CONSTRAINT unique_name_sport UNIQUE (name, sport_id),
		CONSTRAINT check_actual_scheduled_start CHECK (actual_start >= scheduled_start OR actual_start IS NULL)
	)`,

	`CREATE TABLE IF NOT EXISTS selections (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		event_id VARCHAR(50) NOT NULL REFERENCES events (id),
		price DECIMAL(10, 2),
		active BOOLEAN NOT NULL,
		outcome selection_outcome,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP,
		CONSTRAINT unique_name_event UNIQUE (name, event_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_events_sport_id ON events (sport_id)`,
	`CREATE INDEX IF NOT EXISTS idx_selections_event_id ON selections (event_id)`,
}
