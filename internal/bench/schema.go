package bench

import "github.com/nsqlite/sqlitebind/internal/sqlitec"

const schema = `
	DROP TABLE IF EXISTS users;

	CREATE TABLE users (
		id INTEGER PRIMARY KEY NOT NULL,
		created INTEGER NOT NULL,
		email TEXT NOT NULL,
		active INTEGER NOT NULL
	);
	CREATE INDEX users_created ON users(created);
`

// recreateSchema drops the benchmark table and recreates it.
func recreateSchema(conn *sqlitec.Conn) error {
	return conn.Exec(schema)
}
