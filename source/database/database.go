// Package database implements the cartridge store (spec.md §4.13): a
// thin database/sql layer persisting cartridge source text and save-game
// state, gated by bcrypt-hashed accounts.
//
// Grounded on the teacher's source/database/database.go: a driver-name
// map feeding sql.Open, a migration query run once up front, and
// bcrypt-hashed credentials the same way AddAdmin/ValidateUser do it.
// Loading a cartridge always re-lexes and re-compiles its stored source —
// no compiled bytecode is ever persisted (spec.md's non-goal on
// persistent compilation output).
package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"sort"

	"golang.org/x/crypto/bcrypt"

	"github.com/kelp-lang/kelp/source/value"

	// SQL drivers. Only sqlite is required for the embedded default; the
	// others are wired in so a deployment can point the hub at a real
	// server without a code change, same as the teacher's driver map.
	_ "github.com/go-sql-driver/mysql"  // MariaDB & MySQL
	_ "github.com/lib/pq"               // Postgres
	_ "github.com/microsoft/go-mssqldb" // SQL Server
	_ "github.com/nakagami/firebirdsql" // Firebird
	_ "github.com/sijms/go-ora"         // Oracle
	_ "modernc.org/sqlite"              // SQLite
)

var drivers = map[string]string{
	"SQLite":       "sqlite",
	"Postgres":     "postgres",
	"MySQL":        "mysql",
	"MariaDB":      "mysql",
	"SQL Server":   "sqlserver",
	"Oracle":       "oracle",
	"Firebird SQL": "firebirdsql",
}

// GetSortedDrivers lists the driver names Open accepts, for a CLI prompt.
func GetSortedDrivers() []string {
	dr := make([]string, 0, len(drivers))
	for k := range drivers {
		dr = append(dr, k)
	}
	sort.Strings(dr)
	return dr
}

const defaultSlot = "default"

// Store is the cartridge store: one *sql.DB plus the migrated schema.
type Store struct {
	db *sql.DB
}

// Open connects to driver (a key of drivers) using dsn and migrates the
// schema if it isn't present yet.
func Open(driver, dsn string) (*Store, error) {
	driverName, ok := drivers[driver]
	if !ok {
		return nil, errors.New("unknown driver " + driver)
	}
	sqlObj, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if err := sqlObj.Ping(); err != nil {
		return nil, err
	}
	s := &Store{db: sqlObj}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenSQLite is the common case: an embedded sqlite file (or ":memory:"
// for tests), the default cartridge store backend.
func OpenSQLite(path string) (*Store, error) {
	return Open("SQLite", path)
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS cartridges (
	name TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
CREATE TABLE IF NOT EXISTS saves (
	cartridge TEXT NOT NULL,
	slot TEXT NOT NULL,
	key TEXT NOT NULL,
	value_json TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (cartridge, slot, key)
)`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
CREATE TABLE IF NOT EXISTS accounts (
	username TEXT PRIMARY KEY,
	password TEXT NOT NULL
)`)
	return err
}

// Close releases the underlying *sql.DB.
func (s *Store) Close() error { return s.db.Close() }

// SaveCartridge inserts or overwrites the source text stored under name.
func (s *Store) SaveCartridge(name, source string) error {
	_, err := s.db.Exec(`
INSERT INTO cartridges (name, source, updated_at) VALUES (?, ?, datetime('now'))
ON CONFLICT(name) DO UPDATE SET source = excluded.source, updated_at = excluded.updated_at`,
		name, source)
	return err
}

// LoadCartridge returns the source text stored under name.
func (s *Store) LoadCartridge(name string) (string, error) {
	var source string
	row := s.db.QueryRow(`SELECT source FROM cartridges WHERE name = ?`, name)
	if err := row.Scan(&source); err != nil {
		if err == sql.ErrNoRows {
			return "", errors.New("no cartridge named " + name)
		}
		return "", err
	}
	return source, nil
}

// ListCartridges returns every stored cartridge name, alphabetically.
func (s *Store) ListCartridges() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM cartridges ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SaveAs copies oldName's source under newName, leaving oldName intact —
// the hub's `save-as` verb.
func (s *Store) SaveAs(oldName, newName string) error {
	source, err := s.LoadCartridge(oldName)
	if err != nil {
		return err
	}
	return s.SaveCartridge(newName, source)
}

// SetSave implements game.SaveStore: persist one key/value pair in the
// cartridge's default save slot. Bool, Number, String, and Undefined
// values round-trip; Function, NativeFunction, Type, and Error values are
// rejected rather than silently dropped.
func (s *Store) SetSave(cartridge, key string, v value.Value) error {
	encoded, err := encodeValue(v)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
INSERT INTO saves (cartridge, slot, key, value_json, updated_at) VALUES (?, ?, ?, ?, datetime('now'))
ON CONFLICT(cartridge, slot, key) DO UPDATE SET value_json = excluded.value_json, updated_at = excluded.updated_at`,
		cartridge, defaultSlot, key, encoded)
	return err
}

// GetSave implements game.SaveStore: look up one saved key, reporting
// false (not an error) if it was never saved.
func (s *Store) GetSave(cartridge, key string) (value.Value, bool, error) {
	var encoded string
	row := s.db.QueryRow(`SELECT value_json FROM saves WHERE cartridge = ? AND slot = ? AND key = ?`,
		cartridge, defaultSlot, key)
	if err := row.Scan(&encoded); err != nil {
		if err == sql.ErrNoRows {
			return value.Undefined, false, nil
		}
		return value.Undefined, false, err
	}
	v, err := decodeValue(encoded)
	if err != nil {
		return value.Undefined, false, err
	}
	return v, true, nil
}

// encodedValue is the JSON-on-the-wire shape for one saved Value
// (spec.md §9's expansion: "save/load values are serialized to JSON").
type encodedValue struct {
	Kind string `json:"kind"`
	Val  any    `json:"val,omitempty"`
}

func encodeValue(v value.Value) (string, error) {
	var enc encodedValue
	switch v.Kind {
	case value.KindBool:
		enc = encodedValue{Kind: "bool", Val: v.AsBool()}
	case value.KindNumber:
		enc = encodedValue{Kind: "number", Val: v.AsNumber()}
	case value.KindString:
		enc = encodedValue{Kind: "string", Val: v.AsString()}
	case value.KindUndefined:
		enc = encodedValue{Kind: "undefined"}
	default:
		return "", errors.New("cannot save a " + v.Kind.String() + " value")
	}
	b, err := json.Marshal(enc)
	return string(b), err
}

func decodeValue(s string) (value.Value, error) {
	var enc encodedValue
	if err := json.Unmarshal([]byte(s), &enc); err != nil {
		return value.Undefined, err
	}
	switch enc.Kind {
	case "bool":
		b, ok := enc.Val.(bool)
		if !ok {
			return value.Undefined, errors.New("corrupt saved bool")
		}
		return value.Bool(b), nil
	case "number":
		n, ok := enc.Val.(float64)
		if !ok {
			return value.Undefined, errors.New("corrupt saved number")
		}
		return value.Number(n), nil
	case "string":
		str, ok := enc.Val.(string)
		if !ok {
			return value.Undefined, errors.New("corrupt saved string")
		}
		return value.String(str), nil
	case "undefined":
		return value.Undefined, nil
	default:
		return value.Undefined, errors.New("corrupt save record")
	}
}

// AddAccount registers a new hub account, its password bcrypt-hashed
// exactly as the teacher's database.AddUser hashes one.
func (s *Store) AddAccount(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO accounts (username, password) VALUES (?, ?)`, username, string(hash))
	return err
}

// ValidateAccount checks username/password against the stored hash,
// mirroring the teacher's database.ValidateUser.
func (s *Store) ValidateAccount(username, password string) error {
	var hash string
	row := s.db.QueryRow(`SELECT password FROM accounts WHERE username = ?`, username)
	if err := row.Scan(&hash); err != nil {
		if err == sql.ErrNoRows {
			return errors.New("the hub doesn't recognize that username")
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return errors.New("the hub doesn't recognize that combination of username and password")
	}
	return nil
}
