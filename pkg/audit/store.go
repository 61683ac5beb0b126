package audit

import (
	"database/sql"
	"encoding/json"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
)

// Store handles audit message persistence to the audit_messages table.
// Actor, operation, result, client address and conference are lifted out
// of the structured data into columns so an organizer's trail can be
// queried per conference.
type Store struct {
	db       *sql.DB
	hostname string
	now      func() time.Time
}

// NewStore creates a new audit store from AUDIT_DATABASE_URL.
// Returns nil if AUDIT_DATABASE_URL is not set (audit DB disabled).
func NewStore() (*Store, error) {
	dbURL := os.Getenv("AUDIT_DATABASE_URL")
	if dbURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	return NewStoreWithDB(db), nil
}

// NewStoreWithDB creates a store with an existing database connection
func NewStoreWithDB(db *sql.DB) *Store {
	hostname, _ := os.Hostname()
	return &Store{db: db, hostname: hostname, now: time.Now}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists an audit event to the database
func (s *Store) Save(event Event) error {
	if s.db == nil {
		return nil
	}

	sd := event.StructuredData()
	sdataJSON, err := json.Marshal(sd)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO audit_messages (occurred_at, severity, msgid, actor, operation, result, conference_id, client_ip, hostname, sdata, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		s.now().UTC(),
		int(event.Severity()),
		event.MessageID(),
		nullString(sd[SDIDAuth]["user"]),
		nullString(sd[SDIDAction]["operation"]),
		nullString(sd[SDIDAction]["result"]),
		conferenceOf(sd),
		nullString(sd[SDIDClient]["ip"]),
		nullString(s.hostname),
		sdataJSON,
		event.Message(),
	)

	return err
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

// conferenceOf reads the conference an event touched; NULL for events
// outside any conference such as admin logins
func conferenceOf(sd map[string]map[string]string) sql.NullInt64 {
	id, err := strconv.ParseInt(sd[SDIDSubject]["conference"], 10, 64)
	if err != nil || id <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}
