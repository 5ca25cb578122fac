package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ajvb/jobboard/job"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// DB stores each job as a jsonb document in a single table.
type DB struct {
	conn  *sql.DB
	table string
}

// New instantiates a new DB. A failed ping is logged, not fatal; database/sql
// reconnects on the next call.
func New(dsn, table string) *DB {
	log.Debugf("pg dsn: %s", dsn)
	connection, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := connection.Ping(); err != nil {
		log.Errorf("Can't connect to postgres: %s", err)
	}
	// passive attempt to create table
	_, _ = connection.Exec(fmt.Sprintf(`create table if not exists %s (id varchar(24) primary key, job jsonb not null);`, table))

	return &DB{
		conn:  connection,
		table: table,
	}
}

func (d DB) InsertOne(f job.Fields) (string, error) {
	j := job.New(job.NewID(), f)
	r, err := json.Marshal(j)
	if err != nil {
		return "", err
	}
	query := fmt.Sprintf(`insert into %s (id, job) values($1, $2);`, d.table)
	if _, err := d.conn.Exec(query, j.ID, string(r)); err != nil {
		return "", err
	}
	return j.ID, nil
}

// InsertMany inserts the batch in one transaction.
func (d DB) InsertMany(fs []job.Fields) ([]string, error) {
	if len(fs) == 0 {
		return []string{}, nil
	}

	query := fmt.Sprintf(`insert into %s (id, job) values($1, $2);`, d.table)
	transaction, err := d.conn.Begin()
	if err != nil {
		return nil, err
	}
	statement, err := transaction.Prepare(query)
	if err != nil {
		transaction.Rollback() //nolint:errcheck // adding insult to injury
		return nil, err
	}
	defer statement.Close()

	ids := make([]string, 0, len(fs))
	for _, f := range fs {
		j := job.New(job.NewID(), f)
		r, err := json.Marshal(j)
		if err != nil {
			transaction.Rollback() //nolint:errcheck
			return nil, err
		}
		if _, err := statement.Exec(j.ID, string(r)); err != nil {
			transaction.Rollback() //nolint:errcheck // adding insult to injury
			return nil, err
		}
		ids = append(ids, j.ID)
	}
	if err := transaction.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// FindAll returns all persisted Jobs.
func (d DB) FindAll() ([]*job.Job, error) {
	query := fmt.Sprintf(`select coalesce(json_agg(j.job order by j.id), '[]'::json) from %s as j;`, d.table)
	var r sql.NullString
	err := d.conn.QueryRow(query).Scan(&r)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	jobs := []*job.Job{}
	if r.Valid {
		if err := json.Unmarshal([]byte(r.String), &jobs); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

// FindOne returns a persisted Job.
func (d DB) FindOne(id string) (*job.Job, error) {
	id, err := job.CanonicalID(id)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`select job from %s where id = $1;`, d.table)
	var r sql.NullString
	err = d.conn.QueryRow(query, id).Scan(&r)
	if err == sql.ErrNoRows {
		return nil, job.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	result := &job.Job{}
	if r.Valid {
		err = json.Unmarshal([]byte(r.String), result)
	}
	return result, err
}

func (d DB) UpdateOne(id string, f job.Fields) (int, error) {
	id, err := job.CanonicalID(id)
	if err != nil {
		return 0, err
	}
	r, err := json.Marshal(job.New(id, f))
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`update %s set job = $2 where id = $1;`, d.table)
	return d.exec(query, id, string(r))
}

func (d DB) DeleteOne(id string) (int, error) {
	id, err := job.CanonicalID(id)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`delete from %s where id = $1;`, d.table)
	return d.exec(query, id)
}

// exec runs a single-row statement and reports the affected row count.
func (d DB) exec(query string, args ...interface{}) (int, error) {
	res, err := d.conn.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (d DB) Count() (int, error) {
	var n int
	err := d.conn.QueryRow(fmt.Sprintf(`select count(*) from %s;`, d.table)).Scan(&n)
	return n, err
}

// Close closes the connection to Postgres.
func (d DB) Close() error {
	return d.conn.Close()
}
