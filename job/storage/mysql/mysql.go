package mysql

import (
	"crypto/tls"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/jmoiron/sqlx"

	"github.com/ajvb/jobboard/job"

	log "github.com/sirupsen/logrus"
)

type DB struct {
	conn  *sqlx.DB
	table string
}

// New instantiates a new DB. clientFoundRows is forced on so that updates
// report matched rather than changed rows.
func New(dsn, table string, tlsConfig *tls.Config) *DB {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if tlsConfig != nil {
		log.Infof("Register TLS config")
		err := mysql.RegisterTLSConfig("custom", tlsConfig)
		if err != nil {
			log.Fatal(err)
		}
		cfg.TLSConfig = "custom"
	}
	cfg.ClientFoundRows = true

	connection, err := sqlx.Open("mysql", cfg.FormatDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := connection.Ping(); err != nil {
		log.Errorf("Can't connect to mysql: %s", err)
	}
	// passive attempt to create table
	_, _ = connection.Exec(fmt.Sprintf(`create table if not exists %s (id varchar(24), job JSON, primary key (id)) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`, table))
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
	query := fmt.Sprintf(`insert into %s (id, job) values(?, ?);`, d.table)
	if _, err := d.conn.Exec(query, j.ID, string(r)); err != nil {
		return "", err
	}
	return j.ID, nil
}

func (d DB) InsertMany(fs []job.Fields) ([]string, error) {
	if len(fs) == 0 {
		return []string{}, nil
	}

	query := fmt.Sprintf(`insert into %s (id, job) values(?, ?);`, d.table)
	transaction, err := d.conn.Beginx()
	if err != nil {
		return nil, err
	}
	statement, err := transaction.Preparex(query)
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
	query := fmt.Sprintf(`select job from %s order by id;`, d.table)
	var results []sql.NullString
	err := d.conn.Select(&results, query)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	jobs := make([]*job.Job, 0, len(results))
	for _, v := range results {
		if !v.Valid {
			continue
		}
		j := &job.Job{}
		if err := json.Unmarshal([]byte(v.String), j); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	return jobs, nil
}

// FindOne returns a persisted Job.
func (d DB) FindOne(id string) (*job.Job, error) {
	id, err := job.CanonicalID(id)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`select job from %s where id = ?;`, d.table)
	var r sql.NullString
	err = d.conn.Get(&r, query, id)
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
	query := fmt.Sprintf(`update %s set job = ? where id = ?;`, d.table)
	return d.exec(query, string(r), id)
}

func (d DB) DeleteOne(id string) (int, error) {
	id, err := job.CanonicalID(id)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`delete from %s where id = ?;`, d.table)
	return d.exec(query, id)
}

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
	err := d.conn.Get(&n, fmt.Sprintf(`select count(*) from %s;`, d.table))
	return n, err
}

// Close closes the connection to MySQL.
func (d DB) Close() error {
	return d.conn.Close()
}
