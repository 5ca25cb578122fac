package mysql

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/jmoiron/sqlx"

	"github.com/ajvb/jobboard/job"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func NewTestDb(t *testing.T) (*DB, sqlmock.Sqlmock) {
	connection, m, err := sqlmock.New()
	require.NoError(t, err)

	var db = &DB{
		conn:  sqlx.NewDb(connection, "sqlmock"),
		table: "jobs",
	}
	t.Cleanup(func() {
		assert.NoError(t, m.ExpectationsWereMet())
	})
	return db, m
}

func mockJobJSON(t *testing.T, id string) string {
	j, err := json.Marshal(job.New(id, job.GetMockFields()))
	require.NoError(t, err)
	return string(j)
}

func TestInsertAndFindOne(t *testing.T) {
	db, m := NewTestDb(t)

	m.ExpectExec("insert into jobs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := db.InsertOne(job.GetMockFields())
	require.NoError(t, err)

	m.ExpectQuery("select job from jobs where id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"job"}).AddRow(mockJobJSON(t, id)))

	j, err := db.FindOne(id)
	if assert.NoError(t, err) {
		assert.Equal(t, id, j.ID)
		assert.Equal(t, job.GetMockFields(), j.Fields)
	}
}

func TestFindOneNotFound(t *testing.T) {
	db, m := NewTestDb(t)
	id := job.NewID()

	m.ExpectQuery("select job from jobs where id").
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	k, err := db.FindOne(id)
	assert.True(t, errors.Is(err, job.ErrJobNotFound))
	assert.Nil(t, k)
}

func TestInsertManyInTransaction(t *testing.T) {
	db, m := NewTestDb(t)

	m.ExpectBegin()
	prepared := m.ExpectPrepare("insert into jobs")
	prepared.ExpectExec().WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))
	prepared.ExpectExec().WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(2, 1))
	prepared.ExpectExec().WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(3, 1))
	m.ExpectCommit()

	ids, err := db.InsertMany([]job.Fields{job.GetMockFields(), job.GetMockFields(), job.GetMockFields()})
	assert.NoError(t, err)
	assert.Len(t, ids, 3)
}

func TestFindAll(t *testing.T) {
	db, m := NewTestDb(t)
	idOne, idTwo := job.NewID(), job.NewID()

	m.ExpectQuery("select job from jobs order by id").
		WillReturnRows(sqlmock.NewRows([]string{"job"}).
			AddRow(mockJobJSON(t, idOne)).
			AddRow(mockJobJSON(t, idTwo)))

	jobs, err := db.FindAll()
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, idOne, jobs[0].ID)
	assert.Equal(t, idTwo, jobs[1].ID)
}

func TestUpdateOne(t *testing.T) {
	db, m := NewTestDb(t)
	id := job.NewID()

	m.ExpectExec("update jobs set job").
		WithArgs(sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := db.UpdateOne(id, job.Fields{Title: "A", Company: "B", Location: "C"})
	assert.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = db.UpdateOne("bad", job.GetMockFields())
	assert.True(t, errors.Is(err, job.ErrInvalidID))
}

func TestDeleteOne(t *testing.T) {
	db, m := NewTestDb(t)
	id := job.NewID()

	m.ExpectExec("delete from jobs").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := db.DeleteOne(id)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestUppercaseIDQueriesStoredKey(t *testing.T) {
	db, m := NewTestDb(t)
	id := job.NewID()

	m.ExpectQuery("select job from jobs where id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"job"}).AddRow(mockJobJSON(t, id)))
	m.ExpectExec("delete from jobs").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	j, err := db.FindOne(strings.ToUpper(id))
	require.NoError(t, err)
	assert.Equal(t, id, j.ID)

	n, err := db.DeleteOne(strings.ToUpper(id))
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCount(t *testing.T) {
	db, m := NewTestDb(t)

	m.ExpectQuery("select count").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := db.Count()
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	m.ExpectQuery("select count").WillReturnError(errors.New("server has gone away"))

	_, err = db.Count()
	assert.Error(t, err)
}
