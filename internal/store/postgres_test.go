package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theyard/yard/internal/common"
)

func newStoreWithMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresStore(db), mock
}

func exact(q string) string {
	return "^" + regexp.QuoteMeta(q) + "$"
}

func TestBuildSelect(t *testing.T) {
	q, args := buildSelect(Query{
		Table:   "CheckIn",
		Columns: []string{"type", "timestamp"},
		Filters: []Filter{Eq("petId", "p1")},
		Order:   []Order{{Column: "timestamp", Desc: true}},
		Limit:   1,
	})
	assert.Equal(t, `SELECT "type", "timestamp" FROM "CheckIn" WHERE "petId" = $1 ORDER BY "timestamp" DESC LIMIT 1`, q)
	assert.Equal(t, []any{"p1"}, args)

	q, args = buildSelect(Query{Table: "Terms"})
	assert.Equal(t, `SELECT * FROM "Terms"`, q)
	assert.Empty(t, args)
}

func TestBuildSelect_QuotesHostileIdentifiers(t *testing.T) {
	q, _ := buildSelect(Query{Table: `Pet"; DROP TABLE "User`})
	assert.Equal(t, `SELECT * FROM "Pet""; DROP TABLE ""User"`, q)
}

func TestBuildUpsert(t *testing.T) {
	row := Row{"id": "u1", "email": "a@b.c"}

	q, args := buildUpsert("User", row, Conflict{Columns: []string{"id"}, IgnoreDuplicates: true})
	assert.Equal(t, `INSERT INTO "User" ("email", "id") VALUES ($1, $2) ON CONFLICT ("id") DO NOTHING`, q)
	assert.Equal(t, []any{"a@b.c", "u1"}, args)

	q, _ = buildUpsert("User", row, Conflict{Columns: []string{"id"}})
	assert.Equal(t, `INSERT INTO "User" ("email", "id") VALUES ($1, $2) ON CONFLICT ("id") DO UPDATE SET "email" = EXCLUDED."email"`, q)
}

func TestBuildUpdate(t *testing.T) {
	q, args := buildUpdate("User", Row{"acceptedTermsVersion": "2"}, []Filter{Eq("id", "u1")})
	assert.Equal(t, `UPDATE "User" SET "acceptedTermsVersion" = $1 WHERE "id" = $2`, q)
	assert.Equal(t, []any{"2", "u1"}, args)
}

func TestPostgresStore_Select_MapsRows(t *testing.T) {
	s, mock := newStoreWithMock(t)
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(exact(`SELECT * FROM "Pet" WHERE "ownerUserId" = $1 ORDER BY "createdAt" DESC`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age", "createdAt"}).
			AddRow("p2", "Luna", int64(3), created).
			AddRow("p1", "Rex", int64(5), created.Add(-time.Hour)))

	rows, err := s.Select(context.Background(), Query{
		Table:   "Pet",
		Filters: []Filter{Eq("ownerUserId", "u1")},
		Order:   []Order{{Column: "createdAt", Desc: true}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Luna", rows[0].String("name"))
	assert.Equal(t, 3, rows[0].Int("age"))
	assert.Equal(t, created, rows[0].Time("createdAt"))
	assert.Equal(t, "p1", rows[1].String("id"))
}

func TestPostgresStore_Select_DBError(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(exact(`SELECT * FROM "Pet"`)).WillReturnError(errors.New("conn reset"))

	_, err := s.Select(context.Background(), Query{Table: "Pet"})
	require.Error(t, err)
	assert.Regexp(t, `db error: .*conn reset`, err.Error())
}

func TestPostgresStore_Single_NotFound(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(exact(`SELECT * FROM "Subscription" WHERE "userId" = $1 LIMIT 1`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"userId", "status"}))

	_, err := s.Single(context.Background(), Query{Table: "Subscription", Filters: []Filter{Eq("userId", "u1")}})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgresStore_Insert(t *testing.T) {
	s, mock := newStoreWithMock(t)
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(exact(`INSERT INTO "CheckIn" ("id", "petId", "timestamp", "type", "userId") VALUES ($1, $2, $3, $4, $5)`)).
		WithArgs("c1", "p1", ts, "IN", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Insert(context.Background(), "CheckIn", Row{
		"id": "c1", "petId": "p1", "userId": "u1", "type": "IN", "timestamp": ts,
	})
	require.NoError(t, err)
}

func TestPostgresStore_Upsert_IgnoreDuplicates(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectExec(exact(`INSERT INTO "User" ("email", "id") VALUES ($1, $2) ON CONFLICT ("id") DO NOTHING`)).
		WithArgs("a@b.c", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Upsert(context.Background(), "User", Row{"id": "u1", "email": "a@b.c"},
		Conflict{Columns: []string{"id"}, IgnoreDuplicates: true})
	require.NoError(t, err)
}

func TestPostgresStore_Upsert_RequiresConflictColumns(t *testing.T) {
	s, _ := newStoreWithMock(t)

	err := s.Upsert(context.Background(), "User", Row{"id": "u1"}, Conflict{})
	require.Error(t, err)
}

func TestPostgresStore_Update(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectExec(exact(`UPDATE "User" SET "acceptedTermsVersion" = $1 WHERE "id" = $2`)).
		WithArgs("2", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := s.Update(context.Background(), "User", Row{"acceptedTermsVersion": "2"}, Eq("id", "u1"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPostgresStore_Update_RefusesUnfiltered(t *testing.T) {
	s, _ := newStoreWithMock(t)

	_, err := s.Update(context.Background(), "User", Row{"isAdmin": true})
	require.Error(t, err)
}

func TestPostgresStore_Count(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(exact(`SELECT COUNT(*) FROM "Pet" WHERE "ownerUserId" = $1`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	n, err := s.Count(context.Background(), "Pet", Eq("ownerUserId", "u1"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPostgresStore_Count_DBError(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(exact(`SELECT COUNT(*) FROM "Pet"`)).WillReturnError(sql.ErrConnDone)

	_, err := s.Count(context.Background(), "Pet")
	require.ErrorIs(t, err, sql.ErrConnDone)
}

func TestPostgresStore_EmptyTable(t *testing.T) {
	s, _ := newStoreWithMock(t)

	_, err := s.Select(context.Background(), Query{})
	require.ErrorIs(t, err, errNoTable)
	require.ErrorIs(t, s.Insert(context.Background(), "", Row{}), errNoTable)
}
