package schema

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB remembers which statements already ran and fails re-creation the way PostgreSQL does.
type fakeDB struct {
	created map[string]bool
	failOn  string
	failErr error
	ran     []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{created: map[string]bool{}}
}

func (f *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.ran = append(f.ran, sql)
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return pgconn.CommandTag{}, f.failErr
	}
	if f.created[sql] {
		code := codeDuplicateTable
		if strings.HasPrefix(sql, "CREATE SCHEMA") {
			code = codeDuplicateSchema
		}
		return pgconn.CommandTag{}, &pgconn.PgError{Code: code, Message: "already exists"}
	}
	f.created[sql] = true
	return pgconn.CommandTag{}, nil
}

type event struct {
	kind    string
	message string
}

type recordingReporter struct {
	events []event
}

func (r *recordingReporter) Start(message string) { r.events = append(r.events, event{"start", message}) }
func (r *recordingReporter) Done()                { r.events = append(r.events, event{"done", ""}) }
func (r *recordingReporter) Exists(message string, _ error) {
	r.events = append(r.events, event{"exists", message})
}

func (r *recordingReporter) count(kind string) int {
	n := 0
	for _, e := range r.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

func TestInstallRunsStepsInOrder(t *testing.T) {
	db := newFakeDB()
	rep := &recordingReporter{}

	require.NoError(t, Install(context.Background(), db, rep))

	require.Len(t, db.ran, 5)
	assert.True(t, strings.HasPrefix(db.ran[0], "CREATE SCHEMA arc"))
	assert.Contains(t, db.ran[1], `CREATE TABLE arc."Course"`)
	assert.Contains(t, db.ran[2], `"Course_userId_index"`)
	assert.Contains(t, db.ran[3], `CREATE TABLE arc."Resource"`)
	assert.Contains(t, db.ran[4], `"Resource_userId_index"`)

	assert.Equal(t, 5, rep.count("start"))
	assert.Equal(t, 5, rep.count("done"))
	assert.Equal(t, 0, rep.count("exists"))
	assert.Equal(t, event{"start", "Creating schema arc"}, rep.events[0])
	assert.Equal(t, event{"done", ""}, rep.events[1])
}

func TestInstallTwiceOnlyWarns(t *testing.T) {
	db := newFakeDB()
	require.NoError(t, Install(context.Background(), db, &recordingReporter{}))
	before := len(db.created)

	rep := &recordingReporter{}
	require.NoError(t, Install(context.Background(), db, rep))

	assert.Equal(t, before, len(db.created))
	assert.Equal(t, 5, rep.count("start"))
	assert.Equal(t, 0, rep.count("done"))
	assert.Equal(t, 5, rep.count("exists"))
}

func TestInstallStopsOnOtherErrors(t *testing.T) {
	db := newFakeDB()
	db.failOn = `CREATE TABLE arc."Resource"`
	db.failErr = &pgconn.PgError{Code: "42P01", Message: `relation "public.User" does not exist`}

	rep := &recordingReporter{}
	err := Install(context.Background(), db, rep)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Creating table Resource")

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "42P01", pgErr.Code)

	// The Resource index is never attempted.
	assert.Len(t, db.ran, 4)
	assert.Equal(t, 4, rep.count("start"))
	assert.Equal(t, 3, rep.count("done"))
}

func TestIsAlreadyExists(t *testing.T) {
	assert.True(t, IsAlreadyExists(&pgconn.PgError{Code: "42P06"}))
	assert.True(t, IsAlreadyExists(&pgconn.PgError{Code: "42P07"}))
	assert.True(t, IsAlreadyExists(&pgconn.PgError{Code: "42710"}))
	assert.False(t, IsAlreadyExists(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsAlreadyExists(errors.New("42P07")))
	assert.False(t, IsAlreadyExists(nil))
}

func TestLogReporterCountsWarnings(t *testing.T) {
	var buf strings.Builder
	rep := NewLogReporter(zerolog.New(&buf))
	rep.Start("Creating schema arc")
	rep.Exists("Creating schema arc", errors.New("exists"))
	rep.Start("Creating table Course")
	rep.Done()

	assert.Equal(t, 1, rep.Warnings)
	assert.Contains(t, buf.String(), "already exists")
	assert.Contains(t, buf.String(), `"step":"Creating table Course"`)
}

func TestInstallWithDatabase(t *testing.T) {
	dsn := os.Getenv("ARC_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ARC_TEST_DATABASE_URL is not set, skip database integration test")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close(ctx)

	// Repository tests provision the same database concurrently.
	_, err = conn.Exec(ctx, `SELECT pg_advisory_lock(7272)`)
	require.NoError(t, err)
	defer conn.Exec(ctx, `SELECT pg_advisory_unlock(7272)`)

	_, err = conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS public."User" (
			"id"          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			"name"        text,
			"email"       text UNIQUE,
			"image"       text,
			"preferences" jsonb
		)`)
	require.NoError(t, err)

	require.NoError(t, Install(ctx, conn, &recordingReporter{}))

	rep := &recordingReporter{}
	require.NoError(t, Install(ctx, conn, rep))
	assert.Equal(t, 5, rep.count("exists"))
}
