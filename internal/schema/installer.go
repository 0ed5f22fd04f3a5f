// Package schema provisions the arc database schema.
package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Name is the PostgreSQL schema holding every table of this service.
const Name = "arc"

// Execer runs a single statement. *pgxpool.Pool, *pgx.Conn and pgx.Tx all satisfy it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Reporter receives progress for each installation step. Start is always called before the
// step runs, followed by exactly one of Done or Exists unless the step fails.
type Reporter interface {
	Start(message string)
	Done()
	Exists(message string, err error)
}

// Step is one schema-creation statement.
type Step struct {
	Message string
	SQL     string
}

var steps = []Step{
	{
		Message: "Creating schema arc",
		SQL:     `CREATE SCHEMA arc`,
	},
	{
		Message: "Creating table Course",
		SQL: `
			CREATE TABLE arc."Course" (
				"id"          uuid        PRIMARY KEY DEFAULT gen_random_uuid(),
				"userId"      uuid        NOT NULL REFERENCES public."User" ("id") ON DELETE CASCADE ON UPDATE CASCADE,
				"name"        text        NOT NULL,
				"createdAt"   timestamptz NOT NULL DEFAULT now(),
				"description" text,
				"visibility"  smallint    NOT NULL DEFAULT 0,
				"labels"      text[]      NOT NULL DEFAULT '{}'::text[],
				"options"     jsonb       NOT NULL DEFAULT '{}'::jsonb
			)`,
	},
	{
		Message: "Creating index for Course.userId",
		SQL:     `CREATE INDEX "Course_userId_index" ON arc."Course" ("userId")`,
	},
	{
		Message: "Creating table Resource",
		SQL: `
			CREATE TABLE arc."Resource" (
				"id"         uuid        PRIMARY KEY DEFAULT gen_random_uuid(),
				"courseId"   uuid        NOT NULL REFERENCES arc."Course" ("id") ON DELETE CASCADE ON UPDATE CASCADE,
				"userId"     uuid        NOT NULL REFERENCES public."User" ("id") ON DELETE CASCADE ON UPDATE CASCADE,
				"createdAt"  timestamptz NOT NULL DEFAULT now(),
				"modifiedAt" timestamptz NOT NULL DEFAULT now(),
				"name"       text        NOT NULL,
				"type"       text        NOT NULL,
				"content"    text        NOT NULL
			)`,
	},
	{
		Message: "Creating index for Resource.userId",
		SQL:     `CREATE INDEX "Resource_userId_index" ON arc."Resource" ("userId")`,
	},
}

// Steps returns the installation steps in execution order.
func Steps() []Step {
	return append([]Step(nil), steps...)
}

// Install runs every step in order. A step failing because its object already exists is
// reported through Exists and skipped, so running Install against a provisioned database only
// produces warnings. Any other failure stops the installation.
func Install(ctx context.Context, db Execer, report Reporter) error {
	for _, step := range steps {
		report.Start(step.Message)
		if _, err := db.Exec(ctx, step.SQL); err != nil {
			if IsAlreadyExists(err) {
				report.Exists(step.Message, err)
				continue
			}
			return fmt.Errorf("%s: %w", step.Message, err)
		}
		report.Done()
	}
	return nil
}

// SQLSTATE codes raised when creating an object that is already there.
const (
	codeDuplicateSchema = "42P06"
	codeDuplicateTable  = "42P07" // also raised for indexes
	codeDuplicateObject = "42710"
)

// IsAlreadyExists reports whether err is PostgreSQL refusing to create an existing object.
func IsAlreadyExists(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case codeDuplicateSchema, codeDuplicateTable, codeDuplicateObject:
		return true
	}
	return false
}
