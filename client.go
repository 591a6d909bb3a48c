package fql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/filterql-engine/filterql/engine/translator"
	"github.com/filterql-engine/filterql/mapping"
)

// The clients below wrap a database connection with the FilterQL pipeline:
// every query runs parse, virtual-field resolution, security validation and
// translation before anything reaches the connection. Timeouts and result
// caps come from the toolkit's security options; the engine itself never
// enforces them.

// WrapSQL wraps a SQL database connection (PostgreSQL, MySQL or SQLite)
func WrapSQL(db *sql.DB, dialect string, toolkit *Toolkit) (*SQLClient, error) {
	switch dialect {
	case "PostgreSQL", "MySQL", "SQLite":
	default:
		return nil, fmt.Errorf("unsupported SQL dialect: %s", dialect)
	}
	return &SQLClient{db: db, base: newBase(toolkit, dialect)}, nil
}

// WrapMongo wraps a MongoDB database connection
func WrapMongo(db *mongo.Database, toolkit *Toolkit) *MongoClient {
	return &MongoClient{db: db, base: newBase(toolkit, "MongoDB")}
}

// WrapRedis wraps a Redis client with a RediSearch index
func WrapRedis(rdb *redis.Client, index string, toolkit *Toolkit) *RedisClient {
	return &RedisClient{rdb: rdb, index: index, base: newBase(toolkit, "Redis")}
}

type base struct {
	toolkit *Toolkit
	dialect string
	log     *logrus.Entry
	tracer  trace.Tracer
}

func newBase(toolkit *Toolkit, dialect string) base {
	if toolkit == nil {
		toolkit = New(Config{})
	}
	return base{
		toolkit: toolkit,
		dialect: dialect,
		log:     logrus.WithField("component", "filterql").WithField("dialect", dialect),
		tracer:  otel.Tracer("github.com/filterql-engine/filterql"),
	}
}

// limit clamps a requested result count to the configured caps
func (b base) limit(requested int) int {
	sec := b.toolkit.Security()
	limit := requested
	if limit <= 0 {
		limit = sec.DefaultLimit
	}
	if limit <= 0 {
		limit = 100
	}
	if sec.MaxLimit > 0 && limit > sec.MaxLimit {
		limit = sec.MaxLimit
	}
	return limit
}

// begin opens a span and applies the configured query timeout
func (b base) begin(ctx context.Context, op, filter string) (context.Context, trace.Span, context.CancelFunc) {
	ctx, span := b.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("filterql.dialect", b.dialect),
		attribute.Int("filterql.filter_length", len(filter)),
	))

	cancel := func() {}
	if timeout := b.toolkit.Security().QueryTimeout; timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	return ctx, span, cancel
}

// SQLClient executes filters against a relational database
type SQLClient struct {
	db *sql.DB
	base
}

// Find translates the filter and runs SELECT * against the table. A
// non-positive limit uses the configured default; every limit is capped.
func (c *SQLClient) Find(ctx context.Context, table, filter string, resolveCtx any, limit int) (*sql.Rows, error) {
	ctx, span, cancel := c.begin(ctx, "filterql.sql.find", filter)
	defer span.End()
	defer cancel()

	if !mapping.IsValidIdentifier(table) {
		return nil, fmt.Errorf("invalid table name: %s", table)
	}

	expr, err := c.toolkit.Prepare(filter, resolveCtx)
	if err != nil {
		return nil, err
	}

	fragment, err := translator.Translate(expr, translator.Options{Dialect: c.dialect})
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s LIMIT %d", table, fragment.Text, c.limit(limit))
	c.log.WithField("query", query).Debug("executing translated filter")

	return c.db.QueryContext(ctx, query, fragment.Params...)
}

// Count translates the filter and runs SELECT COUNT(*)
func (c *SQLClient) Count(ctx context.Context, table, filter string, resolveCtx any) (int64, error) {
	ctx, span, cancel := c.begin(ctx, "filterql.sql.count", filter)
	defer span.End()
	defer cancel()

	if !mapping.IsValidIdentifier(table) {
		return 0, fmt.Errorf("invalid table name: %s", table)
	}

	expr, err := c.toolkit.Prepare(filter, resolveCtx)
	if err != nil {
		return 0, err
	}

	fragment, err := translator.Translate(expr, translator.Options{Dialect: c.dialect})
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, fragment.Text)

	var count int64
	err = c.db.QueryRowContext(ctx, query, fragment.Params...).Scan(&count)
	return count, err
}

// MongoClient executes filters against a MongoDB database
type MongoClient struct {
	db *mongo.Database
	base
}

// Find translates the filter and runs a driver Find on the collection
func (c *MongoClient) Find(ctx context.Context, collection, filter string, resolveCtx any, limit int) (*mongo.Cursor, error) {
	ctx, span, cancel := c.begin(ctx, "filterql.mongo.find", filter)
	defer span.End()
	defer cancel()

	expr, err := c.toolkit.Prepare(filter, resolveCtx)
	if err != nil {
		return nil, err
	}

	doc, err := translator.TranslateMongo(expr)
	if err != nil {
		return nil, err
	}

	c.log.WithField("collection", collection).Debug("executing translated filter")

	findOpts := options.Find().SetLimit(int64(c.limit(limit)))
	return c.db.Collection(collection).Find(ctx, doc, findOpts)
}

// Count translates the filter and runs a driver CountDocuments
func (c *MongoClient) Count(ctx context.Context, collection, filter string, resolveCtx any) (int64, error) {
	ctx, span, cancel := c.begin(ctx, "filterql.mongo.count", filter)
	defer span.End()
	defer cancel()

	expr, err := c.toolkit.Prepare(filter, resolveCtx)
	if err != nil {
		return 0, err
	}

	doc, err := translator.TranslateMongo(expr)
	if err != nil {
		return 0, err
	}

	return c.db.Collection(collection).CountDocuments(ctx, doc)
}

// RedisClient executes filters against a RediSearch index
type RedisClient struct {
	rdb   *redis.Client
	index string
	base
}

// Find translates the filter and issues FT.SEARCH against the index
func (c *RedisClient) Find(ctx context.Context, filter string, resolveCtx any, limit int) (any, error) {
	ctx, span, cancel := c.begin(ctx, "filterql.redis.find", filter)
	defer span.End()
	defer cancel()

	expr, err := c.toolkit.Prepare(filter, resolveCtx)
	if err != nil {
		return nil, err
	}

	query, err := translator.TranslateRedis(expr)
	if err != nil {
		return nil, err
	}

	c.log.WithField("query", query).Debug("executing translated filter")

	return c.rdb.Do(ctx, "FT.SEARCH", c.index, query, "LIMIT", 0, c.limit(limit)).Result()
}
