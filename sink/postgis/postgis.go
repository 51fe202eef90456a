// Package postgis writes segments into a PostGIS table with real SQL
// transactions; Begin and Commit map directly onto BEGIN/COMMIT.
package postgis

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	pq "github.com/lib/pq"
	wkt "github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"

	"github.com/geofabrik/LinestringsSplitter/feature"
	"github.com/geofabrik/LinestringsSplitter/logging"
	"github.com/geofabrik/LinestringsSplitter/sink"
)

var log = logging.New("PostGIS")

func init() {
	sink.Register("PostgreSQL", New)
	sink.Register("PostGIS", New)
}

// PostGIS holds one open connection and at most one running transaction
// with a prepared insert statement.
type PostGIS struct {
	db     *sql.DB
	tx     *sql.Tx
	stmt   *sql.Stmt
	schema string
	table  string
	srid   int
	fields []feature.Field

	insertSQL string
}

// New connects using the output path as connection string. postgis:// and
// postgres:// URLs are accepted, anything else is passed to lib/pq as is
// (PG* environment variables fill the gaps).
func New(conf sink.Config) (sink.Sink, error) {
	params := conf.Path
	if strings.HasPrefix(params, "postgis://") {
		params = strings.Replace(params, "postgis", "postgres", 1)
	}
	if strings.HasPrefix(params, "postgres://") || strings.HasPrefix(params, "postgresql://") {
		var err error
		params, err = pq.ParseURL(params)
		if err != nil {
			return nil, errors.Wrap(err, "parsing connection URL")
		}
	}

	pg := &PostGIS{
		schema: "public",
		table:  conf.LayerName,
		srid:   0,
	}
	if conf.Geographic {
		pg.srid = 4326
	}
	if v, ok := sink.Option(conf.DatasetOptions, "SCHEMA"); ok {
		pg.schema = v
	}
	if v, ok := sink.Option(conf.LayerOptions, "TABLE"); ok {
		pg.table = v
	}
	if v, ok := sink.Option(conf.LayerOptions, "SRID"); ok {
		srid, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Errorf("invalid SRID option %q", v)
		}
		pg.srid = srid
	}

	db, err := sql.Open("postgres", params)
	if err != nil {
		return nil, errors.Wrap(err, "opening connection")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connecting to database")
	}
	pg.db = db
	return pg, nil
}

// CreateLayer drops and recreates the output table and prepares the insert
// statement text.
func (pg *PostGIS) CreateLayer(schema feature.Schema) error {
	pg.fields = schema.Fields

	cols := []string{`"id" BIGSERIAL PRIMARY KEY`}
	names := []string{}
	for _, f := range schema.Fields {
		cols = append(cols, fmt.Sprintf(`"%s" %s`, f.Name, columnType(f.Type)))
		names = append(names, fmt.Sprintf(`"%s"`, f.Name))
	}
	cols = append(cols, fmt.Sprintf(`"geom" geometry(LINESTRING, %d)`, pg.srid))
	names = append(names, `"geom"`)

	tx, err := pg.db.Begin()
	if err != nil {
		return err
	}
	defer rollbackIfTx(&tx)

	stmts := []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS "%s"."%s"`, pg.schema, pg.table),
		fmt.Sprintf(`CREATE TABLE "%s"."%s" (%s)`, pg.schema, pg.table, strings.Join(cols, ", ")),
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return errors.Wrapf(err, "executing %s", stmt)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	tx = nil

	placeholders := make([]string, len(names))
	for i := range pg.fields {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	placeholders[len(names)-1] = fmt.Sprintf("ST_GeomFromText($%d, %d)", len(names), pg.srid)
	pg.insertSQL = fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES (%s)`,
		pg.schema, pg.table, strings.Join(names, ", "), strings.Join(placeholders, ", "))

	log.Info().Str("table", pg.schema+"."+pg.table).Int("srid", pg.srid).Msg("created table")
	return nil
}

func columnType(t feature.FieldType) string {
	switch t {
	case feature.Integer:
		return "BIGINT"
	case feature.Real:
		return "DOUBLE PRECISION"
	case feature.Bool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

func (pg *PostGIS) Begin() error {
	if pg.tx != nil {
		return errors.New("transaction already open")
	}
	tx, err := pg.db.Begin()
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	stmt, err := tx.Prepare(pg.insertSQL)
	if err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "preparing %s", pg.insertSQL)
	}
	pg.tx = tx
	pg.stmt = stmt
	return nil
}

func (pg *PostGIS) Write(f *feature.Feature) error {
	if pg.tx == nil {
		return errors.New("no open transaction")
	}
	args := make([]interface{}, 0, len(pg.fields)+1)
	args = append(args, f.Values...)
	args = append(args, wkt.MarshalString(f.Geometry))
	if _, err := pg.stmt.Exec(args...); err != nil {
		return errors.Wrapf(err, "executing %s", pg.insertSQL)
	}
	return nil
}

func (pg *PostGIS) Commit() error {
	if pg.tx == nil {
		return errors.New("no open transaction")
	}
	pg.stmt.Close()
	pg.stmt = nil
	err := pg.tx.Commit()
	pg.tx = nil
	return errors.Wrap(err, "committing transaction")
}

func (pg *PostGIS) Close() error {
	rollbackIfTx(&pg.tx)
	return pg.db.Close()
}

func rollbackIfTx(tx **sql.Tx) {
	if *tx != nil {
		if err := (*tx).Rollback(); err != nil {
			log.Warn().Err(err).Msg("rollback failed")
		}
		*tx = nil
	}
}
