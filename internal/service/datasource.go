package service

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/migdam/graphs/internal/state"
)

// DataSourceConfig holds connection details.
type DataSourceConfig struct {
	Type     string `json:"type"` // only "postgres" for now
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"` // "disable", "require"
}

// DataSource loads tables from an external database into in-memory
// datasets. The analysis core itself never touches the connection.
type DataSource interface {
	Connect(config DataSourceConfig) error
	Close() error
	ListTables() ([]string, error)
	LoadTable(tableName string, limit int) (*state.Dataset, error)
}

// PostgresDataSource implements DataSource for PostgreSQL.
type PostgresDataSource struct {
	db *sql.DB
}

func (p *PostgresDataSource) Connect(config DataSourceConfig) error {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		return err
	}
	p.db = db
	return nil
}

func (p *PostgresDataSource) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *PostgresDataSource) ListTables() ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name;
	`
	rows, err := p.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}
	return tables, rows.Err()
}

// LoadTable reads up to limit rows of a table into a dataset. The table
// name is validated against the schema listing, which also guards the
// interpolated query below.
func (p *PostgresDataSource) LoadTable(tableName string, limit int) (*state.Dataset, error) {
	tables, err := p.ListTables()
	if err != nil {
		return nil, err
	}
	known := false
	for _, t := range tables {
		if t == tableName {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("unknown table %q", tableName)
	}
	if limit <= 0 {
		limit = 10000
	}

	rows, err := p.db.Query(fmt.Sprintf("SELECT * FROM %q LIMIT %d", tableName, limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	ds := &state.Dataset{
		Name:    tableName,
		Headers: columns,
	}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		record := make([]string, len(columns))
		for i, val := range values {
			record[i] = stringifyCell(val)
		}
		ds.Rows = append(ds.Rows, record)
	}
	return ds, rows.Err()
}

func stringifyCell(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
