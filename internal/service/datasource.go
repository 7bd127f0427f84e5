package service

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DataSourceConfig holds connection details.
type DataSourceConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // "disable", "require"
}

// DataSource is a tabular source that can feed the report pipeline.
type DataSource interface {
	Connect(config DataSourceConfig) error
	Close() error
	ListTables() ([]string, error)
	// PreviewData returns the column names in result order plus up to
	// limit rows rendered as strings, matching the shape of a parsed
	// CSV table.
	PreviewData(tableName string, limit int) ([]string, [][]string, error)
}

// PostgresDataSource implements DataSource for PostgreSQL.
type PostgresDataSource struct {
	db *sql.DB
}

func (p *PostgresDataSource) Connect(config DataSourceConfig) error {
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		db.Close()
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

func (p *PostgresDataSource) PreviewData(tableName string, limit int) ([]string, [][]string, error) {
	// Table names cannot be query parameters; accept only names the
	// catalog reports to keep the identifier out of attacker control.
	known, err := p.ListTables()
	if err != nil {
		return nil, nil, err
	}
	valid := false
	for _, name := range known {
		if name == tableName {
			valid = true
			break
		}
	}
	if !valid {
		return nil, nil, fmt.Errorf("unknown table %q", tableName)
	}

	query := fmt.Sprintf(`SELECT * FROM "%s" LIMIT %d`, tableName, limit)
	rows, err := p.db.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var result [][]string
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, nil, err
		}

		record := make([]string, len(columns))
		for i, val := range values {
			record[i] = renderValue(val)
		}
		result = append(result, record)
	}

	return columns, result, rows.Err()
}

// renderValue flattens a scanned database value into the cell format the
// dataset package expects; NULL becomes an empty (missing) cell.
func renderValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
