package storage

import (
	"fmt"
	"strings"
)

// dialect holds the SQL fragments that differ between warehouse engines. Both drivers use ?
// placeholders. MySQL key columns use a binary collation so keys differing only in case or
// accents stay distinct, as they do on SQLite.
type dialect struct {
	name string
	// insertIgnore starts an insert that silently skips rows violating a unique key.
	insertIgnore string
	// fromDual lets a constant SELECT carry a WHERE clause.
	fromDual string
	// tableExists counts tables named by its single argument.
	tableExists string
	ddl         *strings.Replacer
}

var (
	sqliteDialect = dialect{
		name:         DriverSQLite,
		insertIgnore: "INSERT OR IGNORE",
		tableExists:  `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
		ddl: strings.NewReplacer(
			"{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{{fk}}", "INTEGER",
			"{{key}}", "TEXT",
			"{{text}}", "TEXT",
			"{{real}}", "REAL",
			"{{bool}}", "INTEGER",
			"{{timestamp}}", "TEXT",
		),
	}

	mysqlDialect = dialect{
		name:         DriverMySQL,
		insertIgnore: "INSERT IGNORE",
		fromDual:     " FROM DUAL",
		tableExists:  `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`,
		ddl: strings.NewReplacer(
			"{{pk}}", "BIGINT AUTO_INCREMENT PRIMARY KEY",
			"{{fk}}", "BIGINT",
			"{{key}}", "VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin",
			"{{text}}", "TEXT CHARACTER SET utf8mb4 COLLATE utf8mb4_bin",
			"{{real}}", "DOUBLE",
			"{{bool}}", "BOOLEAN",
			"{{timestamp}}", "DATETIME(6)",
		),
	}
)

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case DriverSQLite:
		return sqliteDialect, nil
	case DriverMySQL:
		return mysqlDialect, nil
	default:
		return dialect{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// render expands the {{...}} type placeholders in a DDL statement.
func (d dialect) render(stmt string) string {
	return d.ddl.Replace(stmt)
}
