package sqlbuilder

import (
	"github.com/Masterminds/squirrel"
)

// Поддерживаемые драйверы БД
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Builder построитель запросов с плейсхолдерами под конкретный драйвер
type Builder struct {
	driver string
	format squirrel.PlaceholderFormat
	sb     squirrel.StatementBuilderType
}

// New создает построитель запросов для драйвера.
// Postgres использует $1, $2..., SQLite использует ?.
func New(driver string) Builder {
	var format squirrel.PlaceholderFormat = squirrel.Question
	if driver == DriverPostgres {
		format = squirrel.Dollar
	}

	return Builder{
		driver: driver,
		format: format,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(format),
	}
}

// Driver возвращает имя драйвера
func (b Builder) Driver() string {
	return b.driver
}

func (b Builder) Select(columns ...string) squirrel.SelectBuilder {
	return b.sb.Select(columns...)
}

func (b Builder) Insert(table string) squirrel.InsertBuilder {
	return b.sb.Insert(table)
}

func (b Builder) Update(table string) squirrel.UpdateBuilder {
	return b.sb.Update(table)
}

func (b Builder) Delete(table string) squirrel.DeleteBuilder {
	return b.sb.Delete(table)
}

// ForUpdate добавляет блокировку строк, если драйвер ее поддерживает
func (b Builder) ForUpdate(query squirrel.SelectBuilder) squirrel.SelectBuilder {
	if b.driver != DriverPostgres {
		return query
	}
	return query.Suffix("FOR UPDATE")
}

// Rebind переписывает запрос, написанный с ?, под плейсхолдеры драйвера
func (b Builder) Rebind(query string) (string, error) {
	return b.format.ReplacePlaceholders(query)
}
