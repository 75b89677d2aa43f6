package database

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

var (
	uuidType = reflect.TypeOf(uuid.UUID{})
	timeType = reflect.TypeOf(time.Time{})
)

// Scanner maps result columns onto struct fields by name: a `db` tag wins,
// otherwise snake_case columns match CamelCase fields.
type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

// ScanRowToStruct reads the next row into dest. It returns sql.ErrNoRows when
// the result set is exhausted.
func (s *Scanner) ScanRowToStruct(rows *sql.Rows, dest interface{}) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct")
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}

		return sql.ErrNoRows
	}

	return s.scanCurrent(rows, destValue.Elem())
}

func (s *Scanner) ScanRowsToSlice(rows *sql.Rows, dest interface{}) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to slice")
	}

	sliceValue := destValue.Elem()
	elemType := sliceValue.Type().Elem()

	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("slice elements must be structs")
	}

	for rows.Next() {
		elem := reflect.New(elemType).Elem()

		if err := s.scanCurrent(rows, elem); err != nil {
			return err
		}

		sliceValue.Set(reflect.Append(sliceValue, elem))
	}

	return rows.Err()
}

func (s *Scanner) scanCurrent(rows *sql.Rows, dest reflect.Value) error {
	columns, err := rows.Columns()

	if err != nil {
		return err
	}

	scanArgs := make([]interface{}, len(columns))

	for i := range scanArgs {
		scanArgs[i] = new(interface{})
	}

	if err := rows.Scan(scanArgs...); err != nil {
		return err
	}

	for i, column := range columns {
		field, ok := s.findStructField(dest.Type(), column)

		if !ok {
			continue
		}

		val := *(scanArgs[i].(*interface{}))

		if err := s.setFieldValue(dest.FieldByIndex(field.Index), val); err != nil {
			return fmt.Errorf("column %s: %w", column, err)
		}
	}

	return nil
}

func (s *Scanner) findStructField(structType reflect.Type, column string) (reflect.StructField, bool) {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if tag := field.Tag.Get("db"); tag != "" && strings.EqualFold(tag, column) {
			return field, true
		}
	}

	if field, found := structType.FieldByName(s.snakeToCamel(column)); found {
		return field, true
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if strings.EqualFold(field.Name, column) || s.camelToSnake(field.Name) == strings.ToLower(column) {
			return field, true
		}
	}

	return reflect.StructField{}, false
}

func (s *Scanner) snakeToCamel(snake string) string {
	parts := strings.Split(snake, "_")

	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + strings.ToLower(parts[i][1:])
		}
	}

	return strings.Join(parts, "")
}

func (s *Scanner) camelToSnake(camel string) string {
	var result []rune

	for i, r := range camel {
		if i > 0 && unicode.IsUpper(r) {
			result = append(result, '_')
		}

		result = append(result, unicode.ToLower(r))
	}

	return string(result)
}

func (s *Scanner) setFieldValue(field reflect.Value, val interface{}) error {
	if val == nil {
		return nil
	}

	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	fieldType := field.Type()

	switch fieldType {
	case uuidType:
		return s.setUUID(field, val)
	case timeType:
		return s.setTime(field, val)
	}

	valValue := reflect.ValueOf(val)

	if valValue.Type().AssignableTo(fieldType) {
		field.Set(valValue)
		return nil
	}

	switch fieldType.Kind() {
	case reflect.String:
		switch v := val.(type) {
		case string:
			field.SetString(v)
		case []byte:
			field.SetString(string(v))
		default:
			return fmt.Errorf("cannot assign %T to string", val)
		}
	case reflect.Int, reflect.Int32, reflect.Int64:
		v, ok := val.(int64)

		if !ok {
			return fmt.Errorf("cannot assign %T to int", val)
		}

		field.SetInt(v)
	case reflect.Bool:
		v, ok := val.(bool)

		if !ok {
			return fmt.Errorf("cannot assign %T to bool", val)
		}

		field.SetBool(v)
	default:
		return fmt.Errorf("unsupported field type %s", fieldType)
	}

	return nil
}

func (s *Scanner) setUUID(field reflect.Value, val interface{}) error {
	var (
		parsed uuid.UUID
		err    error
	)

	switch v := val.(type) {
	case string:
		parsed, err = uuid.Parse(v)
	case []byte:
		if len(v) == 16 {
			parsed, err = uuid.FromBytes(v)
		} else {
			parsed, err = uuid.ParseBytes(v)
		}
	case [16]byte:
		parsed = uuid.UUID(v)
	default:
		return fmt.Errorf("cannot assign %T to uuid", val)
	}

	if err != nil {
		return err
	}

	field.Set(reflect.ValueOf(parsed))

	return nil
}

func (s *Scanner) setTime(field reflect.Value, val interface{}) error {
	switch v := val.(type) {
	case time.Time:
		field.Set(reflect.ValueOf(v.UTC()))
		return nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, v); err == nil {
				field.Set(reflect.ValueOf(parsed.UTC()))
				return nil
			}
		}

		return fmt.Errorf("cannot parse time %q", v)
	default:
		return fmt.Errorf("cannot assign %T to time", val)
	}
}
