package tablestore

import (
	"reflect"
	"strings"
)

// columnsOf lists the db tags of t in declaration order, descending into embedded structs.
func columnsOf(reflectType reflect.Type) []string {
	columns := []string{}

	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, columnsOf(field.Type)...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		columns = append(columns, dbTag)
	}

	return columns
}

// argsOf maps every db-tagged field of entity to its value.
func argsOf(entity any) map[string]any {
	args := map[string]any{}

	collectArgs(reflect.ValueOf(entity), args)

	return args
}

func collectArgs(value reflect.Value, args map[string]any) {
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}

	reflectType := value.Type()

	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			collectArgs(value.Field(i), args)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		fieldValue := value.Field(i).Interface()
		if tag, ok := fieldValue.(ETag); ok {
			fieldValue = string(tag)
		}

		args[dbTag] = fieldValue
	}
}

// FieldValue returns the value of the field tagged tag ("db" or "dynamodbav") with name.
// It is used by in-memory predicate evaluation.
func FieldValue(entity any, tag, name string) (any, bool) {
	value := reflect.ValueOf(entity)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}

	return fieldValue(value, tag, name)
}

func fieldValue(value reflect.Value, tag, name string) (any, bool) {
	reflectType := value.Type()

	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if found, ok := fieldValue(value.Field(i), tag, name); ok {
				return found, true
			}

			continue
		}

		if tagged, _, _ := strings.Cut(field.Tag.Get(tag), ","); tagged == name {
			return value.Field(i).Interface(), true
		}
	}

	return nil, false
}
