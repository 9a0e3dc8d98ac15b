package models

import "strings"

// TypeClass is a coarse bucket for a column's declared data type. Relationship
// inference only pairs columns whose classes match; the exact declared type is
// kept alongside for exact-match scoring.
type TypeClass string

const (
	TypeClassInteger  TypeClass = "integer"
	TypeClassString   TypeClass = "string"
	TypeClassUUID     TypeClass = "uuid"
	TypeClassTemporal TypeClass = "temporal"
	TypeClassOther    TypeClass = "other"
)

// ValidTypeClasses contains all valid type class values.
var ValidTypeClasses = []TypeClass{
	TypeClassInteger,
	TypeClassString,
	TypeClassUUID,
	TypeClassTemporal,
	TypeClassOther,
}

// ClassifyType buckets a declared SQL type into a TypeClass. The input is
// normalized the same way for every supported database: lower-cased with any
// length/precision suffix stripped, so "VARCHAR(255)" and "varchar" agree.
func ClassifyType(dataType string) TypeClass {
	t := strings.ToLower(strings.TrimSpace(dataType))
	if idx := strings.Index(t, "("); idx > 0 {
		t = t[:idx]
	}
	t = strings.TrimSpace(t)

	switch t {
	case "uuid", "uniqueidentifier", "guid":
		return TypeClassUUID
	case "int", "integer", "smallint", "bigint", "tinyint", "mediumint",
		"int2", "int4", "int8", "serial", "smallserial", "bigserial",
		"numeric", "decimal", "number":
		return TypeClassInteger
	case "char", "varchar", "nchar", "nvarchar", "text", "ntext",
		"tinytext", "mediumtext", "longtext", "citext",
		"character", "character varying", "string":
		return TypeClassString
	case "date", "time", "timetz", "timestamp", "timestamptz",
		"datetime", "datetime2", "smalldatetime", "datetimeoffset",
		"interval", "year":
		return TypeClassTemporal
	}

	// Verbose forms like "timestamp with time zone" / "time without time zone".
	if strings.HasPrefix(t, "timestamp ") || strings.HasPrefix(t, "time ") {
		return TypeClassTemporal
	}

	return TypeClassOther
}
