package catalog

import (
	"strings"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
)

// RdlTypeFor maps a SQL Server type name (raw or decorated, e.g.
// "nvarchar(50)") to the SSRS scalar type.
func RdlTypeFor(sqlType string) models.RdlType {
	if sqlType == "" {
		return models.RdlString
	}
	lowered := strings.ToLower(sqlType)
	switch {
	case containsAny(lowered, "char", "text", "xml"):
		return models.RdlString
	case containsAny(lowered, "date", "time"):
		return models.RdlDateTime
	case containsAny(lowered, "int", "numeric", "decimal", "money", "float", "real"):
		return models.RdlFloat
	case strings.Contains(lowered, "bit"):
		return models.RdlBoolean
	}
	return models.RdlString
}

// IsNumericType reports whether the SQL type holds aggregatable numbers.
func IsNumericType(sqlType string) bool {
	return containsAny(strings.ToLower(sqlType),
		"int", "numeric", "decimal", "money", "float", "real")
}

// IsDateLikeType reports whether the SQL type holds dates or timestamps.
func IsDateLikeType(sqlType string) bool {
	return containsAny(strings.ToLower(sqlType), "date", "time")
}

func containsAny(value string, tokens ...string) bool {
	for _, token := range tokens {
		if strings.Contains(value, token) {
			return true
		}
	}
	return false
}
