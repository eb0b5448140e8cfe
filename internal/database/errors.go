package database

import "strings"

// ClassifyError maps a storage failure onto an operator-facing setup hint.
// Matching on error text is best effort: the hint enriches logs and error
// responses but never drives control flow. Returns "" when the failure is
// not recognized.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()

	switch {
	case strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"):
		return "Consultations table not found. Run database/schema.sql against the database."
	case strings.Contains(msg, "column") && strings.Contains(msg, "does not exist"):
		return "Consultations table is missing payment columns. Run database/payment_migration.sql."
	case strings.Contains(msg, "password authentication") || strings.Contains(msg, "authentication failed"):
		return "Database credentials rejected. Check the credential in DATABASE_URL."
	case strings.Contains(msg, "connect"):
		return "Cannot reach the database. Check the host and port in DATABASE_URL."
	}

	return ""
}
