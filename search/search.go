// Package search parses user search queries into column predicates and
// evaluates them against process records.
package search

import (
	"strconv"
	"strings"
	"unicode"

	"procmon/process"
)

// FileColumn is the column key that matches against open file paths
const FileColumn = "file"

// StartTimeLayout is the textual form of a start time used for matching
const StartTimeLayout = "2006-01-02 15:04:05"

// NotAvailable is the textual form of a missing start time
const NotAvailable = "N/A"

// Predicate is one parsed "column value" clause
type Predicate struct {
	Column string
	Value  string
}

// Parse splits a query such as "@name foo, @user root" into predicates.
// Clauses without both a column and a value are dropped.
func Parse(query string) []Predicate {
	if query == "" {
		return nil
	}

	var preds []Predicate
	for _, clause := range strings.Split(query, ",") {
		clause = strings.TrimSpace(clause)
		idx := strings.IndexFunc(clause, unicode.IsSpace)
		if idx < 0 {
			continue
		}

		column := strings.TrimLeft(clause[:idx], "@")
		value := strings.TrimSpace(clause[idx:])
		if value == "" {
			continue
		}

		preds = append(preds, Predicate{Column: column, Value: value})
	}
	return preds
}

// Match reports whether rec satisfies p.
//
// The file column matches when any open file path contains the value. Every
// other column renders the field as text and matches when either string
// contains the other, ignoring case. Unrecognized columns fall back to the name.
func Match(rec *process.Record, p Predicate) bool {
	value := strings.ToLower(p.Value)
	column := strings.ToLower(p.Column)

	if column == FileColumn {
		for _, f := range rec.FilesUsing {
			if strings.Contains(strings.ToLower(f), value) {
				return true
			}
		}
		return false
	}

	field := strings.ToLower(FieldText(rec, column))
	return strings.Contains(field, value) || strings.Contains(value, field)
}

// FieldText renders the field named by a lower case column key
func FieldText(rec *process.Record, column string) string {
	switch column {
	case "id":
		return strconv.Itoa(int(rec.ID))
	case "cpu":
		return strconv.FormatFloat(rec.CPUPercent, 'f', -1, 64)
	case "memory":
		return strconv.FormatUint(rec.MemoryBytes, 10)
	case "parentid":
		return strconv.Itoa(int(rec.ParentID))
	case "state":
		return rec.State.String()
	case "starttime":
		if rec.StartTime == nil {
			return NotAvailable
		}
		return rec.StartTime.Format(StartTimeLayout)
	case "user":
		return rec.User
	case "command":
		return rec.Command
	default:
		return rec.Name
	}
}
