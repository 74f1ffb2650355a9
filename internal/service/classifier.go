package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/migdam/graphs/internal/models"
	"github.com/migdam/graphs/internal/state"
)

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
}

var (
	sourceKeywords = []string{"source", "from", "node1"}
	targetKeywords = []string{"target", "to", "node2"}
)

// ColumnClassifier types every column of a dataset by inspecting its
// values, never a declared schema.
type ColumnClassifier struct{}

// NewColumnClassifier creates a new classifier.
func NewColumnClassifier() *ColumnClassifier {
	return &ColumnClassifier{}
}

// Classify returns one descriptor per column, preserving column order.
// Temporal parsing is attempted first, then a full numeric parse; anything
// else, including a fully-missing column, defaults to categorical.
func (c *ColumnClassifier) Classify(ds *state.Dataset) []models.ColumnDescriptor {
	descriptors := make([]models.ColumnDescriptor, len(ds.Headers))
	for colIdx, name := range ds.Headers {
		desc := models.ColumnDescriptor{
			Name: name,
			Kind: models.KindCategorical,
		}

		allTemporal := true
		allNumeric := true
		nonMissing := 0

		for _, row := range ds.Rows {
			var value string
			if colIdx < len(row) {
				value = row[colIdx]
			}
			if state.IsMissing(value) {
				desc.MissingCount++
				continue
			}
			nonMissing++
			value = strings.TrimSpace(value)
			if allTemporal && !isDateString(value) {
				allTemporal = false
			}
			if allNumeric && !isNumericString(value) {
				allNumeric = false
			}
			if !allTemporal && !allNumeric {
				// Remaining values cannot change the outcome, but keep
				// scanning for the missing count.
				continue
			}
		}

		if nonMissing > 0 {
			if allTemporal {
				desc.Kind = models.KindTemporal
			} else if allNumeric {
				desc.Kind = models.KindNumeric
			}
		}

		desc.IdentifierRole = identifierRole(name)
		desc.IsIdentifier = desc.IdentifierRole != models.RoleNone

		descriptors[colIdx] = desc
	}
	return descriptors
}

// identifierRole matches the column name against the fixed relational
// keyword set, case-insensitively by substring.
func identifierRole(name string) models.IdentifierRole {
	lower := strings.ToLower(name)
	for _, kw := range sourceKeywords {
		if strings.Contains(lower, kw) {
			return models.RoleSource
		}
	}
	for _, kw := range targetKeywords {
		if strings.Contains(lower, kw) {
			return models.RoleTarget
		}
	}
	return models.RoleNone
}

func isDateString(value string) bool {
	for _, format := range dateFormats {
		if _, err := time.Parse(format, value); err == nil {
			return true
		}
	}
	return false
}

func isNumericString(value string) bool {
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}
