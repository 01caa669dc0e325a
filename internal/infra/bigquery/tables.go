package bigquery

import (
	"fmt"
	"regexp"

	bq "github.com/dvloznov/finance-dashboard/internal/bigquery"
)

// RecordRow and CardSummaryRow are re-exported so callers of this package
// do not need to import the shared row types.
type RecordRow = bq.RecordRow
type CardSummaryRow = bq.CardSummaryRow

var (
	identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)
	// Project IDs may carry a domain prefix, e.g. "example.com:my-project".
	projectRe = regexp.MustCompile(`^([a-z0-9.-]+:)?[a-z][a-z0-9-]{4,28}[a-z0-9]$`)
)

// Tables names the dataset and tables the repository reads from.
type Tables struct {
	ProjectID string
	Dataset   string
	Records   string
	Card      string
}

// Validate rejects identifiers that cannot be safely interpolated into SQL.
func (t Tables) Validate() error {
	if !projectRe.MatchString(t.ProjectID) {
		return fmt.Errorf("Validate: invalid BigQuery project ID %q", t.ProjectID)
	}
	for _, id := range []string{t.Dataset, t.Records, t.Card} {
		if !identifierRe.MatchString(id) {
			return fmt.Errorf("Validate: invalid BigQuery identifier %q", id)
		}
	}
	return nil
}

func (t Tables) recordsRef() string {
	return "`" + t.ProjectID + "." + t.Dataset + "." + t.Records + "`"
}

func (t Tables) cardRef() string {
	return "`" + t.ProjectID + "." + t.Dataset + "." + t.Card + "`"
}
