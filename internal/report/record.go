package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/mind-engage/cssgrader/internal/grading"
)

// ScoreRecord is the durable outcome of a grading run.
type ScoreRecord struct {
	Student string         `json:"student"`
	Earned  int            `json:"earned"`
	Total   int            `json:"total"`
	Status  grading.Status `json:"status"`
}

// WriteRecord writes rec as a single CSV row with no header line. Columns
// are always student, earned, total and status code, in that order.
func WriteRecord(w io.Writer, rec ScoreRecord) error {
	cw := csv.NewWriter(w)
	row := []string{
		rec.Student,
		strconv.Itoa(rec.Earned),
		strconv.Itoa(rec.Total),
		strconv.Itoa(rec.Status.Code()),
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
