package runs

import "time"

// Status values for report runs
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// Run is the shape persisted in the runs DynamoDB table. One row guards one report request.
type Run struct {
	RunKey    string    `dynamodbav:"run_key"` // PK
	Status    string    `dynamodbav:"status"`
	Period    string    `dynamodbav:"period"`
	ReportID  string    `dynamodbav:"report_id,omitempty"`
	Attempts  int       `dynamodbav:"attempts"`
	CreatedAt time.Time `dynamodbav:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
	ExpiresAt int64     `dynamodbav:"expires_at"` // TTL epoch seconds
	Note      string    `dynamodbav:"note,omitempty"`
}
