package structs

// Queue job kinds. Anything else is logged and acknowledged.
const (
	JobClientQuery     = "client_query"
	JobAutoSMS         = "auto_sms"
	JobPaymentReminder = "payment_reminder"
	JobSyncData        = "sync_data"
)

// QueueJob is the broker message envelope: a type tag plus a free-form
// payload specific to that type. Jobs have no identity beyond the broker's
// delivery tag.
type QueueJob struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}
