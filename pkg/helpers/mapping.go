package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/standup-tracker/pkg/mailer"
	mailtpl "github.com/oksasatya/standup-tracker/pkg/mailer/templates"
)

// DefaultSubject is used when a job carries neither a subject nor a known template.
func DefaultSubject(template string) string {
	switch strings.ToLower(template) {
	case mailtpl.Welcome:
		return "Welcome aboard"
	case mailtpl.SignedOutAll:
		return "You were signed out on all devices"
	case mailtpl.AccountDisabled:
		return "Your account was deactivated"
	default:
		return "Notification"
	}
}

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if job.To == "" {
		if v, ok := job.Data["Email"].(string); ok {
			job.To = v
		}
	}
}
