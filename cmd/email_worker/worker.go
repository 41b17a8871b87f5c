package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/standup-tracker/pkg/helpers"
	"github.com/oksasatya/standup-tracker/pkg/mailer"
	mailtpl "github.com/oksasatya/standup-tracker/pkg/mailer/templates"
)

type outcome int

const (
	outcomeAck outcome = iota
	outcomeRequeue
	outcomeDrop
)

const sendTimeout = 15 * time.Second

var errEmptyBody = errors.New("job has neither template nor body")

// worker turns queued EmailJobs into sent mail.
type worker struct {
	Sender mailer.Sender
	Logger *logrus.Logger
}

// handle processes one delivery. Bad payloads are dropped; send failures are requeued.
func (w *worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogWarn(w.Logger, "bad email job", err, nil)
		return outcomeDrop
	}
	helpers.EnsureRecipientAndEmail(&job)
	if job.To == "" {
		helpers.LogWarn(w.Logger, "email job without recipient", nil, logrus.Fields{"template": job.Template})
		return outcomeDrop
	}

	subject, text, html, err := compose(job)
	if err != nil {
		helpers.LogWarn(w.Logger, "render email failed", err, logrus.Fields{"template": job.Template, "to": job.To})
		return outcomeDrop
	}

	sctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.Sender.Send(sctx, job.To, subject, text, html); err != nil {
		helpers.LogError(w.Logger, "send email failed", err, logrus.Fields{"template": job.Template, "to": job.To})
		return outcomeRequeue
	}
	helpers.LogInfo(w.Logger, "email sent", logrus.Fields{"template": job.Template, "to": job.To})
	return outcomeAck
}

// compose prefers the named template; an explicit subject on the job wins over the rendered one.
func compose(job mailer.EmailJob) (subject, text, html string, err error) {
	subject, text, html = job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, rerr := mailtpl.Render(strings.ToLower(job.Template), job.Data)
		if rerr != nil {
			return "", "", "", rerr
		}
		if subject == "" {
			subject = s
		}
		text, html = t, h
	}
	if text == "" && html == "" {
		return "", "", "", errEmptyBody
	}
	if subject == "" {
		subject = helpers.DefaultSubject(job.Template)
	}
	return subject, text, html, nil
}
