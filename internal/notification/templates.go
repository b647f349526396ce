package notification

import (
	"bytes"
	"html/template"
)

const (
	subjectVisitScheduled   = "Your site visit is confirmed"
	subjectVisitRescheduled = "Your site visit has been moved"
	subjectVisitReminder    = "Reminder: your site visit is coming up"
)

var visitScheduledTmpl = template.Must(template.New("visit_scheduled").Parse(`
<p>Dear {{.MemberName}},</p>
<p>Your site visit{{if .UnitLabel}} for unit <strong>{{.UnitLabel}}</strong>{{end}} is confirmed
for <strong>{{.LocalTime}}</strong> (IST).</p>
<p>We look forward to welcoming you.</p>
`))

var visitRescheduledTmpl = template.Must(template.New("visit_rescheduled").Parse(`
<p>Dear {{.MemberName}},</p>
<p>Your site visit originally planned for <strong>{{.OldLocalTime}}</strong> has been moved
to <strong>{{.NewLocalTime}}</strong> (IST).</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
`))

func renderVisitScheduled(memberName, unitLabel, localTime string) (string, error) {
	var buf bytes.Buffer
	err := visitScheduledTmpl.Execute(&buf, struct {
		MemberName, UnitLabel, LocalTime string
	}{memberName, unitLabel, localTime})
	return buf.String(), err
}

var visitReminderTmpl = template.Must(template.New("visit_reminder").Parse(`
<p>Dear {{.MemberName}},</p>
<p>This is a reminder of your upcoming site visit{{if .UnitLabel}} for unit
<strong>{{.UnitLabel}}</strong>{{end}} on <strong>{{.LocalTime}}</strong> (IST).</p>
`))

func renderVisitReminder(memberName, unitLabel, localTime string) (string, error) {
	var buf bytes.Buffer
	err := visitReminderTmpl.Execute(&buf, struct {
		MemberName, UnitLabel, LocalTime string
	}{memberName, unitLabel, localTime})
	return buf.String(), err
}

func renderVisitRescheduled(memberName, oldLocalTime, newLocalTime, reason string) (string, error) {
	var buf bytes.Buffer
	err := visitRescheduledTmpl.Execute(&buf, struct {
		MemberName, OldLocalTime, NewLocalTime, Reason string
	}{memberName, oldLocalTime, newLocalTime, reason})
	return buf.String(), err
}
