package web

import "html/template"

const layoutTemplate = `
{{define "header"}}<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} · Visa Slot Watcher</title></head>
<body>
<nav><a href="/dashboard">Dashboard</a> | <a href="/add">Add account</a></nav>
{{if .Notice}}<p class="notice notice-{{.Level}}">{{.Notice}}</p>{{end}}
{{end}}
{{define "footer"}}</body></html>{{end}}

{{define "dashboard"}}{{template "header" .}}
<h1>Watch requests</h1>
{{if .Requests}}
<table>
<tr><th>Unique ID</th><th>Name</th><th>Email</th><th>Type</th><th>Target month</th><th>Days</th><th>Added</th><th></th></tr>
{{range .Requests}}
<tr>
<td>{{.UniqueID}}</td><td>{{.FullName}}</td><td>{{.Email}}</td><td>{{.AppointmentType}}</td>
<td>{{.TargetMonthYear}}</td>
<td>{{.TargetDayStart}}{{if .TargetDayEnd.Valid}}–{{.TargetDayEnd.Int32}}{{end}}</td>
<td>{{.LastChecked.Format "2006-01-02 15:04"}}</td>
<td><a href="/delete/{{.ID}}">Delete</a></td>
</tr>
{{end}}
</table>
{{else}}
<p>No accounts yet.</p>
{{end}}
{{template "footer" .}}{{end}}

{{define "add"}}{{template "header" .}}
<h1>Add account</h1>
{{with .Errors}}<ul class="errors">{{range $field, $msg := .}}<li>{{$field}} {{$msg}}</li>{{end}}</ul>{{end}}
<form method="post" action="/add">
<label>Email <input type="email" name="email" value="{{.Form.Email}}"></label>
<label>Password <input type="password" name="password"></label>
<label>Unique Account ID <input name="unique_id" value="{{.Form.UniqueID}}"></label>
<label>First Name <input name="first_name" value="{{.Form.FirstName}}"></label>
<label>Last Name <input name="last_name" value="{{.Form.LastName}}"></label>
<label>Appointment Type
<select name="appointment_type">
<option value="new"{{if eq .Form.AppointmentType "new"}} selected{{end}}>Creating New Appointment</option>
<option value="reschedule"{{if eq .Form.AppointmentType "reschedule"}} selected{{end}}>Rescheduling Existing Appointment</option>
</select></label>
<label>Target Month
<select name="target_month_year">
{{$sel := .Form.TargetMonthYear}}{{range .Months}}<option value="{{.Value}}"{{if eq .Value $sel}} selected{{end}}>{{.Label}}</option>{{end}}
</select></label>
<label>Start Day (1-31) <input type="number" min="1" max="31" name="target_day_start" value="{{if .Form.TargetDayStart}}{{.Form.TargetDayStart}}{{end}}"></label>
<label>End Day (optional) <input type="number" min="1" max="31" name="target_day_end" value="{{if .Form.TargetDayEnd}}{{.Form.TargetDayEnd}}{{end}}"></label>
<button type="submit">Add Account</button>
</form>
{{template "footer" .}}{{end}}
`

func parseTemplates() *template.Template {
	return template.Must(template.New("layout").Parse(layoutTemplate))
}
