package notify

import (
	"bytes"
	htmltemplate "html/template"
	"math"
	texttemplate "text/template"
	"time"

	"github.com/shopspring/decimal"
)

const (
	timeLayout = "2006-01-02 15:04 MST"
	brand      = "B2B Wholesale Surplus Goods"
)

var funcs = map[string]any{
	"fmtTime": func(t time.Time) string { return t.Format(timeLayout) },
	"clock":   func(t time.Time) string { return t.Format("15:04") },
	"money":   FormatMoney,
}

// FormatMoney renders minor units as "USD 4500.00".
func FormatMoney(cents int64, currency string) string {
	return currency + " " + decimal.New(cents, -2).StringFixed(2)
}

func render(html *htmltemplate.Template, text *texttemplate.Template, to, subject string, data any) (Message, error) {
	var hb, tb bytes.Buffer
	if err := html.Execute(&hb, data); err != nil {
		return Message{}, err
	}
	if err := text.Execute(&tb, data); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subject, HTML: hb.String(), Text: tb.String()}, nil
}

// Chat transcript

type TranscriptLine struct {
	Sender string
	At     time.Time
	Body   string
	Own    bool
}

type TranscriptData struct {
	CustomerName string
	Topic        string
	AgentName    string
	Started      time.Time
	Ended        time.Time
	Lines        []TranscriptLine
}

func (d TranscriptData) DurationMinutes() int {
	return int(math.Round(d.Ended.Sub(d.Started).Minutes()))
}

var transcriptHTML = htmltemplate.Must(htmltemplate.New("transcript").Funcs(funcs).Parse(`<!DOCTYPE html>
<html><head><meta charset="UTF-8"></head>
<body style="font-family:sans-serif;color:#333">
<h1 style="color:#1e40af">Chat Session Transcript</h1>
<p>Your support conversation has been saved for your records.</p>
<table>
<tr><td><b>Topic:</b></td><td>{{.Topic}}</td></tr>
<tr><td><b>Started:</b></td><td>{{fmtTime .Started}}</td></tr>
<tr><td><b>Ended:</b></td><td>{{fmtTime .Ended}}</td></tr>
<tr><td><b>Duration:</b></td><td>{{.DurationMinutes}} minutes</td></tr>
{{- if .AgentName}}
<tr><td><b>Agent:</b></td><td>{{.AgentName}}</td></tr>
{{- end}}
</table>
<h2>Conversation</h2>
{{- range .Lines}}
<div class="message {{if .Own}}customer-message{{else}}agent-message{{end}}">
<strong>{{.Sender}}</strong> <span>{{clock .At}}</span>
<div style="white-space:pre-wrap">{{.Body}}</div>
</div>
{{- else}}
<div>No messages in this conversation</div>
{{- end}}
<p style="font-size:12px;color:#6b7280">This is an automated email. Please do not reply to this message.<br>&copy; ` + brand + `</p>
</body></html>
`))

var transcriptText = texttemplate.Must(texttemplate.New("transcript").Funcs(funcs).Parse(`CHAT SESSION TRANSCRIPT
======================

Topic: {{.Topic}}
Started: {{fmtTime .Started}}
Ended: {{fmtTime .Ended}}
Duration: {{.DurationMinutes}} minutes
{{if .AgentName}}Agent: {{.AgentName}}
{{end}}
CONVERSATION
============
{{range .Lines}}
[{{clock .At}}] {{.Sender}}: {{.Body}}{{else}}
No messages in this conversation{{end}}

---
This is an automated email. Please do not reply to this message.
` + brand + `
`))

func TranscriptEmail(to string, d TranscriptData) (Message, error) {
	return render(transcriptHTML, transcriptText, to, "Chat Transcript - "+d.Topic, d)
}

// Inquiry confirmation

type InquiryData struct {
	CustomerName string
	ProductName  string
	ProductSKU   string
	PageURL      string
}

var inquiryHTML = htmltemplate.Must(htmltemplate.New("inquiry").Parse(`<!DOCTYPE html>
<html><head><meta charset="UTF-8"></head>
<body style="font-family:sans-serif;color:#333">
<h1 style="color:#1e40af">Inquiry received</h1>
<p>Dear {{.CustomerName}},</p>
<p>Thank you for your interest. We have received your inquiry about:</p>
<ul>
<li><b>Product:</b> {{.ProductName}}</li>
{{- if .ProductSKU}}
<li><b>SKU:</b> {{.ProductSKU}}</li>
{{- end}}
{{- if .PageURL}}
<li><b>Link:</b> <a href="{{.PageURL}}">{{.PageURL}}</a></li>
{{- end}}
</ul>
<p>Our sales team will contact you within 24 hours with specifications and pricing.</p>
<p style="font-size:12px;color:#6b7280">This is an automated email. Please do not reply to this message.<br>&copy; ` + brand + `</p>
</body></html>
`))

var inquiryText = texttemplate.Must(texttemplate.New("inquiry").Parse(`Dear {{.CustomerName}},

Thank you for your interest. We have received your inquiry about:

Product: {{.ProductName}}
{{if .ProductSKU}}SKU: {{.ProductSKU}}
{{end}}{{if .PageURL}}Link: {{.PageURL}}
{{end}}
Our sales team will contact you within 24 hours with specifications and pricing.

---
This is an automated email. Please do not reply to this message.
` + brand + `
`))

func InquiryEmail(to string, d InquiryData) (Message, error) {
	return render(inquiryHTML, inquiryText, to, "Inquiry confirmation - "+d.ProductName, d)
}

// InquirySMS is the short confirmation text.
func InquirySMS(productName, sku string) string {
	info := productName
	if sku != "" {
		info += " (" + sku + ")"
	}
	return `Thank you for your inquiry about "` + info + `". Our sales team will contact you within 24 hours.`
}

// Quote sent

type QuoteData struct {
	CustomerName string
	QuoteNumber  string
	Total        int64
	Currency     string
	ValidUntil   time.Time
	Terms        string
	URL          string
}

var quoteHTML = htmltemplate.Must(htmltemplate.New("quote").Funcs(funcs).Parse(`<!DOCTYPE html>
<html><head><meta charset="UTF-8"></head>
<body style="font-family:sans-serif;color:#333">
<h1 style="color:#1e40af">Your quote {{.QuoteNumber}}</h1>
<p>Dear {{.CustomerName}},</p>
<p>Your quote is ready for review.</p>
<table>
<tr><td><b>Total:</b></td><td>{{money .Total .Currency}}</td></tr>
<tr><td><b>Valid until:</b></td><td>{{fmtTime .ValidUntil}}</td></tr>
{{- if .Terms}}
<tr><td><b>Terms:</b></td><td>{{.Terms}}</td></tr>
{{- end}}
</table>
<p><a href="{{.URL}}">Review and accept the quote</a></p>
<p style="font-size:12px;color:#6b7280">&copy; ` + brand + `</p>
</body></html>
`))

var quoteText = texttemplate.Must(texttemplate.New("quote").Funcs(funcs).Parse(`Dear {{.CustomerName}},

Your quote {{.QuoteNumber}} is ready for review.

Total: {{money .Total .Currency}}
Valid until: {{fmtTime .ValidUntil}}
{{if .Terms}}Terms: {{.Terms}}
{{end}}
Review and accept the quote: {{.URL}}

---
` + brand + `
`))

func QuoteSentEmail(to string, d QuoteData) (Message, error) {
	return render(quoteHTML, quoteText, to, "Your quote "+d.QuoteNumber, d)
}
