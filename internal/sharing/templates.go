package sharing

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

type EmailTemplate struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	HTMLBody string `json:"html_body"`
}

type templateData struct {
	Name        string
	SKU         string
	Price       string
	Description string
	URL         string
}

func (s *Service) data(p Product) templateData {
	return templateData{
		Name:        p.Name,
		SKU:         p.SKU,
		Price:       p.price(),
		Description: p.description(),
		URL:         s.productURL(p),
	}
}

var emailText = texttemplate.Must(texttemplate.New("email").Parse(`Hi,

I wanted to share this wholesale product with you:

Product: {{.Name}}
SKU: {{.SKU}}
Price: ${{.Price}}
Description: {{.Description}}

View Product: {{.URL}}

Best regards,
B2B Wholesale Surplus Goods Platform`))

var emailHTML = htmltemplate.Must(htmltemplate.New("email").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family:Arial,sans-serif;line-height:1.6;color:#333">
<div style="max-width:600px;margin:0 auto;padding:20px">
<div style="background:#0052CC;color:white;padding:20px"><h1>Wholesale Product Opportunity</h1></div>
<div style="background:#f9f9f9;padding:20px;border:1px solid #ddd">
<p>Hi,</p>
<p>I wanted to share this wholesale product with you:</p>
<div style="background:white;padding:15px">
<h3 style="color:#0052CC">{{.Name}}</h3>
<p><strong>SKU:</strong> {{.SKU}}</p>
<p><strong>Price:</strong> ${{.Price}}</p>
<p><strong>Description:</strong> {{.Description}}</p>
</div>
<a href="{{.URL}}" style="display:inline-block;background:#0052CC;color:white;padding:12px 24px;text-decoration:none">View Product Details</a>
</div>
<div style="background:#f0f0f0;padding:15px;text-align:center;font-size:12px;color:#666">
<p>B2B Wholesale Surplus Goods Platform</p>
</div>
</div>
</body>
</html>`))

var whatsApp = texttemplate.Must(texttemplate.New("whatsapp").Parse(`🛍️ *{{.Name}}*

📦 SKU: {{.SKU}}
💰 Price: ${{.Price}}

{{.Description}}

👉 View Details: {{.URL}}

#wholesale #B2B #surplus`))

var linkedIn = texttemplate.Must(texttemplate.New("linkedin").Parse(`Exciting wholesale opportunity! 🎯

We're offering premium surplus goods at competitive prices.

Product: {{.Name}}
SKU: {{.SKU}}
Price: ${{.Price}}

{{.Description}}

Interested in bulk orders? Visit our platform for more details:
{{.URL}}

#wholesale #B2B #supplychain #sourcing`))

func execText(t *texttemplate.Template, d templateData) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, d); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Service) EmailTemplate(p Product) (*EmailTemplate, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	d := s.data(p)
	body, err := execText(emailText, d)
	if err != nil {
		return nil, err
	}
	var hb bytes.Buffer
	if err := emailHTML.Execute(&hb, d); err != nil {
		return nil, err
	}
	return &EmailTemplate{
		Subject:  "Wholesale Opportunity: " + p.Name,
		Body:     body,
		HTMLBody: hb.String(),
	}, nil
}

func (s *Service) WhatsAppTemplate(p Product) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}
	return execText(whatsApp, s.data(p))
}

func (s *Service) LinkedInTemplate(p Product) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}
	return execText(linkedIn, s.data(p))
}
