// Package digest renders reimbursement-risk emails from a list of claims.
package digest

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strconv"
	"strings"
	texttemplate "text/template"

	"claimcountdown.app/server/internal/model"
)

const (
	TestSubject  = "Test Email - ClaimCountdown"
	EmptyMessage = "You don't have any claims yet. Upload a CSV to start tracking!"

	// PreviewSize is how many claims a test email shows.
	PreviewSize = 3
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl"))
	textTemplate  = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/digest.txt.tmpl"))
)

// Content is a rendered email without a recipient.
type Content struct {
	Subject string
	HTML    string
	Text    string
}

type Builder struct {
	frontendURL string
}

func NewBuilder(frontendURL string) *Builder {
	return &Builder{frontendURL: strings.TrimRight(frontendURL, "/")}
}

type row struct {
	SKU           string
	ProductName   string
	Reason        string
	Quantity      int
	Value         string
	DaysRemaining int
	DaysLeft      string
	Critical      bool
}

type view struct {
	Period       string
	Count        int
	Noun         string
	Total        string
	WindowDays   int
	Rows         []row
	Preview      bool
	EmptyMessage string
	DashboardURL string
	SettingsURL  string
}

// AtRisk renders the scheduled digest for claims already filtered to the
// at-risk window, in the order given.
func (b *Builder) AtRisk(freq model.AlertFrequency, claims []model.Claim) (Content, error) {
	v := b.view(claims)
	v.Period = periodLabel(freq)

	return b.render(Subject(claims), "digest.html.tmpl", v)
}

// Test renders the on-demand test email. claims may be empty; at most
// PreviewSize are shown.
func (b *Builder) Test(claims []model.Claim) (Content, error) {
	if len(claims) > PreviewSize {
		claims = claims[:PreviewSize]
	}
	v := b.view(claims)
	v.Preview = true

	return b.render(TestSubject, "test.html.tmpl", v)
}

// Subject summarizes the digest, e.g. "2 FBA Claims Expiring Soon - $15.75 at Risk".
func Subject(claims []model.Claim) string {
	return fmt.Sprintf("%d FBA %s Expiring Soon - $%s at Risk",
		len(claims), plural(len(claims), "Claim", "Claims"), formatMoney(model.TotalValue(claims)))
}

func (b *Builder) view(claims []model.Claim) view {
	rows := make([]row, 0, len(claims))
	for i := range claims {
		c := &claims[i]
		product := c.ProductName
		if product == "" {
			product = "N/A"
		}
		rows = append(rows, row{
			SKU:           c.SKU,
			ProductName:   product,
			Reason:        c.Reason,
			Quantity:      c.Quantity,
			Value:         formatMoney(c.ValueOrZero()),
			DaysRemaining: c.DaysRemaining,
			DaysLeft:      fmt.Sprintf("%d %s", c.DaysRemaining, plural(c.DaysRemaining, "day", "days")),
			Critical:      c.DaysRemaining <= 3,
		})
	}

	return view{
		Count:        len(claims),
		Noun:         plural(len(claims), "claim", "claims"),
		Total:        formatMoney(model.TotalValue(claims)),
		WindowDays:   model.AtRiskWindowDays,
		Rows:         rows,
		EmptyMessage: EmptyMessage,
		DashboardURL: b.frontendURL + "/dashboard",
		SettingsURL:  b.frontendURL + "/settings",
	}
}

func (b *Builder) render(subject, htmlName string, v view) (Content, error) {
	var html, text bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, htmlName, v); err != nil {
		return Content{}, fmt.Errorf("rendering %s: %w", htmlName, err)
	}
	if err := textTemplate.Execute(&text, v); err != nil {
		return Content{}, fmt.Errorf("rendering text body: %w", err)
	}
	return Content{Subject: subject, HTML: html.String(), Text: text.String()}, nil
}

func periodLabel(freq model.AlertFrequency) string {
	if freq == model.AlertFrequencyDaily {
		return "Daily"
	}
	return "Weekly"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
