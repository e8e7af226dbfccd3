// Package intake describes the lead intake form and validates submitted
// leads against it. Validation is advisory: scoring and rendering accept
// any attributes.
package intake

import "leadgenius_backend/internal/leads/domain"

// Kind is the input type of a form field.
type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindSelect Kind = "select"
	KindEmail  Kind = "email"
	KindTel    Kind = "tel"
	KindRange  Kind = "range"
)

// Field describes one intake form input.
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     Kind     `json:"type"`
	Required bool     `json:"required"`
	Default  any      `json:"defaultValue,omitempty"`
	Options  []string `json:"options,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Step     string   `json:"step,omitempty"`
}

func bound(v float64) *float64 { return &v }

func rating(name, label string, def float64) Field {
	return Field{Name: name, Label: label, Kind: KindRange, Required: true, Default: def, Min: bound(0), Max: bound(1), Step: "0.1"}
}

var commonFields = []Field{
	{Name: "name", Label: "Lead Name", Kind: KindText, Required: true, Default: "John Doe"},
	{Name: "email", Label: "Email", Kind: KindEmail, Default: "john.doe@example.com"},
	{Name: "phone", Label: "Phone Number", Kind: KindTel, Default: "+1 650-253-0000"},
	{Name: "company", Label: "Company", Kind: KindText, Default: "ACME Corp"},
	{Name: "source", Label: "Lead Source", Kind: KindSelect, Default: "website",
		Options: []string{"website", "referral", "social", "email", "call", "event", "other"}},
}

var yesNoUnknown = []string{"no", "yes", "unknown"}

var bankFields = []Field{
	{Name: "age", Label: "Age", Kind: KindNumber, Required: true, Default: 35},
	{Name: "job", Label: "Job", Kind: KindSelect, Required: true, Default: "admin.",
		Options: []string{"admin.", "blue-collar", "entrepreneur", "housemaid", "management", "retired", "self-employed", "services", "student", "technician", "unemployed", "unknown"}},
	{Name: "marital", Label: "Marital Status", Kind: KindSelect, Required: true, Default: "divorced",
		Options: []string{"divorced", "married", "single", "unknown"}},
	{Name: "education", Label: "Education", Kind: KindSelect, Required: true, Default: "tertiary",
		Options: []string{"basic.4y", "basic.6y", "basic.9y", "high.school", "illiterate", "professional.course", "university.degree", "tertiary", "unknown"}},
	{Name: "default", Label: "Has Credit in Default", Kind: KindSelect, Required: true, Default: "no", Options: yesNoUnknown},
	{Name: "housing", Label: "Has Housing Loan", Kind: KindSelect, Required: true, Default: "yes", Options: yesNoUnknown},
	{Name: "loan", Label: "Has Personal Loan", Kind: KindSelect, Required: true, Default: "no", Options: yesNoUnknown},
	{Name: "contact", Label: "Contact Type", Kind: KindSelect, Required: true, Default: "cellular",
		Options: []string{"cellular", "telephone"}},
	{Name: "month", Label: "Last Contact Month", Kind: KindSelect, Required: true, Default: "may",
		Options: []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}},
	{Name: "day_of_week", Label: "Last Contact Day of Week", Kind: KindSelect, Required: true, Default: "mon",
		Options: []string{"mon", "tue", "wed", "thu", "fri"}},
	{Name: "duration", Label: "Last Contact Duration (seconds)", Kind: KindNumber, Required: true, Default: 180},
	{Name: "campaign", Label: "Number of Contacts Performed", Kind: KindNumber, Required: true, Default: 2},
	{Name: "pdays", Label: "Days Since Last Contact", Kind: KindNumber, Required: true, Default: 999},
	{Name: "previous", Label: "Previous Contacts", Kind: KindNumber, Required: true, Default: 0},
	{Name: "poutcome", Label: "Previous Campaign Outcome", Kind: KindSelect, Required: true, Default: "nonexistent",
		Options: []string{"failure", "nonexistent", "success"}},
	{Name: domain.KeyEmpVarRate, Label: "Employment Variation Rate", Kind: KindNumber, Required: true, Default: -1.8, Step: "0.1"},
	{Name: domain.KeyConsPriceIdx, Label: "Consumer Price Index", Kind: KindNumber, Required: true, Default: 92.89, Step: "0.01"},
	{Name: domain.KeyConsConfIdx, Label: "Consumer Confidence Index", Kind: KindNumber, Required: true, Default: -46.2, Step: "0.1"},
	{Name: domain.KeyEuribor3m, Label: "Euribor 3 Month Rate", Kind: KindNumber, Required: true, Default: 1.3, Step: "0.001"},
	{Name: domain.KeyNrEmployed, Label: "Number of Employees", Kind: KindNumber, Required: true, Default: 5099.1, Step: "0.1"},
}

var leadScoringFields = []Field{
	rating("budget", "Budget Score (0-1)", 0.7),
	rating("authority", "Authority Score (0-1)", 0.8),
	rating("need", "Need Score (0-1)", 0.6),
	rating("timeframe", "Timeframe Score (0-1)", 0.75),
	rating("engagement_level", "Engagement Level (0-1)", 0.65),
	{Name: "website_visits", Label: "Website Visits Count", Kind: KindNumber, Required: true, Default: 5},
	{Name: "time_spent", Label: "Time Spent on Website (minutes)", Kind: KindNumber, Required: true, Default: 8.5, Step: "0.1"},
	{Name: "content_downloaded", Label: "Content Downloads Count", Kind: KindNumber, Required: true, Default: 2},
}

// Fields returns the common fields followed by the dataset's own fields.
// Any dataset other than bank gets the lead scoring fields.
func Fields(dataset domain.DatasetType) []Field {
	specific := leadScoringFields
	if dataset.IsBank() {
		specific = bankFields
	}
	out := make([]Field, 0, len(commonFields)+len(specific))
	out = append(out, commonFields...)
	return append(out, specific...)
}

// Defaults returns a lead pre-filled with every field's default value.
func Defaults(dataset domain.DatasetType) domain.Attributes {
	var attrs domain.Attributes
	for _, f := range Fields(dataset) {
		if f.Default != nil {
			attrs.Set(f.Name, f.Default)
		}
	}
	return attrs
}
