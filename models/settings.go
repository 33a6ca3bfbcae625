package models

const CountdownSettingsKey = "countdown"

// CountdownSettings drives the site-wide drop countdown banner.
type CountdownSettings struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Title    string `json:"title" mapstructure:"title" validate:"required,max=120"`
	EndsAt   string `json:"endsAt" mapstructure:"endsAt" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	CTALabel string `json:"ctaLabel" mapstructure:"ctaLabel" validate:"max=60"`
	CTAHref  string `json:"ctaHref" mapstructure:"ctaHref" validate:"max=512"`
}

// DefaultCountdownSettings is served whenever nothing is persisted or the read fails.
func DefaultCountdownSettings() CountdownSettings {
	return CountdownSettings{
		Enabled:  false,
		Title:    "Next drop",
		EndsAt:   "",
		CTALabel: "Shop now",
		CTAHref:  "/shop",
	}
}
