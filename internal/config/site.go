package config

// SiteConfig is the application config stored in the database
// (options table, key="configs"). Edited from the admin panel.
type SiteConfig struct {
	SEO         SEOConfig   `json:"seo"`
	URL         URLConfig   `json:"url"`
	MailOptions MailOptions `json:"mail_options"`
	S3Options   S3Options   `json:"s3_options"`
	FeatureList FeatureList `json:"feature_list"`
}

type SEOConfig struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

type URLConfig struct {
	WebURL    string `json:"web_url"`
	ServerURL string `json:"server_url"`
}

type MailOptions struct {
	Enable   bool          `json:"enable"`
	Provider string        `json:"provider"` // "smtp" | "resend"
	From     string        `json:"from"`
	SMTP     *SMTPConfig   `json:"smtp"`
	Resend   *ResendConfig `json:"resend"`
}

type SMTPConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	User string `json:"user"`
	Pass string `json:"pass"`
}

type ResendConfig struct {
	APIKey string `json:"api_key"`
}

type S3Options struct {
	Endpoint        string `json:"endpoint"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
	CustomDomain    string `json:"custom_domain"`
	PathStyleAccess bool   `json:"path_style_access"`
}

type FeatureList struct {
	EmailSubscribe bool `json:"email_subscribe"`
}

// DefaultSiteConfig returns the config used before the admin saves one.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		SEO: SEOConfig{
			Title:       "FLYBOY",
			Description: "DJ FLYBOY — bookings, events and mixes",
			Keywords:    []string{"dj", "events", "music"},
		},
		MailOptions: MailOptions{
			Provider: "resend",
		},
		FeatureList: FeatureList{
			EmailSubscribe: true,
		},
	}
}
