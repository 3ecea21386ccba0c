package config

import "testing"

func validBase() Config {
	return Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "callcenter"},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  AuthConfig{JWTSecret: "secret"},
		Wati: WatiConfig{
			TenantID:      "466818",
			TemplateName:  "call_followup",
			ChannelNumber: "+15558061622",
		},
	}
}

func TestLoad_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := validBase()
	c.App.Env = "production"
	c.Auth.JWTIssuer = "issuer"
	c.Auth.JWTAudience = "aud"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_LocalDefaults(t *testing.T) {
	c := validBase()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.Wati.BaseURL == "" {
		t.Fatalf("expected wati base url default")
	}
	if c.Wati.BroadcastName != c.Wati.TemplateName {
		t.Fatalf("expected broadcast defaulted to template, got %q", c.Wati.BroadcastName)
	}
}

func TestValidate_MissingWatiTokenIsNotAnError(t *testing.T) {
	c := validBase()
	c.Wati.AccessToken = ""
	if err := c.Validate(); err != nil {
		t.Fatalf("expected missing token to be tolerated, got %v", err)
	}
}

func TestValidate_RequiresWatiTenantAndTemplate(t *testing.T) {
	c := validBase()
	c.Wati.TenantID = ""
	c.Wati.TemplateName = ""
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for missing wati tenant/template")
	}
}
