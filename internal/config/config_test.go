package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to set env vars and clean up after
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old := os.Getenv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if old == "" {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, old)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "PLAN_DAYS", "REMINDER_WINDOW_DAYS",
		"RECONCILE_INTERVAL", "SMTP_HOST", "MAIL_FROM", "ADMIN_SECRET",
	} {
		setEnv(t, key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultEnv, cfg.Env)
	assert.Equal(t, DefaultPlanDays, cfg.PlanDays)
	assert.Equal(t, DefaultReminderWindowDays, cfg.ReminderWindowDays)
	assert.Equal(t, DefaultReconcileInterval, cfg.ReconcileInterval)
	assert.False(t, cfg.MailConfigured())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, "PORT", "9090")
	setEnv(t, "PLAN_DAYS", "14")
	setEnv(t, "REMINDER_WINDOW_DAYS", "5")
	setEnv(t, "RECONCILE_INTERVAL", "30m")
	setEnv(t, "SMTP_HOST", "smtp.example.com")
	setEnv(t, "MAIL_FROM", "noreply@example.com")
	setEnv(t, "OPERATOR_EMAIL", "ops@example.com")
	setEnv(t, "SMTP_TLS_SKIP_VERIFY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 14, cfg.PlanDays)
	assert.Equal(t, 5, cfg.ReminderWindowDays)
	assert.Equal(t, 30*time.Minute, cfg.ReconcileInterval)
	assert.True(t, cfg.MailConfigured())
	assert.Equal(t, "ops@example.com", cfg.OperatorEmail)
	assert.True(t, cfg.SMTPTLSSkipVerify)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero plan days",
			mutate:  func(c *Config) { c.PlanDays = 0 },
			wantErr: "PLAN_DAYS",
		},
		{
			name:    "negative reminder window",
			mutate:  func(c *Config) { c.ReminderWindowDays = -1 },
			wantErr: "REMINDER_WINDOW_DAYS",
		},
		{
			name:    "reconcile interval too short",
			mutate:  func(c *Config) { c.ReconcileInterval = time.Second },
			wantErr: "RECONCILE_INTERVAL",
		},
		{
			name: "production requires admin secret",
			mutate: func(c *Config) {
				c.Env = "production"
				c.AdminSecret = ""
			},
			wantErr: "ADMIN_SECRET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:               DefaultPort,
				Env:                DefaultEnv,
				PlanDays:           DefaultPlanDays,
				ReminderWindowDays: DefaultReminderWindowDays,
				ReconcileInterval:  DefaultReconcileInterval,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
