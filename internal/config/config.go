package config

import (
	"errors"
	"os"
	"sync"
)

type Config struct {
	Env      string
	LogLevel string
	HTTPAddr string

	DBType        string
	DBDSN         string
	FileUsers     string
	FileMembers   string
	FileMedicines string
	FileDoseLogs  string

	AuthServiceURL string
	LocalToken     string

	RedisAddr string

	RemindersEnabled bool
	SendGridAPIKey   string
	EmailFrom        string
	TwilioSID        string
	TwilioAuthToken  string
	TwilioPhone      string
	SMSPhonePrefix   string
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = loadDotEnv()
		cfg = &Config{
			Env:              getEnv("APP_ENV", "development"),
			LogLevel:         getEnv("LOG_LEVEL", "info"),
			HTTPAddr:         getEnv("HTTP_ADDR", ":5000"),
			DBType:           getEnv("STORAGE_BACKEND", "file"),
			DBDSN:            getEnv("POSTGRES_DSN", ""),
			FileUsers:        getEnv("USERS_FILE", "data/users.json"),
			FileMembers:      getEnv("MEMBERS_FILE", "data/members.json"),
			FileMedicines:    getEnv("MEDICINES_FILE", "data/medicines.json"),
			FileDoseLogs:     getEnv("DOSE_LOGS_FILE", "data/dose_logs.json"),
			AuthServiceURL:   getEnv("AUTH_SERVICE_URL", ""),
			LocalToken:       getEnv("LOCAL_TOKEN", "MOCK-TOKEN"),
			RedisAddr:        getEnv("REDIS_ADDR", ""),
			RemindersEnabled: getEnv("REMINDERS_ENABLED", "true") == "true",
			SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
			EmailFrom:        getEnv("EMAIL_FROM", ""),
			TwilioSID:        getEnv("TWILIO_SID", ""),
			TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			TwilioPhone:      getEnv("TWILIO_PHONE", ""),
			SMSPhonePrefix:   getEnv("SMS_PHONE_PREFIX", "+91"),
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

func (c *Config) Validate() error {
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "file" && (c.FileUsers == "" || c.FileMembers == "" || c.FileMedicines == "" || c.FileDoseLogs == "") {
		return errors.New("File storage requires USERS_FILE, MEMBERS_FILE, MEDICINES_FILE and DOSE_LOGS_FILE to be set")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env != "development" && c.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required outside development")
	}
	if c.SendGridAPIKey != "" && c.EmailFrom == "" {
		return errors.New("EMAIL_FROM is required when SENDGRID_API_KEY is set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		f, err := os.Open(".env")
		if err != nil {
			return err
		}
		defer f.Close()
		var lines []string
		buf := make([]byte, 4096)
		for {
			n, err := f.Read(buf)
			if n > 0 {
				lines = append(lines, string(buf[:n]))
			}
			if err != nil {
				break
			}
		}
		for _, line := range lines {
			for _, l := range splitLines(line) {
				if len(l) == 0 || l[0] == '#' {
					continue
				}
				kv := splitKV(l)
				if len(kv) == 2 {
					os.Setenv(kv[0], kv[1])
				}
			}
		}
	}
	return nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' || c == '\r' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func splitKV(s string) []string {
	for i, c := range s {
		if c == '=' {
			return []string{s[:i], s[i+1:]}
		}
	}
	return nil
}
