package core

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host               string
		Address            string
		DebugAddress       string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	BlobConfig struct {
		Driver      string // disk | gridfs
		DiskRoot    string
		MongoURI    string
		MongoDB     string
		MongoBucket string
	}

	SessionConfig struct {
		Driver    string // memory | redis
		RedisAddr string
		RedisDB   int
		TTL       time.Duration
	}

	AIConfig struct {
		APIBase       string // flashcard & quiz generation
		AIBackend     string // chat
		FunctionURL   string // document AI (authenticated)
		Timeout       time.Duration
		RatePerSecond float64
	}

	EmailConfig struct {
		SendgridApiKey   string
		DefaultFromName  string
		DefaultFromEmail string
	}

	ReminderConfig struct {
		Enabled bool
		Spec    string
		Window  time.Duration
	}

	Config struct {
		AppName         string
		Env             string
		Build           string
		Debug           bool
		TestMode        bool
		SecretKey       string
		FrontendBaseURL string
		WebcalBaseURL   string
		RollbarToken    string

		Server   ServerConfig
		Database DatabaseConfig
		Blob     BlobConfig
		Session  SessionConfig
		AI       AIConfig
		Email    EmailConfig
		Reminder ReminderConfig
	}
)

func (dbc DatabaseConfig) Address() string {
	return net.JoinHostPort(dbc.Host, strconv.Itoa(dbc.Port))
}

// NewConfig loads the configuration for the current ENV (DEV (local; default), TEST, QA, PROD).
// Values come from the environment, prefixed with the ENV name (eg. DEV_DATABASE_HOST),
// optionally preloaded from config/.env.<env>.
func NewConfig() *Config {
	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	loadDotEnv(env)

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v, env)
	v.AutomaticEnv()

	conf := &Config{
		AppName:         v.GetString("appName"),
		Env:             env,
		Build:           v.GetString("build"),
		Debug:           v.GetBool("debug"),
		TestMode:        env == "TEST",
		SecretKey:       v.GetString("secretKey"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		WebcalBaseURL:   v.GetString("webcalBaseURL"),
		RollbarToken:    v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Address:            v.GetString("server.address"),
			DebugAddress:       v.GetString("server.debugAddress"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Blob: BlobConfig{
			Driver:      v.GetString("blob.driver"),
			DiskRoot:    v.GetString("blob.diskRoot"),
			MongoURI:    v.GetString("blob.mongoURI"),
			MongoDB:     v.GetString("blob.mongoDB"),
			MongoBucket: v.GetString("blob.mongoBucket"),
		},
		Session: SessionConfig{
			Driver:    v.GetString("session.driver"),
			RedisAddr: v.GetString("session.redisAddr"),
			RedisDB:   v.GetInt("session.redisDB"),
			TTL:       v.GetDuration("session.ttl"),
		},
		AI: AIConfig{
			APIBase:       strings.TrimRight(v.GetString("ai.apiBase"), "/"),
			AIBackend:     strings.TrimRight(v.GetString("ai.backend"), "/"),
			FunctionURL:   v.GetString("ai.functionURL"),
			Timeout:       v.GetDuration("ai.timeout"),
			RatePerSecond: v.GetFloat64("ai.ratePerSecond"),
		},
		Email: EmailConfig{
			SendgridApiKey:   v.GetString("email.sendgridApiKey"),
			DefaultFromName:  v.GetString("email.defaultFromName"),
			DefaultFromEmail: v.GetString("email.defaultFromEmail"),
		},
		Reminder: ReminderConfig{
			Enabled: v.GetBool("reminder.enabled"),
			Spec:    v.GetString("reminder.spec"),
			Window:  v.GetDuration("reminder.window"),
		},
	}
	return conf
}

func setDefaults(v *viper.Viper, env string) {
	local := env == "DEV" || env == "TEST"

	v.SetDefault("appName", "StudyBuddy")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", local)
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("webcalBaseURL", "webcal://localhost:8000")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugAddress", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "studybuddy")
	v.SetDefault("database.user", "studybuddy")
	v.SetDefault("database.password", "studybuddy")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "postgres")
	v.SetDefault("database.disableTLS", local)

	v.SetDefault("blob.driver", "disk")
	v.SetDefault("blob.diskRoot", filepath.Join(os.TempDir(), "studybuddy", "blobs"))
	v.SetDefault("blob.mongoURI", "mongodb://localhost:27017")
	v.SetDefault("blob.mongoDB", "studybuddy")
	v.SetDefault("blob.mongoBucket", "documents")

	v.SetDefault("session.driver", "memory")
	v.SetDefault("session.redisAddr", "localhost:6379")
	v.SetDefault("session.redisDB", 0)
	v.SetDefault("session.ttl", 7*24*time.Hour)

	if local {
		v.SetDefault("ai.apiBase", "http://localhost:5000")
		v.SetDefault("ai.backend", "http://localhost:5001")
		v.SetDefault("ai.functionURL", "http://localhost:54321/functions/v1/document-ai")
	} else {
		v.SetDefault("ai.apiBase", "https://api.studybuddy.app")
		v.SetDefault("ai.backend", "https://ai.studybuddy.app")
		v.SetDefault("ai.functionURL", "https://functions.studybuddy.app/document-ai")
	}
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.ratePerSecond", 2.0)

	v.SetDefault("email.defaultFromName", "StudyBuddy")
	v.SetDefault("email.defaultFromEmail", "noreply@localhost")

	v.SetDefault("reminder.enabled", !local)
	v.SetDefault("reminder.spec", "0 7 * * *")
	v.SetDefault("reminder.window", 24*time.Hour)
}

// loadDotEnv loads config/.env.<env> if it exists (ignored if it does not)
func loadDotEnv(env string) {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd(): %v", err)
	}
	dotEnvPath := filepath.Join(FindRoot(wd), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
}

// NewTestConfig returns the configuration used by tests: no network defaults are contacted.
func NewTestConfig() *Config {
	conf := NewConfig()
	conf.Env = "TEST"
	conf.Debug = true
	conf.TestMode = true
	conf.SecretKey = "test-secret"
	conf.Reminder.Enabled = false
	return conf
}

func (c *Config) String() string {
	return fmt.Sprintf("%s (%s, build %s)", c.AppName, c.Env, c.Build)
}
