package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"scriptgo/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Database    Database    `json:"database"`
	App         App         `json:"app"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	RedisClient RedisClient `json:"redisClient"`
	Logger      Logger      `json:"logger"`
	LLM         LLM         `json:"llm"`
	Email       Email       `json:"email"`
	Notify      Notify      `json:"notify"`
}

type App struct {
	Port           int      `json:"port"`
	SecretKey      string   `json:"secretKey"`
	TLSEnabled     bool     `json:"tlsEnabled"`
	TLSCertFile    string   `json:"tlsCertFile"`
	TLSKeyFile     string   `json:"tlsKeyFile"`
	SiteURL        string   `json:"siteUrl"`
	AllowedOrigins []string `json:"allowedOrigins"`
}

type Database struct {
	// Vendor selects the script store: postgres (default), mssql or mysql.
	Vendor string `json:"vendor"`
	// Driver is the database/sql driver used for postgres: postgres (lib/pq) or pgx.
	Driver string `json:"driver"`
	Psql   Db     `json:"psql"`
	MySql  Db     `json:"mysql"`
	Mongo  Db     `json:"mongo"`
	Mssql  Db     `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

type Pubsub struct {
	ProjectID    string `json:"projectID"`
	Topic        string `json:"topic"`
	Subscription string `json:"subscription"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
	TTLSeconds   int    `json:"ttlSeconds"`
}

type Logger struct {
	Format string `json:"format"`
	Level  string `json:"level"`
}

// Email configures outbound mail. Resend is used when ResendAPIKey is set, SMTP otherwise.
type Email struct {
	FromEmail    string `json:"fromEmail"`
	FromName     string `json:"fromName"`
	ResendAPIKey string `json:"resendApiKey"`
	SMTPHost     string `json:"smtpHost"`
	SMTPPort     int    `json:"smtpPort"`
	SMTPUser     string `json:"smtpUser"`
	SMTPPass     string `json:"smtpPass"`
}

// Notify selects the email queue: inline, pubsub or servicebus.
type Notify struct {
	Queue string `json:"queue"`
}

var C Config

func init() {
	LoadEnvFromFile("config.env", ".env")
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initLLM(&C)
	initEmail(&C)
	initQueues(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	C.Database.Vendor = strings.ToLower(getConfigValue(C.Database.Vendor, "DB_VENDOR", "postgres"))
	C.Database.Driver = strings.ToLower(getConfigValue(C.Database.Driver, "DB_DRIVER", "postgres"))

	C.Database.Psql.Name = getConfigValue(C.Database.Psql.Name, "DB_NAME", "scriptgo")
	C.Database.Psql.Host = getConfigValue(C.Database.Psql.Host, "DB_HOST", "localhost")
	C.Database.Psql.Port = getConfigValue(C.Database.Psql.Port, "DB_PORT", "5432")
	C.Database.Psql.User = getConfigValue(C.Database.Psql.User, "DB_USER", "postgres")
	C.Database.Psql.Password = getConfigValue(C.Database.Psql.Password, "DB_PASSWORD", "")
	C.Database.Psql.SSLMode = getConfigValue(C.Database.Psql.SSLMode, "DB_SSLMODE", "disable")

	C.Database.Mssql.Name = getConfigValue(C.Database.Mssql.Name, "MSSQL_DB_NAME", "scriptgo")
	C.Database.Mssql.Host = getConfigValue(C.Database.Mssql.Host, "MSSQL_HOST", "localhost")
	C.Database.Mssql.Port = getConfigValue(C.Database.Mssql.Port, "MSSQL_PORT", "1433")
	C.Database.Mssql.User = getConfigValue(C.Database.Mssql.User, "MSSQL_USER", "sa")
	C.Database.Mssql.Password = getConfigValue(C.Database.Mssql.Password, "MSSQL_PASSWORD", "")

	C.Database.MySql.Name = getConfigValue(C.Database.MySql.Name, "MYSQL_DB_NAME", "scriptgo")
	C.Database.MySql.Host = getConfigValue(C.Database.MySql.Host, "MYSQL_HOST", "localhost")
	C.Database.MySql.Port = getConfigValue(C.Database.MySql.Port, "MYSQL_PORT", "3306")
	C.Database.MySql.User = getConfigValue(C.Database.MySql.User, "MYSQL_USER", "root")
	C.Database.MySql.Password = getConfigValue(C.Database.MySql.Password, "MYSQL_PASSWORD", "")

	C.Database.Mongo.Name = getConfigValue(C.Database.Mongo.Name, "MONGO_DB_NAME", "scriptgo")
	C.Database.Mongo.Host = getConfigValue(C.Database.Mongo.Host, "MONGO_HOST", "")
	C.Database.Mongo.Port = getConfigValue(C.Database.Mongo.Port, "MONGO_PORT", "27017")
	C.Database.Mongo.User = getConfigValue(C.Database.Mongo.User, "MONGO_USER", "")
	C.Database.Mongo.Password = getConfigValue(C.Database.Mongo.Password, "MONGO_PASSWORD", "")

	C.RedisClient.Host = getConfigValue(C.RedisClient.Host, "REDIS_HOST", "")
	C.RedisClient.Port = getConfigValue(C.RedisClient.Port, "REDIS_PORT", "6379")
	C.RedisClient.Password = getConfigValue(C.RedisClient.Password, "REDIS_PASSWORD", "")
	if C.RedisClient.TTLSeconds == 0 {
		C.RedisClient.TTLSeconds = 300
	}
}

func initApp(C *Config) {
	// SECRET_KEY from environment overrides the config file
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	C.App.SiteURL = strings.TrimRight(getConfigValue(C.App.SiteURL, "SITE_URL", fmt.Sprintf("http://localhost:%d", C.App.Port)), "/")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		C.App.AllowedOrigins = splitList(v)
	}
	if len(C.App.AllowedOrigins) == 0 {
		C.App.AllowedOrigins = []string{C.App.SiteURL, "http://localhost:3000"}
	}
	if C.App.TLSEnabled {
		logger.GetLogger().WithFields(map[string]interface{}{"cert": C.App.TLSCertFile, "key": C.App.TLSKeyFile}).Info("TLS enabled via configuration")
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initEmail(C *Config) {
	C.Email.FromEmail = getConfigValue(C.Email.FromEmail, "EMAIL_FROM", os.Getenv("EMAIL_USER"))
	C.Email.FromName = getConfigValue(C.Email.FromName, "EMAIL_FROM_NAME", "ScriptGo Studio")
	C.Email.ResendAPIKey = getConfigValue(C.Email.ResendAPIKey, "RESEND_API_KEY", "")
	C.Email.SMTPHost = getConfigValue(C.Email.SMTPHost, "SMTP_HOST", "smtp.gmail.com")
	C.Email.SMTPUser = getConfigValue(C.Email.SMTPUser, "SMTP_USER", os.Getenv("EMAIL_USER"))
	C.Email.SMTPPass = getConfigValue(C.Email.SMTPPass, "SMTP_PASS", os.Getenv("EMAIL_PASS"))
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.Email.SMTPPort = p
		}
	}
	if C.Email.SMTPPort == 0 {
		C.Email.SMTPPort = 587
	}
}

func initQueues(C *Config) {
	C.Notify.Queue = strings.ToLower(getConfigValue(C.Notify.Queue, "NOTIFY_QUEUE", "inline"))
	C.Pubsub.ProjectID = getConfigValue(C.Pubsub.ProjectID, "PUBSUB_PROJECT_ID", "")
	C.Pubsub.Topic = getConfigValue(C.Pubsub.Topic, "PUBSUB_TOPIC", "scriptgo-email")
	C.Pubsub.Subscription = getConfigValue(C.Pubsub.Subscription, "PUBSUB_SUBSCRIPTION", "scriptgo-email-worker")
	C.ServiceBus.Namespace = getConfigValue(C.ServiceBus.Namespace, "SERVICEBUS_NAMESPACE", "")
	C.ServiceBus.Queue = getConfigValue(C.ServiceBus.Queue, "SERVICEBUS_QUEUE", "scriptgo-email")
}

// getConfigValue returns the env var when set, then the config value unless it is a placeholder, then the default.
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
