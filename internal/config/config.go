package config // package config loads application configuration from environment variables

import (
	"errors"   // errors distinguishes a missing .env file from a broken one
	"io/fs"    // fs.ErrNotExist is returned by godotenv for a missing file
	"log"      // log is used to report configuration errors and halt execution
	"os"       // os provides access to environment variables
	"time"     // time expresses ticket lifetimes

	"github.com/joho/godotenv" // godotenv loads a local .env file into the environment
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	DBAutoMigrate  bool          // create missing tables at startup
	TicketSecret   string        // secret used to sign reservation tickets
	TicketTTL      time.Duration // reservation ticket lifetime
	MediaDir       string        // directory served under /media
	MediaURL       string        // public URL prefix for movie covers
	RabbitURL      string        // broker URL; empty disables events
	ReservationLog string        // file the event consumer appends to
	RunConsumer    bool          // start the in-process event consumer
}

// LoadDotEnv loads variables from path (".env" when empty) without
// overriding ones already set.  A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	if err := LoadDotEnv(os.Getenv("ENV_FILE")); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	rabbit := os.Getenv("RABBITMQ_URL")
	return Config{
		Env:            must("APP_ENV"),                                // environment (dev/test/prod)
		Port:           must("APP_PORT"),                               // port to bind the HTTP server
		DBUser:         must("DB_USER"),                                // database user
		DBPass:         os.Getenv("DB_PASS"),                           // database password (empty allowed)
		DBHost:         must("DB_HOST"),                                // database host
		DBPort:         must("DB_PORT"),                                // database port
		DBName:         must("DB_NAME"),                                // database name
		DBAutoMigrate:  envBool("DB_AUTO_MIGRATE", false),              // opt-in schema creation
		TicketSecret:   must("TICKET_SECRET"),                          // secret used for signing tickets
		TicketTTL:      time.Duration(envInt("TICKET_TTL_HOURS", 24)) * time.Hour,
		MediaDir:       envStr("MEDIA_DIR", "media"),                   // covers live here
		MediaURL:       envStr("MEDIA_URL", "/media/"),                 // prefix for cover links
		RabbitURL:      rabbit,                                         // optional broker
		ReservationLog: envStr("RESERVATION_LOG", "logs/reservations.log"),
		RunConsumer:    rabbit != "" && envBool("RESERVATION_CONSUMER_ENABLED", true),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
