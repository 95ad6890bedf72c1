package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
)

// ErrConfiguration marks a terminal configuration failure. The
// server refuses to start with a partial configuration.
var ErrConfiguration = errors.New("configuration incomplete")

// Secret Manager logical names, shared with the deployment scripts.
const (
	SecretBucketName    = "youposm-gcs-bucket"
	SecretSpreadsheetID = "youposm-spreadsheet-id"
	SecretCredentials   = "youposm-google-credentials"
)

const defaultCredentialsFile = "credentials.json"

type Config struct {
	Server  ServerConfig
	Google  GoogleConfig
	Storage StorageConfig
	Lookup  LookupConfig
	CORS    CORSConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

// GoogleConfig carries the resolved Google Cloud settings. Credentials
// holds the raw service account JSON, never a file path.
type GoogleConfig struct {
	ProjectID     string
	BucketName    string
	SpreadsheetID string
	Credentials   []byte
}

// StorageConfig selects the object storage backend. The default is
// GCS; "s3" switches to the S3 backend using the settings below.
type StorageConfig struct {
	Backend string
	S3      S3Config
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type LookupConfig struct {
	RefreshInterval time.Duration
}

// Load resolves the configuration. Resolution order per field, first
// non-empty wins: Secret Manager, environment variable, and for
// credentials only a local file. Secret Manager failures are warnings
// and fall through; a missing required field is terminal.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	secrets := loadSecrets(os.Getenv("GOOGLE_CLOUD_PROJECT"))

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Google: GoogleConfig{
			ProjectID:     os.Getenv("GOOGLE_CLOUD_PROJECT"),
			BucketName:    firstNonEmpty(secrets[SecretBucketName], os.Getenv("GCS_BUCKET_NAME")),
			SpreadsheetID: firstNonEmpty(secrets[SecretSpreadsheetID], os.Getenv("SPREADSHEET_ID")),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "gcs"),
			S3: S3Config{
				Region:          getEnv("AWS_REGION", "ap-southeast-1"),
				Bucket:          getEnv("AWS_S3_BUCKET", ""),
				AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
				BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
			},
		},
		Lookup: LookupConfig{
			RefreshInterval: parseDuration(getEnv("LOOKUP_REFRESH_INTERVAL", "5m")),
		},
		CORS: CORSConfig{
			AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		},
	}

	creds, err := resolveCredentials(secrets[SecretCredentials])
	if err != nil {
		return nil, err
	}
	config.Google.Credentials = creds

	if config.Google.BucketName == "" && config.Storage.Backend != "s3" {
		return nil, fmt.Errorf("%w: bucket name not set (secret %s or GCS_BUCKET_NAME)", ErrConfiguration, SecretBucketName)
	}
	if config.Storage.Backend == "s3" && config.Storage.S3.Bucket == "" {
		return nil, fmt.Errorf("%w: AWS_S3_BUCKET not set for the s3 backend", ErrConfiguration)
	}
	if config.Google.SpreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet id not set (secret %s or SPREADSHEET_ID)", ErrConfiguration, SecretSpreadsheetID)
	}

	return config, nil
}

// loadSecrets pulls the known logical names from Secret Manager.
// Any failure here is non-fatal: the caller falls through to the
// environment. Skipped entirely when no project is configured.
func loadSecrets(projectID string) map[string]string {
	secrets := map[string]string{}
	if projectID == "" {
		return secrets
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		log.Printf("Secret Manager unavailable, falling back to environment: %v", err)
		return secrets
	}
	defer client.Close()

	for _, name := range []string{SecretBucketName, SecretSpreadsheetID, SecretCredentials} {
		resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
			Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, name),
		})
		if err != nil {
			log.Printf("Secret %s not readable, falling back to environment: %v", name, err)
			continue
		}
		secrets[name] = string(resp.GetPayload().GetData())
	}
	return secrets
}

// resolveCredentials finds the service account JSON: secret value,
// then GOOGLE_CREDENTIALS, then the file named by
// GOOGLE_APPLICATION_CREDENTIALS, then ./credentials.json.
func resolveCredentials(fromSecret string) ([]byte, error) {
	if fromSecret != "" {
		return []byte(fromSecret), nil
	}
	if raw := os.Getenv("GOOGLE_CREDENTIALS"); raw != "" {
		return []byte(raw), nil
	}

	for _, path := range []string{os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"), defaultCredentialsFile} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Printf("Cannot read credentials file %s: %v", path, err)
			}
			continue
		}
		return data, nil
	}

	return nil, fmt.Errorf("%w: no service account credentials found (secret %s, GOOGLE_CREDENTIALS, GOOGLE_APPLICATION_CREDENTIALS or ./%s)",
		ErrConfiguration, SecretCredentials, defaultCredentialsFile)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default 5m", s)
		return 5 * time.Minute
	}
	return duration
}
