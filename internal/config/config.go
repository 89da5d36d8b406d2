package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// LMS backend
	LMSBaseURL string
	LMSToken   string

	// Video streaming origin
	EmbedURLTemplate string
	VideoTransport   string // "http" (default) or "sftp"

	// SFTP ingest (only when VideoTransport == "sftp")
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPRemoteDir             string
	SFTPInsecureIgnoreHostKey bool

	// Local state
	SessionFile string

	MaxConcurrentUploads int
	LogMode              string
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		LMSBaseURL: getenv("LMS_BASE_URL", "https://api.academy.example.com"),
		LMSToken:   os.Getenv("LMS_TOKEN"),

		EmbedURLTemplate: getenv("EMBED_URL_TEMPLATE", "https://iframe.mediadelivery.net/embed/%s/%s"),
		VideoTransport:   getenv("VIDEO_TRANSPORT", "http"),

		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPRemoteDir:             getenv("SFTP_REMOTE_DIR", "/"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOST_KEY", false),

		SessionFile: getenv("SESSION_FILE", ".publish-session.json"),

		MaxConcurrentUploads: getenvInt("MAX_CONCURRENT_UPLOADS", 3),
		LogMode:              getenv("LOG_MODE", "dev"),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
