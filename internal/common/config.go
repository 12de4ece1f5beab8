package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	OCR      OCRConfig
	WhatsApp WhatsAppConfig
	Sheet    SheetConfig
	Paths    PathsConfig
}

// OCRConfig holds the external binaries and rendering parameters used for
// PDF rasterization and text extraction.
type OCRConfig struct {
	Pdftoppm  string
	Pdfimages string
	Tesseract string

	TesseractLang string
	DPI           int
	PSM           int

	TessdataDir string
}

// WhatsAppConfig holds WhatsApp Cloud API credentials.
type WhatsAppConfig struct {
	Token         string
	PhoneNumberID string
	APIVersion    string
	Timeout       time.Duration
}

// SheetConfig holds the member-roster workbook location.
type SheetConfig struct {
	Path      string
	Worksheet string
}

// PathsConfig holds working directories for templates, photos and output.
type PathsConfig struct {
	TemplatesDir string
	PhotosDir    string
	FontsDir     string
	OutputDir    string
	SendLogPath  string
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is read first when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		OCR: OCRConfig{
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Pdfimages:     getEnv("PDFIMAGES_BIN", "pdfimages"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			DPI:           getEnvAsInt("OCR_DPI", 150),
			PSM:           getEnvAsInt("OCR_PSM", 6),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
		},
		WhatsApp: WhatsAppConfig{
			Token:         getEnv("WHATSAPP_TOKEN", ""),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			APIVersion:    getEnv("WHATSAPP_API_VERSION", "v21.0"),
			Timeout:       getEnvAsDuration("WHATSAPP_TIMEOUT", 30*time.Second),
		},
		Sheet: SheetConfig{
			Path:      getEnv("SHEET_PATH", "output/members.xlsx"),
			Worksheet: getEnv("SHEET_WORKSHEET", "JSG Members"),
		},
		Paths: PathsConfig{
			TemplatesDir: getEnv("TEMPLATES_DIR", "templates"),
			PhotosDir:    getEnv("PHOTOS_DIR", "photos"),
			FontsDir:     getEnv("FONTS_DIR", "fonts"),
			OutputDir:    getEnv("OUTPUT_DIR", "output"),
			SendLogPath:  getEnv("SENDLOG_PATH", "output/sendlog.db"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateMessaging checks the fields required for sending wishes.
func (c *Config) ValidateMessaging() error {
	if c.WhatsApp.Token == "" {
		return NewAppError("CONFIG_ERROR", "WHATSAPP_TOKEN is required", ErrInvalidInput)
	}
	if c.WhatsApp.PhoneNumberID == "" {
		return NewAppError("CONFIG_ERROR", "WHATSAPP_PHONE_NUMBER_ID is required", ErrInvalidInput)
	}
	return nil
}
