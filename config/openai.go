package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var (
	openaiOnce   sync.Once
	openaiConfig *OpenAIConfig
)

// OpenAIConfig holds credentials for the vision LLM used for OCR.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func GetOpenAIConfig() *OpenAIConfig {
	openaiOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, falling back to environment variables")
		}

		openaiConfig = &OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: envDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   envDefault("TEXT_EXTRACTION_MODEL", "gpt-4.1-mini"),
		}
	})
	return openaiConfig
}
