package config

import "os"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Dialogue is for in-character patient replies (needs to be fast)
	Dialogue string `json:"dialogue"`

	// Narrative is for scenario intro narration (quality over speed)
	Narrative string `json:"narrative"`
}

// AIConfig holds all AI-related configuration. The simulation runs fully
// deterministic canned dialogue when no API key is set.
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			Dialogue:  getEnvOrDefault("GEMINI_MODEL_DIALOGUE", "gemini-2.5-flash-preview-05-20"),
			Narrative: getEnvOrDefault("GEMINI_MODEL_NARRATIVE", "gemini-2.0-flash"),
		},
		TimeoutMS: 10000, // 10 second default timeout
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
