// Package llm provides LLM provider configuration options.
package llm

import (
	"fmt"
	"time"

	"github.com/kart-io/support-desk/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*ProviderOptions)(nil)

// ProviderOptions defines configuration for an LLM provider endpoint.
type ProviderOptions struct {
	// Provider is the provider name (openai, ollama).
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL is the API base address.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey is the API key (required for openai).
	APIKey string `json:"-" mapstructure:"api-key"`

	// EmbedModel is the embedding model name.
	EmbedModel string `json:"embed-model" mapstructure:"embed-model"`

	// ChatModel is the chat completion model name.
	ChatModel string `json:"chat-model" mapstructure:"chat-model"`

	// Temperature controls chat completion sampling.
	Temperature float64 `json:"temperature" mapstructure:"temperature"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries is the maximum number of retries on transient failures.
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`

	// Organization is the organization ID (openai optional).
	Organization string `json:"organization" mapstructure:"organization"`
}

// NewProviderOptions creates default LLM provider options.
func NewProviderOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider:    "openai",
		BaseURL:     "https://api.openai.com/v1",
		EmbedModel:  "text-embedding-ada-002",
		ChatModel:   "gpt-4o-mini",
		Temperature: 0.1,
		Timeout:     120 * time.Second,
		MaxRetries:  5,
	}
}

// ToConfigMap converts the options to a config map for the provider factory.
func (o *ProviderOptions) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":     o.BaseURL,
		"api_key":      o.APIKey,
		"embed_model":  o.EmbedModel,
		"chat_model":   o.ChatModel,
		"temperature":  o.Temperature,
		"timeout":      o.Timeout,
		"max_retries":  o.MaxRetries,
		"organization": o.Organization,
	}
}

// AddFlags adds flags for LLM provider options to the specified FlagSet.
func (o *ProviderOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Provider, options.Join(prefixes...)+"llm.provider", o.Provider, "LLM provider (openai, ollama).")
	fs.StringVar(&o.BaseURL, options.Join(prefixes...)+"llm.base-url", o.BaseURL, "LLM API base URL.")
	fs.StringVar(&o.APIKey, options.Join(prefixes...)+"llm.api-key", o.APIKey, "LLM API key.")
	fs.StringVar(&o.EmbedModel, options.Join(prefixes...)+"llm.embed-model", o.EmbedModel, "Embedding model name.")
	fs.StringVar(&o.ChatModel, options.Join(prefixes...)+"llm.chat-model", o.ChatModel, "Chat completion model name.")
	fs.Float64Var(&o.Temperature, options.Join(prefixes...)+"llm.temperature", o.Temperature, "Chat completion temperature.")
	fs.DurationVar(&o.Timeout, options.Join(prefixes...)+"llm.timeout", o.Timeout, "LLM request timeout.")
	fs.IntVar(&o.MaxRetries, options.Join(prefixes...)+"llm.max-retries", o.MaxRetries, "LLM maximum number of retries.")
	fs.StringVar(&o.Organization, options.Join(prefixes...)+"llm.organization", o.Organization, "LLM organization ID (optional).")
}

// Validate validates the LLM provider options.
func (o *ProviderOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Provider == "" {
		errs = append(errs, fmt.Errorf("provider is required"))
	}
	if o.BaseURL == "" {
		errs = append(errs, fmt.Errorf("base-url is required"))
	}
	if o.EmbedModel == "" {
		errs = append(errs, fmt.Errorf("embed-model is required"))
	}
	if o.ChatModel == "" {
		errs = append(errs, fmt.Errorf("chat-model is required"))
	}
	if o.Provider == "openai" && o.APIKey == "" {
		errs = append(errs, fmt.Errorf("api-key is required for openai provider"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive"))
	}
	return errs
}

// Complete completes the LLM provider options with defaults.
func (o *ProviderOptions) Complete() error {
	if o.MaxRetries <= 0 {
		o.MaxRetries = 5
	}
	return nil
}
