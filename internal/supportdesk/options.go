// Package supportdesk provides the support desk application.
package supportdesk

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/support-desk/pkg/options"
	dbopts "github.com/kart-io/support-desk/pkg/options/database"
	llmopts "github.com/kart-io/support-desk/pkg/options/llm"
	logopts "github.com/kart-io/support-desk/pkg/options/logger"
	milvusopts "github.com/kart-io/support-desk/pkg/options/milvus"
	redisopts "github.com/kart-io/support-desk/pkg/options/redis"
	httpopts "github.com/kart-io/support-desk/pkg/options/server/http"
)

// Options contains all support desk configuration.
type Options struct {
	// HTTP contains HTTP server configuration.
	HTTP *httpopts.Options `json:"http" mapstructure:"http"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// DB contains relational database configuration.
	DB *dbopts.Options `json:"db" mapstructure:"db"`

	// Milvus contains vector database configuration.
	Milvus *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// LLM contains the model provider configuration. One provider serves
	// both chat completions and embeddings.
	LLM *llmopts.ProviderOptions `json:"llm" mapstructure:"llm"`

	// Redis contains the optional embedding cache configuration.
	Redis *redisopts.Options `json:"redis" mapstructure:"redis"`

	// Desk contains support-desk specific configuration.
	Desk *DeskOptions `json:"desk" mapstructure:"desk"`
}

// DeskOptions contains support-desk specific configuration.
type DeskOptions struct {
	// Company is the brand name used in prompts and the welcome message.
	Company string `json:"company" mapstructure:"company"`

	// Collection is the Milvus collection holding the knowledge base.
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim is the dimension of embedding vectors.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// TopK is the number of chunks retrieved per query.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// DataDir holds the plain-text documents to index.
	DataDir string `json:"data-dir" mapstructure:"data-dir"`

	// ChunkSize is the chunk size in characters.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is the overlap between chunks.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`
}

// NewDeskOptions creates default desk options.
func NewDeskOptions() *DeskOptions {
	return &DeskOptions{
		Company:      "Cyfuture",
		Collection:   "support_rag",
		EmbeddingDim: 1536,
		TopK:         5,
		DataDir:      "data/docs",
		ChunkSize:    600,
		ChunkOverlap: 0,
	}
}

// AddFlags adds desk flags to the flag set.
func (o *DeskOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Company, options.Join(prefixes...)+"desk.company", o.Company, "Brand name used in prompts and the welcome message.")
	fs.StringVar(&o.Collection, options.Join(prefixes...)+"desk.collection", o.Collection, "Milvus collection holding the knowledge base.")
	fs.IntVar(&o.EmbeddingDim, options.Join(prefixes...)+"desk.embedding-dim", o.EmbeddingDim, "Dimension of embedding vectors.")
	fs.IntVar(&o.TopK, options.Join(prefixes...)+"desk.top-k", o.TopK, "Number of chunks retrieved per query.")
	fs.StringVar(&o.DataDir, options.Join(prefixes...)+"desk.data-dir", o.DataDir, "Directory of plain-text documents to index.")
	fs.IntVar(&o.ChunkSize, options.Join(prefixes...)+"desk.chunk-size", o.ChunkSize, "Chunk size in characters.")
	fs.IntVar(&o.ChunkOverlap, options.Join(prefixes...)+"desk.chunk-overlap", o.ChunkOverlap, "Overlap between chunks in characters.")
}

// Validate validates the desk options.
func (o *DeskOptions) Validate() []error {
	var errs []error
	if o.Company == "" {
		errs = append(errs, fmt.Errorf("desk.company cannot be empty"))
	}
	if o.Collection == "" {
		errs = append(errs, fmt.Errorf("desk.collection cannot be empty"))
	}
	if o.EmbeddingDim <= 0 {
		errs = append(errs, fmt.Errorf("desk.embedding-dim must be positive"))
	}
	if o.TopK <= 0 {
		errs = append(errs, fmt.Errorf("desk.top-k must be positive"))
	}
	if o.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("desk.chunk-size must be positive"))
	}
	if o.ChunkOverlap < 0 || o.ChunkOverlap >= o.ChunkSize {
		errs = append(errs, fmt.Errorf("desk.chunk-overlap must be in [0, chunk-size)"))
	}
	return errs
}

// NewOptions creates default support desk options.
func NewOptions() *Options {
	return &Options{
		HTTP:   httpopts.NewOptions(),
		Log:    logopts.NewOptions(),
		DB:     dbopts.NewOptions(),
		Milvus: milvusopts.NewOptions(),
		LLM:    llmopts.NewProviderOptions(),
		Redis:  redisopts.NewOptions(),
		Desk:   NewDeskOptions(),
	}
}

// AddFlags adds all support desk flags to the flag set.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.HTTP.AddFlags(fs)
	o.Log.AddFlags(fs)
	o.DB.AddFlags(fs)
	o.Milvus.AddFlags(fs)
	o.LLM.AddFlags(fs)
	o.Redis.AddFlags(fs)
	o.Desk.AddFlags(fs)
}

// Complete fills in defaults that depend on other options.
func (o *Options) Complete() error {
	return o.LLM.Complete()
}

// Validate checks all options for configuration errors.
func (o *Options) Validate() error {
	var errs []error
	errs = append(errs, o.HTTP.Validate()...)
	if err := o.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, o.DB.Validate()...)
	errs = append(errs, o.Milvus.Validate()...)
	errs = append(errs, o.LLM.Validate()...)
	errs = append(errs, o.Redis.Validate()...)
	errs = append(errs, o.Desk.Validate()...)
	return errors.Join(errs...)
}
