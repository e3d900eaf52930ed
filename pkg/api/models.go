package api

import (
	"time"

	"github.com/google/uuid"
)

type ValueList struct {
	Key    string
	Values []string
}

// GenerateSentencesRequest either carries a raw config in Config, in the text
// or yaml format accepted by the command line tool, or the parsed lists.
// Lists given explicitly are added after the ones read from Config.
type GenerateSentencesRequest struct {
	Config       string `json:"Config,omitempty"`
	ConfigFormat string `json:"ConfigFormat,omitempty"` // "text" (default) or "yaml"

	Intents  []string
	Entities []ValueList
	Aliases  []ValueList

	// Intent labels the generated sentences with a "## intent:" header.
	Intent string

	Subsample     *int
	Grammar       []string `json:"Grammar,omitempty"`
	TrainingRatio *float64 `json:"TrainingRatio,omitempty"`
	Prefix        string   `json:"Prefix,omitempty"`
	Seed          *int64   `json:"Seed,omitempty"`
}

type GenerateStoriesRequest struct {
	Config       string `json:"Config,omitempty"`
	ConfigFormat string `json:"ConfigFormat,omitempty"`

	Entities []ValueList

	Intent string
	Count  int

	Grammar       []string `json:"Grammar,omitempty"`
	TrainingRatio *float64 `json:"TrainingRatio,omitempty"`
	Prefix        string   `json:"Prefix,omitempty"`
	Seed          *int64   `json:"Seed,omitempty"`
}

type File struct {
	Name  string
	Count int
}

type GenerateResponse struct {
	RunId uuid.UUID
	Count int
	Items []string
	Files []File
}

type Run struct {
	Id     uuid.UUID
	Mode   string
	Intent string
	Status string
	Error  string `json:"Error,omitempty"`

	Seed          *int64 `json:"Seed,omitempty"`
	TrainingRatio float64
	Count         int
	Location      string

	CreationTime   time.Time
	CompletionTime *time.Time `json:"CompletionTime,omitempty"`

	Files []File
}

type ListRunsParams struct {
	Limit  int `schema:"limit"`
	Offset int `schema:"offset"`
}
