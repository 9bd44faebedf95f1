package types

// CorpusConfig holds settings for the corpus library.
// Per prd001-corpus R1.1.
type CorpusConfig struct {
	// BaseDir is the corpus root (contains books/, metadata/).
	BaseDir string `json:"base_dir" yaml:"base_dir"`
}

// KnowledgeConfig holds settings for the knowledge base.
// Per prd004-knowledge-base R1.1, R4.5.
type KnowledgeConfig struct {
	// DatabasePath is the SQLite database file.
	DatabasePath string `json:"database" yaml:"database"`

	// MaxResults is the default cap on search results (0 = unlimited).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ExportConfig holds settings for knowledge exports.
type ExportConfig struct {
	// Dir receives export files when no explicit output path is given.
	Dir string `json:"dir" yaml:"dir"`
}

// ProcessConfig holds defaults for the processing pipeline.
// Per prd005-cli R2.3.
type ProcessConfig struct {
	// DefaultAuthority is the authority level assumed when a book or flag
	// does not supply one: classical, traditional, modern, or commentary.
	DefaultAuthority string `json:"default_authority" yaml:"default_authority"`
}

// Config groups all stage configurations for the vediq pipeline.
type Config struct {
	Corpus    CorpusConfig    `json:"corpus" yaml:"corpus"`
	Knowledge KnowledgeConfig `json:"knowledge" yaml:"knowledge"`
	Export    ExportConfig    `json:"export" yaml:"export"`
	Process   ProcessConfig   `json:"process" yaml:"process"`
}

// DefaultConfig returns the workspace-relative defaults used when no config
// file overrides them.
func DefaultConfig() Config {
	return Config{
		Corpus:    CorpusConfig{BaseDir: "corpus"},
		Knowledge: KnowledgeConfig{DatabasePath: "corpus/vediq.db", MaxResults: 0},
		Export:    ExportConfig{Dir: "exports"},
		Process:   ProcessConfig{DefaultAuthority: "modern"},
	}
}
