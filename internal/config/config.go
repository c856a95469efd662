package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EngineProse = "prose"
	EngineSpacy = "spacy"
)

type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	FFmpeg     FFmpegConfig     `yaml:"ffmpeg"`
	Whisper    WhisperConfig    `yaml:"whisper"`
	Annotator  AnnotatorConfig  `yaml:"annotator"`
	Generation GenerationConfig `yaml:"generation"`
	Export     ExportConfig     `yaml:"export"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type PathsConfig struct {
	Data        string `yaml:"data"`
	Uploads     string `yaml:"uploads"`
	Transcripts string `yaml:"transcripts"`
	Summaries   string `yaml:"summaries"`
	Exports     string `yaml:"exports"`
	Cache       string `yaml:"cache"`
	Store       string `yaml:"store"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
	Language   string `yaml:"language"`
	Threads    int    `yaml:"threads"`
}

type AnnotatorConfig struct {
	Engine string `yaml:"engine"`
	Python string `yaml:"python"`
	Model  string `yaml:"model"`
}

type GenerationConfig struct {
	Ratio         float64  `yaml:"ratio"`
	MaxFlashcards int      `yaml:"max_flashcards"`
	MaxQuestions  int      `yaml:"max_questions"`
	Seed          uint64   `yaml:"seed"`
	Filler        []string `yaml:"filler"`
}

type ExportConfig struct {
	Docx bool `yaml:"docx"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML file, applies LECNOTES_* environment overrides and
// validates. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := map[string]*string{
		"LECNOTES_DATA_DIR":      &c.Paths.Data,
		"LECNOTES_STORE":         &c.Paths.Store,
		"LECNOTES_FFMPEG":        &c.FFmpeg.BinaryPath,
		"LECNOTES_WHISPER_BIN":   &c.Whisper.BinaryPath,
		"LECNOTES_WHISPER_MODEL": &c.Whisper.ModelPath,
		"LECNOTES_LANGUAGE":      &c.Whisper.Language,
		"LECNOTES_ANNOTATOR":     &c.Annotator.Engine,
		"LECNOTES_PYTHON":        &c.Annotator.Python,
		"LECNOTES_LOG_LEVEL":     &c.Logging.Level,
	}
	for k, dst := range str {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			*dst = v
		}
	}
	if v := strings.TrimSpace(getenv("LECNOTES_RATIO")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("LECNOTES_RATIO: %w", err)
		}
		c.Generation.Ratio = f
	}
	if v := strings.TrimSpace(getenv("LECNOTES_SEED")); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("LECNOTES_SEED: %w", err)
		}
		c.Generation.Seed = n
	}
	return nil
}

// Validate rejects bad values and fills defaults.
func (c *Config) Validate() error {
	if c.Generation.Ratio < 0 || c.Generation.Ratio > 1 {
		return fmt.Errorf("generation.ratio must be in (0, 1]")
	}
	if c.Generation.MaxFlashcards < 0 {
		return fmt.Errorf("generation.max_flashcards must be > 0")
	}
	if c.Generation.MaxQuestions < 0 {
		return fmt.Errorf("generation.max_questions must be > 0")
	}
	c.Annotator.Engine = strings.ToLower(strings.TrimSpace(c.Annotator.Engine))
	switch c.Annotator.Engine {
	case "":
		c.Annotator.Engine = EngineProse
	case EngineProse, EngineSpacy:
	default:
		return fmt.Errorf("annotator.engine %q is not supported (want %s or %s)", c.Annotator.Engine, EngineProse, EngineSpacy)
	}

	if c.Paths.Data == "" {
		c.Paths.Data = "data"
	}
	defaultPath(&c.Paths.Uploads, c.Paths.Data, "uploads")
	defaultPath(&c.Paths.Transcripts, c.Paths.Data, "transcripts")
	defaultPath(&c.Paths.Summaries, c.Paths.Data, "summaries")
	defaultPath(&c.Paths.Exports, c.Paths.Data, "exports")
	defaultPath(&c.Paths.Store, c.Paths.Data, "lectures.db")
	if c.Paths.Cache == "" {
		c.Paths.Cache = ".cache"
	}

	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = ".cache/bin/whisper.cpp"
	}
	if c.Whisper.ModelPath == "" {
		c.Whisper.ModelPath = ".cache/models/ggml-base.bin"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Annotator.Python == "" {
		c.Annotator.Python = "python3"
	}
	if c.Annotator.Model == "" {
		c.Annotator.Model = "en_core_web_sm"
	}
	if c.Generation.Ratio == 0 {
		c.Generation.Ratio = 0.2
	}
	if c.Generation.MaxFlashcards == 0 {
		c.Generation.MaxFlashcards = 5
	}
	if c.Generation.MaxQuestions == 0 {
		c.Generation.MaxQuestions = 5
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	return nil
}

func defaultPath(dst *string, base, name string) {
	if *dst == "" {
		*dst = filepath.Join(base, name)
	}
}
