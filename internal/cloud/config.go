// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, and the clients for the Google Cloud services the
// studio talks to.
//
// Structs:
//   - Storage: Buckets and the history snapshot backend.
//   - BigQueryDataSource: The passport archive table.
//   - History: Capacity and key of the analysis history.
//   - Capture: Ceilings and ffmpeg settings for screen capture.
//   - PromptTemplates: The Go text templates rendered into prompts.
//   - VertexAiLLMModel: Configuration for one Gemini model.
//   - TopicSubscription: Configuration for a single Pub/Sub subscription.
//   - Config: The root of the configuration tree.
package cloud

import (
	"time"

	"google.golang.org/genai"
)

// Logical names of the configured agent models.
const (
	ModelAnalysis = "analysis" // media analysis, JSON output with a response schema
	ModelSearch   = "search"   // reference analysis, Google Search grounding
	ModelCreative = "creative" // studio tools
)

// Logical name of the Pub/Sub subscription carrying analysis requests.
const SubscriptionAnalysisRequests = "AnalysisRequests"

// DefaultSafetySettings turns off content blocking. Creator videos routinely
// contain slang and strong language that would otherwise trip the filters.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// BigQueryDataSource configures the passport archive.
type BigQueryDataSource struct {
	DatasetName    string        `toml:"dataset"`
	PassportTable  string        `toml:"passport_table"`
	ArchiveEnabled bool          `toml:"archive_enabled"`
	ArchiveTimeout time.Duration `toml:"archive_timeout"`
}

// Snapshot store backends.
const (
	HistoryBackendSQLite = "sqlite"
	HistoryBackendGCS    = "gcs"
	HistoryBackendMemory = "memory"
)

// Storage configures buckets and where the history snapshot lives.
type Storage struct {
	HistoryBackend    string `toml:"history_backend"` // sqlite | gcs | memory
	SQLitePath        string `toml:"sqlite_path"`
	HistoryBucket     string `toml:"history_bucket"`
	ExportsBucket     string `toml:"exports_bucket"`
	SignedURLMinutes  int    `toml:"signed_url_minutes"`
	MaxUploadMegabyte int64  `toml:"max_upload_megabytes"`
}

// History configures the analysis history.
type History struct {
	Capacity int    `toml:"capacity"`
	Key      string `toml:"key"`
}

// Capture holds the ceilings applied to every screen capture and the
// settings of the ffmpeg-backed recorder.
type Capture struct {
	Width          int    `toml:"width"`
	Height         int    `toml:"height"`
	FrameRateIdeal int    `toml:"frame_rate_ideal"`
	FrameRateMax   int    `toml:"frame_rate_max"`
	Audio          bool   `toml:"audio"`
	BitsPerSecond  int    `toml:"bits_per_second"`
	TimesliceMs    int    `toml:"timeslice_ms"`
	FFmpegPath     string `toml:"ffmpeg_path"`
	InputFormat    string `toml:"input_format"` // empty selects by operating system
	InputDevice    string `toml:"input_device"`
	AudioDevice    string `toml:"audio_device"`
}

// PromptTemplates are text/template sources. Keys are referenced by the
// prompt builders.
type PromptTemplates struct {
	MediaAnalysis     string `toml:"media_analysis"`
	MetricsInput      string `toml:"metrics_input"`
	OnScreenMetrics   string `toml:"on_screen_metrics"`
	UserMetrics       string `toml:"user_metrics"`
	ReferenceAnalysis string `toml:"reference_analysis"`
	Script            string `toml:"script"`
	Comparison        string `toml:"comparison"`
	InterestMap       string `toml:"interest_map"`
	Ideas             string `toml:"ideas"`
	IdeasWithContext  string `toml:"ideas_with_context"`
	IdeasNoContext    string `toml:"ideas_no_context"`
}

// VertexAiLLMModel represents the configuration for one Gemini model.
type VertexAiLLMModel struct {
	Model              string  `toml:"model"`
	SystemInstructions string  `toml:"system_instructions"`
	Temperature        float32 `toml:"temperature"`
	TopP               float32 `toml:"top_p"`
	TopK               float32 `toml:"top_k"`
	MaxTokens          int32   `toml:"max_tokens"`
	OutputFormat       string  `toml:"output_format"`
	EnableGoogle       bool    `toml:"enable_google"`
	RateLimit          int     `toml:"rate_limit"` // requests per second
	ThinkingBudget     int32   `toml:"thinking_budget"`
}

// TopicSubscription represents the configuration for a Pub/Sub subscription.
type TopicSubscription struct {
	Name string `toml:"name"`
}

// Config is the root of the configuration tree.
type Config struct {
	Application struct {
		Name                      string   `toml:"name"`
		GoogleProjectId           string   `toml:"google_project_id"`
		GoogleLocation            string   `toml:"location"`
		SignerServiceAccountEmail string   `toml:"signer_service_account_email"`
		ListenAddress             string   `toml:"listen_address"`
		AllowedOrigins            []string `toml:"allowed_origins"`
		EmbedOrigin               string   `toml:"embed_origin"`
	} `toml:"application"`
	Storage            Storage                      `toml:"storage"`
	BigQueryDataSource BigQueryDataSource           `toml:"big_query_data_source"`
	History            History                      `toml:"history"`
	Capture            Capture                      `toml:"capture"`
	PromptTemplates    PromptTemplates              `toml:"prompt_templates"`
	TopicSubscriptions map[string]TopicSubscription `toml:"topic_subscriptions"`
	AgentModels        map[string]VertexAiLLMModel  `toml:"agent_models"`
}

// NewConfig returns an empty configuration with its maps allocated.
func NewConfig() *Config {
	return &Config{
		TopicSubscriptions: make(map[string]TopicSubscription),
		AgentModels:        make(map[string]VertexAiLLMModel),
	}
}
