package model

// ================ Config ================
type ChatModelConfig struct {
	Model       string  `envconfig:"CHAT_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CHAT_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"CHAT_TEMPERATURE" default:"0.2"`
}

type PlannerModelConfig struct {
	Model       string  `envconfig:"PLANNER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"PLANNER_MAX_TOKENS" default:"4000"`
	Temperature float32 `envconfig:"PLANNER_TEMPERATURE" default:"0.3"`
}

type AgentConfig struct {
	MaxPlanningRounds int `envconfig:"AGENT_MAX_PLANNING_ROUNDS" default:"5"`
	MaxRunSteps       int `envconfig:"AGENT_MAX_RUN_STEPS" default:"40"`
}

type ToolsConfig struct {
	NavitiaAPIKey      string `envconfig:"NAVITIA_API_KEY"`
	NavitiaCoverage    string `envconfig:"NAVITIA_COVERAGE" default:"sncf"`
	CalendarFile       string `envconfig:"CALENDAR_FILE"`
	NominatimUserAgent string `envconfig:"NOMINATIM_USER_AGENT" default:"surftrip-planner/1.0"`
	CacheTTL           string `envconfig:"TOOL_CACHE_TTL" default:"30m"`
	HTTPTimeout        string `envconfig:"TOOL_HTTP_TIMEOUT" default:"15s"`
}
