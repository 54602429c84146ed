package models

// SystemAgentItem is the provider/model pair serving an internal task.
type SystemAgentItem struct {
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

// SystemAgentConfig selects which model serves each internal task.
type SystemAgentConfig struct {
	Function    SystemAgentItem `json:"function"`
	Translation SystemAgentItem `json:"translation"`
}
