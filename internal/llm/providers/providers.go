// Package providers links every model provider into the llm registry.
package providers

import (
	_ "ledgerlens/internal/llm/claude" // registers "claude"
	_ "ledgerlens/internal/llm/gemini" // registers "gemini"
	_ "ledgerlens/internal/llm/genai"  // registers "genai"
	_ "ledgerlens/internal/llm/openai" // registers "openai"
)
