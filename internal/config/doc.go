// Package config provides local-first configuration for genomechat.
//
// Configuration File Structure:
//
//	.gfm/
//	├── config.json        # Main configuration (committed to git)
//	├── .gitignore         # Ignores logs and sessions
//	├── gfm-chat.log       # Terminal client log
//	└── sessions/          # Saved chat transcripts
//
// A fresh config.json looks like:
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "request_timeout": "2m0s",
//	  "theme": "gfm",
//	  "log_mode": "dev",
//	  "listen_addr": ":8000",
//	  "allowed_origins": ["http://localhost:5173", ...],
//	  "llm_base_url": "",
//	  "llm_model": "qwen3",
//	  "llm_api_key": "",
//	  "temperature": 0.7,
//	  "max_tokens": 2048
//	}
//
// Environment Variable Support:
//
// Values may reference the environment with $VAR or ${VAR}:
//
//	{
//	  "llm_api_key": "${OPENAI_API_KEY}"
//	}
//
// A .env file in the project root is read first; it never replaces
// variables already set in the process. After the file is read these
// variables override it:
//
//	GFM_API_BASE_URL (or VITE_API_BASE_URL)   api_base_url
//	GFM_REQUEST_TIMEOUT                       request_timeout
//	GFM_LOG_MODE                              log_mode
//	GFM_LISTEN_ADDR                           listen_addr
//	GFM_LLM_BASE_URL                          llm_base_url
//	GFM_LLM_MODEL                             llm_model
//	GFM_LLM_API_KEY (or OPENAI_API_KEY)       llm_api_key
//
// Example usage:
//
//	manager := config.NewManager("/path/to/project")
//	if err := manager.Load(); err != nil {
//		log.Fatal(err)
//	}
//	cfg := manager.Get()
//	fmt.Println("Backend:", cfg.APIBaseURL)
//
//	manager.Set("request_timeout", "90s")
package config
