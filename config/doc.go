// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment.
//
// Files are found by convention (./cmd/<service>/config.yml, ./config.yml,
// .env next to either) unless given explicitly. Every environment variable is
// bound under several dotted spellings so that OPENAI_API_KEY fills
// openai.api_key and DISCORD_WEBHOOK_URL fills discord.webhook_url without any
// per-key registration.
//
// # Usage
//
//	var cfg app.Config
//	if err := config.Load("meetingnotes", &cfg); err != nil {
//		log.Fatal(err)
//	}
package config
