// Package config loads typed configuration from environment variables.
//
// Config structs declare their variables with github.com/caarlos0/env tags;
// Load parses them once per type and caches the result, so packages can ask
// for their own settings without passing a global config around. A .env file
// in the working directory is read on first use via github.com/joho/godotenv.
//
//	var (
//		httpCfg  httpserver.Config
//		redisCfg redis.Config
//	)
//	config.MustLoad(&httpCfg)
//	config.MustLoad(&redisCfg)
//
// Tests that change the environment call Reset between loads.
package config
