// Package config provides configuration management for the toolkit.
//
// It loads a .env file with godotenv and then reads everything through Viper,
// so values can come from the file or from the process environment.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Storage: driver, endpoint, credentials, region and timeouts
//   - Log: Logging level and format
//   - Database: optional MySQL connection for the audit journal
//
// Keys map to upper-case variables with dots replaced by underscores
// (storage.region is STORAGE_REGION). Credential fields also accept the
// conventional names aws_access_key_id, aws_secret_access_key,
// aws_session_token and region, in either case.
//
// # Usage
//
//	cfg, err := config.Load(".env")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Region)
package config
