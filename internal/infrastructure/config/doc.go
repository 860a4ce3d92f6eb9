// Package config handles loading and validating keypad lock configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of task periods, deadlines and hardware pin maps
//   - Default value handling
//
// Credentials are deliberately absent: the code table is compiled into the
// access package and cannot be changed from a config file.
//
// Security Considerations:
//   - Broker and InfluxDB secrets should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/keypad.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Site.Name)
package config
