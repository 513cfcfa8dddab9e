// Package config manages user-level settings stored at ~/.livetool/config.yaml
// and LIVETOOL_* environment variables: the default working copy, an
// alternate link table, the log level, and colour output. Command-line flags
// bound with BindFlags take precedence over both.
package config
