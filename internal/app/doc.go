// Package app wires application dependencies for the CLI.
//
// It loads Config through viper (defaults, optional config.yaml under the
// home directory, CERTCHAT_* environment variables), builds the zerolog
// logger, and constructs the session, services, relay and file store exposed
// via the Wire struct for commands to use.
package app
