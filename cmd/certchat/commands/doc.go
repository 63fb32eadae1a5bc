// Package commands defines the certchat CLI and wires dependencies for subcommands.
//
// Commands
//
//   - demo         Run an in-process chat session over every signing path
//   - keygen       Generate and export an HMAC session key
//   - sign         Create a session identity and sign a file with ECDSA
//   - verify       Verify a detached signature file of either algorithm
//   - hmac-sign    Sign a file with an HMAC session key
//   - hmac-verify  Verify an HMAC signature file with a session key
//   - inspect      Print a signature file as YAML
//
// # Implementation
//
// Every invocation is one session. The root command loads configuration,
// builds the logger and the dependency graph before any subcommand runs, and
// ends the session afterwards, wiping its keys. Certificates therefore never
// outlive the process that issued them; verify checks ECDSA signature files
// against the embedded certificate key and its expiry only.
package commands
