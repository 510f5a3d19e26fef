// Package commands defines the walletlink CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - accounts     List accounts visible to this client
//   - currencies   List currencies the host supports
//   - request      Ask the user to pick one account
//   - receive      Verify and print a fresh receive address
//   - sign         Ask the host to sign a transaction
//   - broadcast    Broadcast a signed transaction
//   - estimate     Estimate fees for a transaction
//   - sync         Resynchronize an account with its network
//   - exchange     Run a partner exchange (init, complete)
//   - device       Inspect the hardware device (info, apps)
//
// # Implementation
//
// The root command loads configuration, builds the logger and tracer, and
// constructs a wallet client over a WebSocket transport before any
// subcommand runs. Each subcommand dials the configured host, performs one
// operation, prints the result, and disconnects. Operations the client
// declares but does not serve yet (estimate, sync, exchange, device) report
// that and exit nonzero.
package commands
