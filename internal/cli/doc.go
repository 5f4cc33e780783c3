// Package cli implements the wastewise command-line interface.
//
// Each Cobra command parses its flags, loads the config, builds an API
// client, and hands off to a command function that takes its writer and
// backend as arguments so it can be tested against an httptest server.
//
// # Command Structure
//
//	wastewise                    - Dashboard on a terminal, help otherwise
//	wastewise dashboard          - Full-screen live dashboard
//	wastewise stats [--history]  - Current and archived bin statistics
//	wastewise alerts list        - Active alerts
//	wastewise alerts dismiss <id>
//	wastewise alerts watch       - Print new alerts until interrupted
//	wastewise settings show      - Saved notification settings
//	wastewise settings set       - Change channels and thresholds
//	wastewise reset-bin          - Mark the bin as emptied
//	wastewise init               - Write .wastewise.yaml
//
// # Flag Handling
//
// Global flags (--config, --api-url, --verbose, --json, --no-color) are
// defined on the root command and available to all subcommands. With
// --json every command writes a JSONEnvelope; errors carry a machine code
// from mapErrorCode.
package cli
