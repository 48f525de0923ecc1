// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no external dependencies: the inheritance
// resolver and similarity indexer live here because they operate on
// domain records only.
package services
