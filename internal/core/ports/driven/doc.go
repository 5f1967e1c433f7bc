// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - BuildStore: Build persistence (SQLite, memory or the remote builds API)
//   - TemplateCatalog: Template and section renderer registry
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - ExportRenderer: Static output (PDF). Without it only layouts can be produced.
//   - SeedSource: Externally generated resume content.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driven
