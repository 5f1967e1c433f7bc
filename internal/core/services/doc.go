// Package services implements the driving port interfaces.
// Services contain the editing engine: the editor and its history, the
// autosave controller, sessions, the export pipeline and settings. They
// orchestrate calls to driven ports (adapters) and never block edits on I/O.
package services
