// Package seed loads externally generated resume content from JSON or YAML
// files and watches those files for changes.
//
// A seed file is either
//
//	{"title": "...", "template": "...", "sections": {"experience": [...]}}
//
// or a bare object whose keys are section names.
package seed
