// Package templates maps (template, section type) pairs to renderers.
//
// A template declares which section types it supports. Section data never
// depends on the template: switching templates only changes which renderer
// draws each section, and types a template does not support are drawn by
// the generic renderer.
package templates
