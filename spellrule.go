// Package spellrule provides a service that extracts text from web pages using
// per-site selector rules and checks the extracted text for spelling errors.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., htmlquery/, goquery/, yandex/, rod/).
package spellrule
