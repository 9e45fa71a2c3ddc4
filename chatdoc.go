// Package chatdoc provides a small browser-based assistant that answers
// questions about a single document using a hosted language model and looks
// up email addresses by CURP in an encrypted directory.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., gemini/, fernet/, sqlite/, pdf/).
package chatdoc
