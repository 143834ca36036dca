// Package gemini builds the Portuguese rewrite prompt, calls the Gemini
// API, and parses the three-section reply back into title, excerpt, and
// content. Quota errors are classified separately so the optimizer can
// rotate API keys.
package gemini
