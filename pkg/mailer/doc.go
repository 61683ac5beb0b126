// Package mailer renders and sends transactional email.
//
// Templates are Markdown files with text/template placeholders; each one is
// sent as a plain text part plus an HTML alternative produced by goldmark.
// The smtp provider uses go-mail, the log provider writes to the application
// log.
package mailer
