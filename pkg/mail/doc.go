// Package mail renders and delivers the notification emails. The Sender
// speaks authenticated STARTTLS SMTP via gomail; the Renderer turns named
// value maps into HTML bodies from embedded templates.
package mail
