package notifier

// Notifier delivers one formatted message to a channel. Implementations
// exist for Telegram and SMTP email; the scanner fans out to all of them
// and treats each failure as non-fatal.
type Notifier interface {
	Send(text string) error
	Name() string
}
