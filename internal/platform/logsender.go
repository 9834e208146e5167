package platform

import "github.com/rs/zerolog/log"

// LogSender writes every injected key to the log instead of the OS. It is the
// dry-run backend used when no input driver is configured, so routines can be
// rehearsed against a recording without touching a live window.
type LogSender struct{}

var _ KeySender = LogSender{}

func NewLogSender() LogSender {
	return LogSender{}
}

func (LogSender) Send(key Key) error {
	log.Info().Str("key", key.String()).Msg("send")
	return nil
}

func (LogSender) SendDown(key Key) error {
	log.Info().Str("key", key.String()).Msg("send down")
	return nil
}

func (LogSender) SendUp(key Key) error {
	log.Info().Str("key", key.String()).Msg("send up")
	return nil
}

func (LogSender) SendClickToFocus() error {
	log.Info().Msg("click to focus")
	return nil
}
