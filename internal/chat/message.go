package chat

import (
	"fmt"
	"time"
)

const timeLayout = "15:04"

// ChatLine formats a relayed chat message: "[HH:MM] [nick]: text".
func ChatLine(t time.Time, nick, text string) string {
	return fmt.Sprintf("[%s] [%s]: %s", t.Format(timeLayout), nick, text)
}

// NoticeLine formats a server notice: "[HH:MM] Server: text".
func NoticeLine(t time.Time, text string) string {
	return fmt.Sprintf("[%s] Server: %s", t.Format(timeLayout), text)
}

// NickLine is the protocol line a client sends to announce its nickname.
func NickLine(nick string) string {
	return "/nick " + nick
}
