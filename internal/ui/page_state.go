package ui

import (
	"time"
)

// PageState holds the transient status line shared by pages.
// Embed it next to BaseTableModel.
type PageState struct {
	StatusMsg    string
	StatusExpiry time.Time
}

// SetStatus sets a status message that expires after duration; 0 keeps it
func (p *PageState) SetStatus(msg string, duration time.Duration) {
	p.StatusMsg = msg
	if duration > 0 {
		p.StatusExpiry = time.Now().Add(duration)
	} else {
		p.StatusExpiry = time.Time{}
	}
}

// ClearExpiredStatus clears the status message once it has expired
func (p *PageState) ClearExpiredStatus() {
	if !p.StatusExpiry.IsZero() && time.Now().After(p.StatusExpiry) {
		p.StatusMsg = ""
		p.StatusExpiry = time.Time{}
	}
}

// HasStatus returns true if there is a status message
func (p *PageState) HasStatus() bool {
	return p.StatusMsg != ""
}
