package notify

import (
	"github.com/gen2brain/beeep"
	"github.com/grovetools/chime/internal/notify/icon"
)

// BeeepToaster delivers toasts through the desktop notification service.
type BeeepToaster struct{}

// NewToaster creates a toaster for the hub's notifications.
func NewToaster() *BeeepToaster {
	beeep.AppName = "Chime"
	return &BeeepToaster{}
}

func (t *BeeepToaster) Show(title, body string) error {
	return beeep.Notify(title, body, icon.Base())
}
