// Package view holds the texts the bot answers with.
package view

import (
	"fmt"
	"time"
)

const StartMessage = `I watch prices of the items you add and post to the channel whenever one changes.

/list_tracked - show tracked items with their last known prices
/add <url> - start tracking a product page
/remove <url> - stop tracking a product page
/time_until_next_update - when unchanged prices are posted again`

const (
	EmptyList     = "You have not entered any item yet"
	AddUsage      = "Usage: /add <url>"
	RemoveUsage   = "Usage: /remove <url>"
	addedTmpl     = "%s successfully added"
	removedTmpl   = "%s successfully removed"
	VerySoon      = "very soon..."
	NoItemsToWait = "as soon as you will add items"
	countdownTmpl = "%02d:%02d:%02d left to next update or as soon as any price will be changed"
)

// soonThreshold is the remainder, in whole seconds, reported as VerySoon.
const soonThreshold = 5

func Added(name string) string {
	return fmt.Sprintf(addedTmpl, name)
}

func Removed(name string) string {
	return fmt.Sprintf(removedTmpl, name)
}

// NextUpdate renders the countdown to the next scheduled announcement. ok is
// false when nothing is tracked.
func NextUpdate(left time.Duration, ok bool) string {
	if !ok {
		return NoItemsToWait
	}

	secs := int64(left / time.Second)
	if secs <= soonThreshold {
		return VerySoon
	}

	hours, rem := secs/3600, secs%3600

	return fmt.Sprintf(countdownTmpl, hours, rem/60, rem%60)
}
