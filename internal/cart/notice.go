package cart

import "github.com/five82/nutmunch/internal/storefront"

// NoticeKind classifies a user-visible cart notice.
type NoticeKind int

const (
	// NoticeAdded confirms an optimistic add.
	NoticeAdded NoticeKind = iota
	// NoticeUpdated confirms an optimistic quantity change.
	NoticeUpdated
	// NoticeRemoved confirms an optimistic removal.
	NoticeRemoved
	// NoticeFailed reports a mutation that was rolled back.
	NoticeFailed
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeAdded:
		return "added"
	case NoticeUpdated:
		return "updated"
	case NoticeRemoved:
		return "removed"
	case NoticeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Notice is a transient, dismissible message for the shopper.
type Notice struct {
	Kind      NoticeKind
	ProductID storefront.ProductID
	Message   string
}

// Notifier receives notices. Implementations must not block.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}
