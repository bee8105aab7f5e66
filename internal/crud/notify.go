package crud

import "sync"

type Variant string

const (
	VariantSuccess     Variant = "success"
	VariantDestructive Variant = "destructive"
)

// Toast is a transient user-visible notification.
type Toast struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// Notifier is a fire-and-forget toast sink.
type Notifier interface {
	Notify(Toast)
}

type NotifierFunc func(Toast)

func (f NotifierFunc) Notify(t Toast) { f(t) }

// Toasts collects the notifications raised while serving one request.
type Toasts struct {
	mu    sync.Mutex
	items []Toast
}

func (t *Toasts) Notify(toast Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, toast)
}

func (t *Toasts) All() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Toast, len(t.items))
	copy(out, t.items)
	return out
}

func successToast(description string) Toast {
	return Toast{Title: "Success", Description: description, Variant: VariantSuccess}
}

func errorToast(description string) Toast {
	return Toast{Title: "Error", Description: description, Variant: VariantDestructive}
}
