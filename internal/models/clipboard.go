// internal/models/clipboard.go

package models

// ClipboardKind klasyfikuje zawartość schowka.
type ClipboardKind int

const (
	ClipboardEmpty ClipboardKind = iota
	ClipboardText
	ClipboardImage
)

// ClipboardContent to jawny wariant zawartości schowka. Zamiast zgadywać
// kształt danych w każdym miejscu użycia, klasyfikacja odbywa się raz
// przy odczycie.
type ClipboardContent struct {
	Kind      ClipboardKind
	Text      string // wypełnione dla ClipboardText
	ImagePath string // lokalna ścieżka pliku dla ClipboardImage
}

// IsEmpty sprawdza czy schowek nie zawiera obsługiwanej zawartości.
func (c ClipboardContent) IsEmpty() bool {
	return c.Kind == ClipboardEmpty
}

// PasteJob to przejściowa jednostka pracy niesiona od kontrolera wklejania
// do ujścia. Tworzona per sygnał wklejenia, porzucana po zapisie.
type PasteJob struct {
	Content string // tekst albo ścieżka lokalnego pliku
	IsImage bool
	Context ConnectionContext
}
