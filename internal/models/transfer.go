// internal/models/transfer.go

package models

import "time"

// TransferResult reprezentuje wynik sekwencji prób wysyłki pliku.
// Struktura jest niemutowalna — każda próba tworzy nowy wynik, a na
// zewnątrz trafia tylko ostatni (sukces albo ostatnia porażka).
type TransferResult struct {
	Success    bool
	RemotePath string
	Error      string
	Elapsed    time.Duration
	Bytes      int64
	Attempts   int
}
