// internal/models/process.go

package models

// ProcessInfo to punktowa migawka pojedynczego procesu. Pobierana świeżo
// przy każdym zapytaniu — przodkowie mogą się zmieniać między odczytami,
// więc nigdy nie jest cachowana w trakcie przejścia po drzewie.
type ProcessInfo struct {
	PID       int32
	Name      string
	Argv      []string
	ParentPID int32
}

// HasParent sprawdza czy proces wskazuje sensownego rodzica. Proces
// podający samego siebie jako rodzica kończy przejście po drzewie.
func (p ProcessInfo) HasParent() bool {
	return p.ParentPID > 0 && p.ParentPID != p.PID
}
