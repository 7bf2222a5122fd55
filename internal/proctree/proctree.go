// internal/proctree/proctree.go

package proctree

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/process"

	"smartPaste/internal/apperr"
	"smartPaste/internal/models"
)

// DefaultMaxDepth ogranicza przejście po drzewie procesów — chroni przed
// anomaliami typu cykl rodzica.
const DefaultMaxDepth = 10

// Snapshot dostarcza punktowe migawki procesów. Wąski interfejs pozwala
// testom podstawić sztuczną tablicę procesów.
type Snapshot interface {
	Process(pid int32) (models.ProcessInfo, error)
	Environ(pid int32) ([]string, error)
}

type sysSnapshot struct{}

// NewSnapshot zwraca migawkę opartą o systemową tablicę procesów.
func NewSnapshot() Snapshot {
	return sysSnapshot{}
}

// Process pobiera świeżą migawkę pojedynczego procesu. Nazwa i argv są
// best-effort: odmowa dostępu do nich nie unieważnia samego wpisu, dzięki
// czemu przejście po drzewie może ominąć niedostępny skok i iść dalej.
func (sysSnapshot) Process(pid int32) (models.ProcessInfo, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return models.ProcessInfo{}, apperr.New(apperr.ProcessUnavailable,
			fmt.Sprintf("process %d unavailable", pid), err)
	}

	info := models.ProcessInfo{PID: pid}
	if name, err := p.Name(); err == nil {
		info.Name = name
	}
	if argv, err := p.CmdlineSlice(); err == nil {
		info.Argv = argv
	}
	if ppid, err := p.Ppid(); err == nil {
		info.ParentPID = ppid
	}

	return info, nil
}

// Environ zwraca zmienne środowiskowe procesu.
func (sysSnapshot) Environ(pid int32) ([]string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return nil, apperr.New(apperr.ProcessUnavailable,
			fmt.Sprintf("process %d unavailable", pid), err)
	}
	env, err := p.Environ()
	if err != nil {
		return nil, apperr.New(apperr.ProcessUnavailable,
			fmt.Sprintf("environment of process %d unavailable", pid), err)
	}
	return env, nil
}

// Walker przechodzi łańcuch przodków procesu.
type Walker struct {
	snap     Snapshot
	maxDepth int
}

// NewWalker tworzy walker z podaną migawką i limitem głębokości.
func NewWalker(snap Snapshot, maxDepth int) *Walker {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Walker{snap: snap, maxDepth: maxDepth}
}

// Ancestors zwraca uporządkowany łańcuch procesów zaczynając od pid,
// gdzie rodzic każdego wpisu jest wpisem następnym. Każdy krok pobiera
// świeżą migawkę — bez cache i bez ponowień, bo migawki są punktowe.
// Niedostępny proces kończy przejście; zwracane jest to, co zebrano.
func (w *Walker) Ancestors(pid int32) []models.ProcessInfo {
	var chain []models.ProcessInfo

	cur := pid
	for depth := 0; depth < w.maxDepth; depth++ {
		info, err := w.snap.Process(cur)
		if err != nil {
			break
		}
		chain = append(chain, info)
		if !info.HasParent() {
			break
		}
		cur = info.ParentPID
	}

	return chain
}
