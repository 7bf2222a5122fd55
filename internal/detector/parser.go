// internal/detector/parser.go

package detector

import (
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"smartPaste/internal/sshconfig"
)

// RawDescriptor to surowy opis połączenia wyciągnięty z wywołania
// klienta ssh, po rozwinięciu aliasów.
type RawDescriptor struct {
	Username string
	Hostname string
	Port     int // 0 oznacza brak jawnego portu
}

// ParseInvocation rozpoznaje czy argv to wywołanie klienta ssh i wyciąga
// z niego opis połączenia. Zwraca (nil, false) gdy polecenie nie jest
// rozpoznawalnym wywołaniem ssh — to nie błąd, tylko "brak dopasowania".
//
// Skan argumentów od lewej do prawej, zgodnie ze składnią opcji ssh:
// -l i -p ustawiają użytkownika/port i konsumują dwa tokeny, -o/-i/-F
// konsumują dwa tokeny bez efektu, inne flagi jeden token. Pierwszy token
// niebędący flagą to cel (user@host albo host); reszta (zdalne polecenie)
// jest ignorowana.
func ParseInvocation(argv []string, aliases *sshconfig.Resolver) (*RawDescriptor, bool) {
	if len(argv) == 0 || filepath.Base(argv[0]) != "ssh" {
		return nil, false
	}

	var username, hostname string
	port := 0
	explicitPort := false

	i := 1
	for i < len(argv) {
		arg := argv[i]

		switch {
		case arg == "-l" && i+1 < len(argv):
			username = argv[i+1]
			i += 2

		case arg == "-p" && i+1 < len(argv):
			if p, err := strconv.Atoi(argv[i+1]); err == nil && p >= 1 && p <= 65535 {
				port = p
				explicitPort = true
			}
			i += 2

		case arg == "-o" || arg == "-i" || arg == "-F":
			i += 2

		case strings.HasPrefix(arg, "-"):
			i++

		default:
			// Cel połączenia — na nim skan się kończy
			hostname = arg
			if at := strings.Index(arg, "@"); at >= 0 {
				username = arg[:at]
				hostname = arg[at+1:]
			}

			if aliases != nil {
				if entry, ok := aliases.Resolve(hostname); ok {
					if entry.Hostname != "" {
						hostname = entry.Hostname
					}
					if entry.User != "" && username == "" {
						username = entry.User
					}
					if entry.Port > 0 && !explicitPort {
						port = entry.Port
					}
				}
			}
			i = len(argv)
		}
	}

	if hostname == "" {
		return nil, false
	}

	if username == "" {
		username = CurrentUsername()
	}

	return &RawDescriptor{
		Username: username,
		Hostname: hostname,
		Port:     port,
	}, true
}

// CurrentUsername zwraca nazwę bieżącego użytkownika systemu.
func CurrentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}
