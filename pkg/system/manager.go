package system

// Manager identifies a package manager.
type Manager string

const (
	ManagerApt    Manager = "apt"
	ManagerDnf    Manager = "dnf"
	ManagerPacman Manager = "pacman"
	ManagerBrew   Manager = "brew"
	ManagerNpm    Manager = "npm"
)

// Managers lists the supported package managers in preference order.
var Managers = []Manager{ManagerApt, ManagerDnf, ManagerPacman, ManagerBrew, ManagerNpm}

// Binary returns the executable that drives the manager.
func (m Manager) Binary() string {
	switch m {
	case ManagerApt:
		return "apt-get"
	default:
		return string(m)
	}
}

// System reports whether the manager installs system-wide and needs root.
func (m Manager) System() bool {
	switch m {
	case ManagerApt, ManagerDnf, ManagerPacman:
		return true
	default:
		return false
	}
}

// Valid reports whether m is a known manager.
func (m Manager) Valid() bool {
	for _, known := range Managers {
		if m == known {
			return true
		}
	}
	return false
}

// Available reports whether the manager's binary is on PATH.
func (m Manager) Available(exec CommandExecutor) bool {
	_, err := exec.LookPath(m.Binary())
	return err == nil
}
