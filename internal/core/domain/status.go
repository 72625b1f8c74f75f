package domain

// Status represents the stored lifecycle status of a Peminjaman
type Status string

const (
	StatusMenunggu     Status = "menunggu"
	StatusDisetujui    Status = "disetujui"
	StatusDipinjam     Status = "dipinjam"
	StatusDitolak      Status = "ditolak"
	StatusDikembalikan Status = "dikembalikan"
)

// transitions defines the only legal edges of the loan lifecycle.
// "terlambat" (overdue) is a derived display state, never stored.
var transitions = map[Status][]Status{
	StatusMenunggu:  {StatusDisetujui, StatusDitolak},
	StatusDisetujui: {StatusDipinjam},
	StatusDipinjam:  {StatusDikembalikan},
}

// CanTransitionTo reports whether moving from s to next is a legal edge
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Valid reports whether s is one of the five stored statuses
func (s Status) Valid() bool {
	switch s {
	case StatusMenunggu, StatusDisetujui, StatusDipinjam, StatusDitolak, StatusDikembalikan:
		return true
	}
	return false
}

// Role represents user role in the system
type Role string

const (
	RoleAdmin    Role = "admin"
	RolePetugas  Role = "petugas"
	RolePeminjam Role = "peminjam"
)
