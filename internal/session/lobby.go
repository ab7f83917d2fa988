package session

// Lobby is a pre-match gathering of players (spec.md §4.5 lobby lifecycle).
type Lobby struct {
	ID         int32
	Name       string
	Password   string
	Difficulty int
	MaxPlayers int
	HostID     int32
	Started    bool
	Members    []int32 // PlayerIDs, in join order (oldest first)
}

func (l *Lobby) Full() bool { return len(l.Members) >= l.MaxPlayers }

func (l *Lobby) HasPassword() bool { return l.Password != "" }

func (l *Lobby) Has(playerID int32) bool {
	for _, id := range l.Members {
		if id == playerID {
			return true
		}
	}
	return false
}

// remove drops playerID and, if it was the host, reassigns the oldest
// remaining member (spec.md §4.5: "the remaining oldest member becomes
// host"). Returns true if the lobby is now empty and should be destroyed.
func (l *Lobby) remove(playerID int32) (empty bool) {
	for i, id := range l.Members {
		if id == playerID {
			l.Members = append(l.Members[:i], l.Members[i+1:]...)
			break
		}
	}
	if len(l.Members) == 0 {
		return true
	}
	if l.HostID == playerID {
		l.HostID = l.Members[0]
	}
	return false
}
