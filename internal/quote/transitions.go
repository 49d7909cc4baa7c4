package quote

var transitions = map[Status][]Status{
	StatusDraft:    {StatusSent, StatusExpired},
	StatusSent:     {StatusAccepted, StatusRejected, StatusExpired},
	StatusAccepted: {StatusExpired},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// expiresByTime is true for statuses that lapse once ValidUntil has passed.
func expiresByTime(s Status) bool {
	return s == StatusDraft || s == StatusSent
}
