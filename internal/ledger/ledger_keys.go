package ledger

// Keys are the storage keys of the four ledger documents.
type Keys struct {
	Session string
	Users   string
	Logs    string
	Theme   string
}

func NewKeys(prefix string) Keys {
	return Keys{
		Session: prefix + "user",
		Users:   prefix + "users_list",
		Logs:    prefix + "logs",
		Theme:   prefix + "theme",
	}
}

var DefaultKeys = NewKeys("otta_")
