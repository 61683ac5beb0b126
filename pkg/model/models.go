package model

import "strconv"

// All lists every model, in dependency order, for schema creation in tests
// and development databases.
func All() []interface{} {
	return []interface{}{
		&Admin{},
		&Conference{},
		&Survey{},
		&Question{},
		&Attendee{},
		&Response{},
		&PasswordQueue{},
		&PasswordReset{},
	}
}

func uitoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
