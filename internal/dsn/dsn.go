// Package dsn builds libpq key/value connection strings.
package dsn

import (
	"strconv"
	"strings"
)

// Params are the connection parameters grimo sets. Empty optional values
// are left out of the string.
type Params struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	ApplicationName string
}

// String renders p as a key/value connection string. Values are quoted when
// they are empty or contain spaces, quotes or backslashes.
func (p Params) String() string {
	var parts []string
	add := func(key, value string) {
		parts = append(parts, key+"="+Quote(value))
	}

	add("host", p.Host)
	add("port", strconv.Itoa(p.Port))
	add("dbname", p.Database)
	add("user", p.User)
	if p.Password != "" {
		add("password", p.Password)
	}
	if p.SSLMode != "" {
		add("sslmode", p.SSLMode)
	}
	if p.ApplicationName != "" {
		add("application_name", p.ApplicationName)
	}
	return strings.Join(parts, " ")
}

// Quote escapes a single connection string value.
func Quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
