package firebird

import (
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/fbsql/fbsql/internal/db"
)

const (
	// DriverName is the database/sql driver registered by
	// github.com/nakagami/firebirdsql.
	DriverName = "firebirdsql"

	// createDriverName is the driver entry that creates the database
	// named in the DSN before connecting to it.
	createDriverName = "firebirdsql_createdb"

	defaultHost = "localhost"
	defaultPort = 3050
)

// ConnParams is the argument set handed to the driver: the translated
// form of a settings record.
type ConnParams struct {
	Database string // file path or alias, taken from NAME
	Host     string
	Port     int
	User     string
	Password string
	Options  map[string]string // query options: charset, role, wire_crypt, ...
}

// Translate maps a settings record onto driver connection parameters.
// NAME is the only required field. The charset defaults to UTF8; OPTIONS
// entries are merged over the defaults, and the explicit USER, PASSWORD,
// HOST and PORT fields win over same-named OPTIONS entries. Pure mapping,
// no I/O: the driver decides whether the result is reachable.
func Translate(cfg *db.Config) (*ConnParams, error) {
	if cfg == nil || cfg.Name == "" {
		return nil, fmt.Errorf("firebird: settings are missing the NAME value: %w", db.ErrMisconfigured)
	}

	p := &ConnParams{
		Database: cfg.Name,
		Options:  map[string]string{"charset": "UTF8"},
	}
	for k, v := range cfg.Options {
		switch k {
		case "user":
			p.User = v
		case "password":
			p.Password = v
		case "host":
			p.Host = v
		case "port":
			port, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("firebird: option port=%q is not a number: %w", v, db.ErrMisconfigured)
			}
			p.Port = port
		default:
			p.Options[k] = v
		}
	}
	if cfg.User != "" {
		p.User = cfg.User
	}
	if cfg.Password != "" {
		p.Password = cfg.Password
	}
	if cfg.Host != "" {
		p.Host = cfg.Host
	}
	if cfg.Port != 0 {
		p.Port = cfg.Port
	}
	return p, nil
}

// DSN renders the driver's user:password@host:port/database?options form.
// Options are emitted in sorted order so equal parameter sets produce
// byte-identical strings.
func (p *ConnParams) DSN() string {
	host := p.Host
	if host == "" {
		host = defaultHost
	}
	addr := host
	if p.Port != 0 && p.Port != defaultPort {
		addr = net.JoinHostPort(host, strconv.Itoa(p.Port))
	}

	// Userinfo escaping, not query escaping: a space must render as
	// %20 here, never as +.
	var b strings.Builder
	b.WriteString(url.UserPassword(p.User, p.Password).String())
	b.WriteByte('@')
	b.WriteString(addr)
	b.WriteByte('/')
	b.WriteString(p.Database)

	if len(p.Options) > 0 {
		keys := make([]string, 0, len(p.Options))
		for k := range p.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i == 0 {
				b.WriteByte('?')
			} else {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(p.Options[k]))
		}
	}
	return b.String()
}

// Redacted is the DSN with the password masked, for logs.
func (p *ConnParams) Redacted() string {
	masked := *p
	if masked.Password != "" {
		masked.Password = "xxxxx"
	}
	return masked.DSN()
}
