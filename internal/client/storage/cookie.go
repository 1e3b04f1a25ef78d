package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/dbx"
)

type SameSite string

const (
	SameSiteLax    SameSite = "Lax"
	SameSiteStrict SameSite = "Strict"
	SameSiteNone   SameSite = "None"
)

// Cookie is a stored cookie.
//
// Domain follows the Set-Cookie attribute: empty means host-only, in which
// case Host names the host that set it. A leading dot is accepted and ignored.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Host     string
	Path     string
	SameSite SameSite
	Expires  time.Time // zero: session cookie
}

// HostOnly reports whether the cookie is bound to its exact host.
func (c Cookie) HostOnly() bool {
	return c.Domain == ""
}

// CookieDomain returns the Domain attribute that makes a cookie visible to
// every sibling of host: "." plus the last two labels. Bare hostnames and IP
// addresses get no domain attribute.
func CookieDomain(host string) string {
	host = normalizeHost(host)
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return ""
	}
	return "." + strings.Join(labels[len(labels)-2:], ".")
}

// DomainMatch reports whether a domain cookie for domain is visible to host.
func DomainMatch(host, domain string) bool {
	host = normalizeHost(host)
	domain = strings.TrimPrefix(normalizeHost(domain), ".")
	if domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func normalizeHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if hp, _, err := net.SplitHostPort(h); err == nil {
		h = hp
	}
	return strings.Trim(h, "[]")
}

type CookieRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewCookieRepository(db dbx.DBTX) *CookieRepository {
	return &CookieRepository{db: db, now: time.Now}
}

// Set stores c, replacing a cookie with the same name and scope.
func (r *CookieRepository) Set(ctx context.Context, c Cookie) error {
	hostOnly := c.HostOnly()
	domain := strings.TrimPrefix(normalizeHost(c.Domain), ".")
	if hostOnly {
		domain = normalizeHost(c.Host)
	}
	if domain == "" {
		return fmt.Errorf("cookie %s: no domain or host", c.Name)
	}

	path := c.Path
	if path == "" {
		path = "/"
	}
	sameSite := c.SameSite
	if sameSite == "" {
		sameSite = SameSiteLax
	}

	var expires sql.NullInt64
	if !c.Expires.IsZero() {
		expires = sql.NullInt64{Int64: c.Expires.UnixMilli(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cookies (name, value, domain, host_only, path, same_site, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, domain, host_only) DO UPDATE SET
			value = excluded.value,
			path = excluded.path,
			same_site = excluded.same_site,
			expires_at = excluded.expires_at
	`, c.Name, c.Value, domain, hostOnly, path, string(sameSite), expires)
	if err != nil {
		return fmt.Errorf("failed to set cookie[%s]: %w", c.Name, err)
	}
	return nil
}

// Get returns the cookie name visible to host, or nil if there is none.
// When several match, the most specific domain wins.
func (r *CookieRepository) Get(ctx context.Context, name, host string) (*Cookie, error) {
	host = normalizeHost(host)

	rows, err := r.db.QueryContext(ctx, `
		SELECT value, domain, host_only, path, same_site, expires_at
		FROM cookies
		WHERE name = ? AND (expires_at IS NULL OR expires_at > ?)
	`, name, r.now().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to get cookie[%s]: %w", name, err)
	}
	defer rows.Close()

	var best *Cookie
	bestLen := -1
	for rows.Next() {
		var (
			c        Cookie
			domain   string
			hostOnly bool
			sameSite string
			expires  sql.NullInt64
		)
		if err := rows.Scan(&c.Value, &domain, &hostOnly, &c.Path, &sameSite, &expires); err != nil {
			return nil, fmt.Errorf("failed to scan cookie row: %w", err)
		}

		if hostOnly {
			if domain != host {
				continue
			}
			c.Host = domain
		} else {
			if !DomainMatch(host, domain) {
				continue
			}
			c.Domain = "." + domain
		}

		// Host-only beats a domain cookie of equal length.
		specificity := len(domain) * 2
		if hostOnly {
			specificity++
		}
		if specificity <= bestLen {
			continue
		}

		c.Name = name
		c.SameSite = SameSite(sameSite)
		if expires.Valid {
			c.Expires = time.UnixMilli(expires.Int64)
		}
		best, bestLen = &c, specificity
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cookie rows: %w", err)
	}

	return best, nil
}

// Delete removes the cookie name stored for domain. A leading dot selects the
// domain cookie, a bare host the host-only cookie. Deleting a missing cookie
// is not an error.
func (r *CookieRepository) Delete(ctx context.Context, name, domain string) error {
	hostOnly := !strings.HasPrefix(strings.TrimSpace(domain), ".")
	d := strings.TrimPrefix(normalizeHost(domain), ".")

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cookies WHERE name = ? AND domain = ? AND host_only = ?`,
		name, d, hostOnly)
	if err != nil {
		return fmt.Errorf("failed to delete cookie[%s]: %w", name, err)
	}
	return nil
}
