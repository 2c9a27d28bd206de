// File: internal/guard/allowlist.go
package guard

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// workflowSegments is the fixed catalog of path segments an on-workflow
// page may start with. A booking flow that redirects between login,
// seat-map and payment hosts stays inside this vocabulary.
var workflowSegments = []string{
	"login",
	"signin",
	"auth",
	"member",
	"seat",
	"reserve",
	"booking",
	"checkout",
	"order",
	"payment",
	"confirm",
	"captcha",
}

// Allowlist is the deduplicated ordered set of URL-matching rules derived
// from the target. Built exactly once per run; read-only thereafter.
type Allowlist struct {
	entries []string
	// hosts observed while building, used to optionally constrain bare
	// segment matches to the target's site.
	hosts []string
}

// BuildAllowlist derives the allowlist from the target URL. Pure function
// of the target, no network access, no side effects. The raw target is
// always the first entry; the origin and origin-qualified segments follow
// when the target parses; the bare segments close the list as fallback
// matches for origin changes mid-flow.
func BuildAllowlist(target string) *Allowlist {
	a := &Allowlist{}
	seen := make(map[string]struct{})
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		a.entries = append(a.entries, s)
	}

	add(target)

	if u, err := url.Parse(strings.TrimSpace(target)); err == nil && u.Scheme != "" && u.Host != "" {
		origin := u.Scheme + "://" + u.Host
		add(origin)
		for _, seg := range workflowSegments {
			add(origin + "/" + seg)
		}
		a.hosts = append(a.hosts, strings.ToLower(u.Host))
	}

	for _, seg := range workflowSegments {
		add(seg)
	}
	return a
}

// Entries returns the ordered rule set, for matching and for embedding in
// escalation prompts as "expected URL" hints.
func (a *Allowlist) Entries() []string {
	out := make([]string, len(a.entries))
	copy(out, a.entries)
	return out
}

// Matches reports whether the given page URL is on-workflow. The URL is
// normalized to lowercase first. Entry semantics:
//   - an entry that parses as a full URL requires same origin and a path
//     prefix match;
//   - a bare segment entry requires the current path to start with that
//     segment, constrained to the target's site when one is known;
//   - anything else is a literal string prefix of the whole URL.
//
// If the page URL does not parse at all, every entry degrades to a plain
// string-prefix test.
func (a *Allowlist) Matches(pageURL string) bool {
	lower := strings.ToLower(strings.TrimSpace(pageURL))
	if lower == "" {
		return false
	}

	u, err := url.Parse(lower)
	if err != nil || u.Host == "" {
		for _, entry := range a.entries {
			if strings.HasPrefix(lower, entry) {
				return true
			}
		}
		return false
	}

	path := strings.TrimPrefix(u.Path, "/")
	for _, entry := range a.entries {
		if eu, perr := url.Parse(entry); perr == nil && eu.Scheme != "" && eu.Host != "" {
			if eu.Scheme == u.Scheme && eu.Host == u.Host &&
				strings.HasPrefix(u.Path, eu.Path) {
				return true
			}
			continue
		}
		if isBareSegment(entry) {
			if strings.HasPrefix(path, entry) && a.sameSite(u.Host) {
				return true
			}
			continue
		}
		if strings.HasPrefix(lower, entry) {
			return true
		}
	}
	return false
}

// isBareSegment reports whether the entry is one of the catalog-style
// path segments rather than a URL or literal prefix.
func isBareSegment(entry string) bool {
	return !strings.ContainsAny(entry, "/:")
}

// sameSite reports whether host belongs to the same registrable domain as
// any host the allowlist was built from. With no known hosts there is
// nothing to constrain against and the segment match stands on its own.
func (a *Allowlist) sameSite(host string) bool {
	if len(a.hosts) == 0 {
		return true
	}
	for _, known := range a.hosts {
		if host == known {
			return true
		}
		hd, herr := publicsuffix.EffectiveTLDPlusOne(stripPort(host))
		kd, kerr := publicsuffix.EffectiveTLDPlusOne(stripPort(known))
		if herr == nil && kerr == nil && hd == kd {
			return true
		}
	}
	return false
}

func stripPort(host string) string {
	if i := strings.LastIndex(host, ":"); i > 0 && !strings.Contains(host[i+1:], "]") {
		return host[:i]
	}
	return host
}
