package services

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
)

// personalDomains are consumer mail providers that never identify an
// organisation.
var personalDomains = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
	"outlook.com":    {},
	"hotmail.com":    {},
	"live.com":       {},
	"yahoo.com":      {},
	"icloud.com":     {},
	"me.com":         {},
	"proton.me":      {},
	"protonmail.com": {},
}

// Title patterns, tried in order. Meeting titles commonly follow
// "Acme + Custodia: kickoff", "Call with Acme" or "Acme - weekly".
var (
	titleJoint    = regexp.MustCompile(`^\s*([^+:]+?)\s*\+\s*[^:]+:\s*.+$`)
	titleCallWith = regexp.MustCompile(`(?i)^\s*call with\s+(.+?)\s*$`)
	titleDashed   = regexp.MustCompile(`^\s*([^-]+?)\s+-\s+.+$`)
)

// Classifier infers a customer name and meeting type from a meeting's
// title and attendees. It is a best-effort annotation: it never errors
// and never affects sync correctness.
type Classifier struct {
	internalDomains map[string]struct{}
}

// NewClassifier creates a classifier. internalDomains lists the
// operator's own e-mail domains (e.g. "custodia-labs.com"); attendees
// on those domains never count as external.
func NewClassifier(internalDomains []string) *Classifier {
	m := make(map[string]struct{}, len(internalDomains))
	for _, d := range internalDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			m[d] = struct{}{}
		}
	}
	return &Classifier{internalDomains: m}
}

// Classify infers the external organisation from the title, or failing
// that from the most frequent external e-mail domain among attendees.
// When nothing external is found the meeting is internal; Attempted is
// always true on return.
func (c *Classifier) Classify(title string, people []domain.Attendee) domain.Classification {
	if customer := customerFromTitle(title); customer != "" {
		return domain.Classification{
			Customer:  customer,
			Type:      domain.MeetingExternal,
			Attempted: true,
		}
	}

	if customer := c.customerFromAttendees(people); customer != "" {
		return domain.Classification{
			Customer:  customer,
			Type:      domain.MeetingExternal,
			Attempted: true,
		}
	}

	return domain.Classification{
		Type:      domain.MeetingInternal,
		Attempted: true,
	}
}

// customerFromTitle applies the title patterns in order.
func customerFromTitle(title string) string {
	if m := titleJoint.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := titleCallWith.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := titleDashed.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// customerFromAttendees picks the most frequent external e-mail domain
// and renders its first label as an organisation name.
func (c *Classifier) customerFromAttendees(people []domain.Attendee) string {
	counts := make(map[string]int)
	var best string
	for _, p := range people {
		domainPart := emailDomain(p.Email)
		if domainPart == "" || c.isInternal(domainPart) {
			continue
		}
		counts[domainPart]++
		if best == "" || counts[domainPart] > counts[best] {
			best = domainPart
		}
	}
	if best == "" {
		return ""
	}
	return orgFromDomain(best)
}

func (c *Classifier) isInternal(domainPart string) bool {
	if _, ok := personalDomains[domainPart]; ok {
		return true
	}
	_, ok := c.internalDomains[domainPart]
	return ok
}

// emailDomain returns the lowercased domain of an address, or "".
func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// orgFromDomain turns "acme.com" into "Acme".
func orgFromDomain(domainPart string) string {
	label, _, _ := strings.Cut(domainPart, ".")
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
