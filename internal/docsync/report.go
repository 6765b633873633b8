package docsync

import (
	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/lito/internal/util/sets"
)

// Page is one synchronized document.
type Page struct {
	Path        string // slash-separated, relative to the content root
	Fingerprint string
	Injection   Injection
}

// Report summarizes a Sync run.
type Report struct {
	Pages    []Page
	Warnings []string
	// LandingReplaced is set when a user index displaced the template landing page.
	LandingReplaced bool
}

func fingerprint(fm, body []byte) string {
	return mdfp.CalculateFingerprintFromParts(string(fm), string(body))
}

// Fingerprints returns path -> fingerprint.
func (r *Report) Fingerprints() map[string]string {
	out := make(map[string]string, len(r.Pages))
	for _, p := range r.Pages {
		out[p.Path] = p.Fingerprint
	}
	return out
}

// Changed lists pages added, modified, or removed relative to prev, sorted.
// A nil prev reports every page.
func (r *Report) Changed(prev map[string]string) []string {
	cur := r.Fingerprints()
	changed := sets.New[string]()
	for p, fp := range cur {
		if old, ok := prev[p]; !ok || old != fp {
			changed.Insert(p)
		}
	}
	for p := range prev {
		if _, ok := cur[p]; !ok {
			changed.Insert(p)
		}
	}
	if len(changed) == 0 {
		return nil
	}
	return sets.Sorted(changed)
}
