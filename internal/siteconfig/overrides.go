package siteconfig

// Overrides are the site fields settable from the command line. Empty
// values leave the document untouched.
type Overrides struct {
	Name         string
	Description  string
	PrimaryColor string
	AccentColor  string
	Favicon      string
	Logo         string
}

// Apply writes the non-empty overrides into doc. Colors go to both
// theme and branding.colors so the two stay in sync.
func (o Overrides) Apply(doc map[string]any) {
	if o.Name != "" {
		object(doc, "metadata")["name"] = o.Name
	}
	if o.Description != "" {
		object(doc, "metadata")["description"] = o.Description
	}
	if o.PrimaryColor != "" {
		object(doc, "theme")["primaryColor"] = o.PrimaryColor
		object(object(doc, "branding"), "colors")["primary"] = o.PrimaryColor
	}
	if o.AccentColor != "" {
		object(doc, "theme")["accentColor"] = o.AccentColor
		object(object(doc, "branding"), "colors")["accent"] = o.AccentColor
	}
	if o.Favicon != "" {
		object(doc, "branding")["favicon"] = o.Favicon
	}
	if o.Logo != "" {
		object(object(doc, "branding"), "logo")["src"] = o.Logo
	}
}
