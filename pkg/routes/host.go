package routes

// Breadcrumb is one entry of the breadcrumb trail.
type Breadcrumb struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Host holds the optional callbacks a host application supplies. A nil
// field disables that feature.
type Host struct {
	// SetPageTitle receives the deepest declared title of the active chain.
	SetPageTitle func(title string)

	// SetBreadcrumbs receives the breadcrumb trail of the active chain.
	SetBreadcrumbs func(items []Breadcrumb)

	// SetNavigate receives the navigate function. It is called once on
	// mount and again whenever the underlying navigator changes.
	SetNavigate func(navigate func(path string))
}
