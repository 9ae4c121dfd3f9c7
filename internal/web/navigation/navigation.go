// Package navigation provides the menu and breadcrumbs of a page.
package navigation

// Sections of the menu.
const (
	SectionPublic  = "public"
	SectionAccount = "account"
)

// Item is one menu entry.
type Item struct {
	Title   string
	URL     string
	Section string
	// Post renders the entry as a form button.
	Post bool
}

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// Menu returns the menu entries for a visitor, depending on whether the
// visitor is signed in.
func Menu(authenticated bool) []Item {
	items := []Item{
		{Title: "Home", URL: "/", Section: SectionPublic},
		{Title: "About", URL: "/about", Section: SectionPublic},
		{Title: "Pricing", URL: "/pricing", Section: SectionPublic},
		{Title: "Contact", URL: "/contact", Section: SectionPublic},
	}

	if authenticated {
		return append(items,
			Item{Title: "Dashboard", URL: "/dashboard", Section: SectionAccount},
			Item{Title: "Profile", URL: "/profile", Section: SectionAccount},
			Item{Title: "Sign out", URL: "/logout", Section: SectionAccount, Post: true},
		)
	}

	return append(items,
		Item{Title: "Sign in", URL: "/login", Section: SectionAccount},
		Item{Title: "Register", URL: "/register", Section: SectionAccount},
	)
}
