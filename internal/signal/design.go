package signal

import "strings"

// Concept is a suggested design direction for a lead. Mockup is a single
// glyph the dashboard renders next to the notes.
type Concept struct {
	Mockup string
	Notes  string
}

var conceptRules = []struct {
	any []string
	c   Concept
}{
	{[]string{"portfolio", "photography"}, Concept{"📸", "Minimal gallery grid with lightbox, about page and contact form"}},
	{[]string{"shop", "store", "ecommerce"}, Concept{"🛒", "Product grid with cart, checkout flow and order tracking"}},
	{[]string{"saas", "landing page", "startup"}, Concept{"🚀", "Hero section, feature highlights and tiered pricing table"}},
	{[]string{"restaurant", "food"}, Concept{"🍽️", "Menu pages, opening hours, photo strip and table reservations"}},
	{[]string{"real estate", "property"}, Concept{"🏠", "Listings grid with map search, filters and an inquiry form"}},
	{[]string{"business", "company"}, Concept{"🏢", "Corporate layout with services, team section and contact details"}},
	{[]string{"personal", "blog"}, Concept{"✨", "Personal brand page with about, article list and social links"}},
}

var defaultConcept = Concept{"💻", "Clean responsive layout tailored to the request"}

// DesignConcept picks the first matching category for text; order matters,
// so a "portfolio shop" gets the gallery treatment, not the cart.
func DesignConcept(text string) Concept {
	hay := strings.ToLower(text)
	for _, r := range conceptRules {
		if containsAny(hay, r.any) {
			return r.c
		}
	}
	return defaultConcept
}
