package siteconfig

import "sync"

// Default returns the shipped Kilobite configuration. It is built once per
// process and the same *Site is returned on every call.
var Default = sync.OnceValue(func() *Site {
	return MustNew(DefaultConfig())
})

// DefaultConfig returns the literal fields behind Default. Callers get a fresh
// value they may edit before passing it to New.
func DefaultConfig() Config {
	return Config{
		Title:       "Kilobite",
		Subtitle:    String("Small bites of software and machine learning"),
		Description: "Kilobite is a blog about software engineering, machine learning and the tools in between, served in small bites.",
		Image: &Image{
			Src: "/kilobite-preview.jpg",
			Alt: String("Kilobite - small bites of software and machine learning"),
		},
		HeaderNavLinks: []Link{
			{Text: "Home", Href: "/"},
			{Text: "Blog", Href: "/blog"},
			{Text: "Tags", Href: "/tags"},
		},
		FooterNavLinks: []Link{
			{Text: "About", Href: "/about"},
			{Text: "Contact", Href: "/contact"},
			{Text: "Terms", Href: "/terms"},
		},
		SocialLinks: []Link{
			{Text: "GitHub", Href: "https://github.com/"},
			{Text: "X/Twitter", Href: "https://twitter.com/"},
			{Text: "LinkedIn", Href: "https://linkedin.com/"},
		},
		Hero: &Hero{
			Title: String("Hungry of learning?"),
			Text:  String("Welcome to **Kilobite**. Notes on building software, training models and wiring the two together, written to be read in *one sitting*."),
			Image: &Image{
				Src: "/hero.jpeg",
				Alt: String("A laptop on a desk next to a cup of coffee"),
			},
			Actions: []Link{
				{Text: "Read the blog", Href: "/blog"},
			},
		},
		Subscribe: &Subscribe{
			Title:   String("Subscribe to the Kilobite newsletter"),
			Text:    String("One update per week. All the latest posts directly in your inbox."),
			FormURL: "#",
		},
		PostsPerPage:    Int(8),
		ProjectsPerPage: Int(8),
	}
}
